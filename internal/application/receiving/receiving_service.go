package receiving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Operation names used for latency and error metrics
const (
	OpProcessASN      = "process_asn"
	OpStartReceiving  = "start_receiving"
	OpReceiveGoods    = "receive_goods"
	OpCancelASN       = "cancel_asn"
	OpListASNs        = "list_asns"
	OpListInspections = "list_inspections"
)

// DefaultDockWindow is the time a dock is reserved around the expected
// arrival when no explicit window is configured.
const DefaultDockWindow = 2 * time.Hour

// ReceivingService is the ASN lifecycle controller. It owns the state
// machine and sequences validation, dock assignment, receipt recording,
// inspection, mismatch detection, and event emission. The service itself is
// stateless between calls; all state lives behind the repositories.
type ReceivingService struct {
	asnRepo         receiving.ASNRepository
	appointmentRepo receiving.DockAppointmentRepository
	inspectionRepo  receiving.QualityInspectionRepository
	reservationRepo receiving.DockReservationRepository
	allocator       receiving.DockAllocator
	publisher       shared.EventPublisher
	metrics         MetricsRecorder
	logger          *zap.Logger
	tolerance       decimal.Decimal
	dockWindow      time.Duration
}

// ReceivingServiceConfig bundles the collaborators of the service
type ReceivingServiceConfig struct {
	ASNRepo         receiving.ASNRepository
	AppointmentRepo receiving.DockAppointmentRepository
	InspectionRepo  receiving.QualityInspectionRepository
	ReservationRepo receiving.DockReservationRepository
	Allocator       receiving.DockAllocator
	Publisher       shared.EventPublisher
	Metrics         MetricsRecorder
	Logger          *zap.Logger
	Tolerance       decimal.Decimal // zero means DefaultQuantityTolerance
	DockWindow      time.Duration   // zero means DefaultDockWindow
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(cfg ReceivingServiceConfig) *ReceivingService {
	tolerance := cfg.Tolerance
	if tolerance.IsZero() {
		tolerance = receiving.DefaultQuantityTolerance
	}
	dockWindow := cfg.DockWindow
	if dockWindow <= 0 {
		dockWindow = DefaultDockWindow
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReceivingService{
		asnRepo:         cfg.ASNRepo,
		appointmentRepo: cfg.AppointmentRepo,
		inspectionRepo:  cfg.InspectionRepo,
		reservationRepo: cfg.ReservationRepo,
		allocator:       cfg.Allocator,
		publisher:       cfg.Publisher,
		metrics:         metrics,
		logger:          logger,
		tolerance:       tolerance,
		dockWindow:      dockWindow,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// ProcessASN validates an incoming ASN, assigns a dock when none was given,
// persists it in scheduled state, and announces it. Validation failures are
// fatal to the call: no partial ASN is ever created.
func (s *ReceivingService) ProcessASN(ctx context.Context, input ProcessASNInput) (*ASNResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordLatency(ctx, OpProcessASN, time.Since(start), input.ASNNumber)
	}()

	lines := make([]receiving.ASNLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		line, err := receiving.NewASNLine(in.LineNumber, in.SKU, in.GTIN, in.ExpectedQty, in.UOM)
		if err != nil {
			s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryValidation)
			return nil, err
		}
		line.WithTracking(in.Lot, in.Serial, in.ExpDate, in.MfgDate)
		lines = append(lines, *line)
	}

	asn, err := receiving.NewASN(input.ASNNumber, input.PONumber, input.SupplierID, input.Carrier, input.ExpectedArrival, input.Notes, lines)
	if err != nil {
		s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryValidation)
		return nil, err
	}

	exists, err := s.asnRepo.ExistsByNumber(ctx, input.ASNNumber)
	if err != nil {
		s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryProcessing)
		return nil, shared.NewStorageFault(OpProcessASN, err)
	}
	if exists {
		s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryValidation)
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("ASN %s is already registered", input.ASNNumber))
	}

	// Allocation persists a dock reservation keyed to the ASN before the ASN
	// itself is saved. Any failure between those two points must give the
	// dock back, or retries of the same ASN slowly burn the yard.
	allocated := false
	if input.Dock != "" {
		if err := asn.AssignDock(input.Dock); err != nil {
			s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryValidation)
			return nil, err
		}
	} else {
		window := receiving.TimeWindow{
			Start: input.ExpectedArrival,
			End:   input.ExpectedArrival.Add(s.dockWindow),
		}
		dock, err := s.allocator.Allocate(ctx, asn, window)
		if err != nil {
			s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryProcessing)
			return nil, err
		}
		allocated = true
		if err := asn.AssignDock(dock); err != nil {
			s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryProcessing)
			s.releaseReservations(ctx, asn, allocated)
			return nil, err
		}
	}

	if err := asn.Schedule(); err != nil {
		s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryProcessing)
		s.releaseReservations(ctx, asn, allocated)
		return nil, err
	}

	if err := s.asnRepo.Save(ctx, asn); err != nil {
		s.metrics.IncrementError(ctx, OpProcessASN, ErrorCategoryProcessing)
		s.releaseReservations(ctx, asn, allocated)
		return nil, shared.NewStorageFault(OpProcessASN, err)
	}

	s.publishDomainEvents(ctx, asn)

	s.logger.Info("ASN scheduled",
		zap.String("asn_number", asn.ASNNumber),
		zap.String("dock", asn.Dock),
		zap.Int("lines", len(asn.Lines)),
	)

	response := ToASNResponse(asn)
	return &response, nil
}

// GetByNumber returns the current state of an ASN
func (s *ReceivingService) GetByNumber(ctx context.Context, asnNumber string) (*ASNResponse, error) {
	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		return nil, err
	}
	response := ToASNResponse(asn)
	return &response, nil
}

// ListByStatus returns one page of the ASNs currently in the given
// lifecycle status. Zero filter fields fall back to the default page shape.
func (s *ReceivingService) ListByStatus(ctx context.Context, status receiving.ASNStatus, filter shared.Filter) (*shared.Paginated[ASNResponse], error) {
	if !status.IsValid() {
		s.metrics.IncrementError(ctx, OpListASNs, ErrorCategoryValidation)
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown ASN status %q", status))
	}

	def := shared.DefaultFilter()
	if filter.Page <= 0 {
		filter.Page = def.Page
	}
	if filter.PageSize <= 0 {
		filter.PageSize = def.PageSize
	}
	if filter.OrderBy == "" {
		filter.OrderBy = def.OrderBy
		filter.OrderDir = def.OrderDir
	}

	asns, total, err := s.asnRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		s.metrics.IncrementError(ctx, OpListASNs, ErrorCategoryProcessing)
		return nil, shared.NewStorageFault(OpListASNs, err)
	}

	items := make([]ASNResponse, 0, len(asns))
	for i := range asns {
		items = append(items, ToASNResponse(&asns[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListInspections returns the quality inspections recorded for an ASN in
// the order they were performed
func (s *ReceivingService) ListInspections(ctx context.Context, asnNumber string) ([]InspectionResponse, error) {
	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		return nil, err
	}
	inspections, err := s.inspectionRepo.FindByASN(ctx, asn.ID)
	if err != nil {
		return nil, shared.NewStorageFault(OpListInspections, err)
	}
	responses := make([]InspectionResponse, 0, len(inspections))
	for i := range inspections {
		responses = append(responses, ToInspectionResponse(&inspections[i]))
	}
	return responses, nil
}

// MarkInTransit records that the shipment left the supplier
func (s *ReceivingService) MarkInTransit(ctx context.Context, asnNumber string) (*ASNResponse, error) {
	return s.transition(ctx, asnNumber, func(asn *receiving.ASN) error {
		return asn.MarkInTransit()
	})
}

// MarkArrived records that the shipment is at the gate
func (s *ReceivingService) MarkArrived(ctx context.Context, asnNumber string) (*ASNResponse, error) {
	return s.transition(ctx, asnNumber, func(asn *receiving.ASN) error {
		return asn.MarkArrived()
	})
}

func (s *ReceivingService) transition(ctx context.Context, asnNumber string, fn func(*receiving.ASN) error) (*ASNResponse, error) {
	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		return nil, err
	}
	if err := fn(asn); err != nil {
		return nil, err
	}
	if err := s.asnRepo.SaveWithLock(ctx, asn); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, asn)

	response := ToASNResponse(asn)
	return &response, nil
}

// StartReceiving opens a receiving session: it creates a dock appointment
// stamped with the actual arrival time, records the dock on the ASN, and
// moves the ASN to receiving.
func (s *ReceivingService) StartReceiving(ctx context.Context, asnNumber, dock string, info CarrierInfo) (*ASNResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordLatency(ctx, OpStartReceiving, time.Since(start), asnNumber)
	}()

	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		s.metrics.IncrementError(ctx, OpStartReceiving, ErrorCategoryStartReceiving)
		return nil, err
	}

	if dock == "" {
		dock = asn.Dock
	}
	carrier := info.Carrier
	if carrier == "" {
		carrier = asn.Carrier
	}

	appointment, err := receiving.NewDockAppointment(asn.ID, dock, carrier, info.DriverName, info.VehicleNumber, asn.ExpectedArrival)
	if err != nil {
		s.metrics.IncrementError(ctx, OpStartReceiving, ErrorCategoryStartReceiving)
		return nil, err
	}

	if err := asn.BeginReceiving(dock, appointment.ID); err != nil {
		s.metrics.IncrementError(ctx, OpStartReceiving, ErrorCategoryStartReceiving)
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		s.metrics.IncrementError(ctx, OpStartReceiving, ErrorCategoryStartReceiving)
		return nil, shared.NewStorageFault(OpStartReceiving, err)
	}
	if err := s.asnRepo.SaveWithLock(ctx, asn); err != nil {
		s.metrics.IncrementError(ctx, OpStartReceiving, ErrorCategoryStartReceiving)
		return nil, err
	}

	s.publishDomainEvents(ctx, asn)

	s.logger.Info("receiving started",
		zap.String("asn_number", asn.ASNNumber),
		zap.String("dock", dock),
		zap.String("appointment_id", appointment.ID.String()),
	)

	response := ToASNResponse(asn)
	return &response, nil
}

// ReceiveGoods records the receipt data for a batch of lines, runs tolerance
// checks and quality inspection, completes the ASN, and emits exactly one
// goods-received event plus, when variances exist, one mismatch event.
//
// All supplied line numbers are validated before any line is mutated, so a
// stale line reference fails the whole call with nothing applied. A
// per-line inspection-persistence failure does not stop the remaining
// lines; the collected fault is surfaced after the batch completes and the
// applied state stays applied.
func (s *ReceivingService) ReceiveGoods(ctx context.Context, asnNumber string, inputs []ReceiveLineInput) (*ReceiveGoodsResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordLatency(ctx, OpReceiveGoods, time.Since(start), asnNumber)
	}()

	if len(inputs) == 0 {
		s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryValidation)
		return nil, shared.NewValidationError("Receiving batch must contain at least one line")
	}

	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryReceiveGoods)
		return nil, err
	}

	// Resolve every line reference and validate inspection inputs before
	// mutating anything: a bad batch must leave the ASN untouched.
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.LineNumber]; dup {
			s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryValidation)
			return nil, shared.NewValidationError(fmt.Sprintf("Line %s appears twice in the batch", in.LineNumber))
		}
		seen[in.LineNumber] = struct{}{}
		if asn.FindLine(in.LineNumber) == nil {
			s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryReceiveGoods)
			return nil, shared.NewNotFoundError(fmt.Sprintf("ASN %s has no line %s", asnNumber, in.LineNumber))
		}
		if in.QARequired && in.InspectionType != "" && !in.InspectionType.IsValid() {
			s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryValidation)
			return nil, shared.NewValidationError(fmt.Sprintf("Unknown inspection type %q on line %s", in.InspectionType, in.LineNumber))
		}
	}

	mismatches := make([]receiving.QuantityMismatch, 0)
	inspections := make([]InspectionResponse, 0)
	var inspectionFaults []error

	for _, in := range inputs {
		line := asn.FindLine(in.LineNumber)
		if err := line.RecordReceipt(in.ReceivedQty, in.Lot, in.Serial); err != nil {
			s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryValidation)
			return nil, err
		}

		if m := receiving.CheckQuantityVariance(line, in.ReceivedQty, s.tolerance); m != nil {
			mismatches = append(mismatches, *m)
		}

		if !in.QARequired {
			line.ApplyQAVerdict(receiving.QAStatusPassed, "")
			continue
		}

		inspection, err := s.inspectLine(ctx, asn, line, in)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryValidation)
				return nil, err
			}
			// Inspection persistence faults are isolated per line so one
			// backend hiccup does not block the rest of the truck.
			s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryInspectionStore)
			s.logger.Error("failed to store quality inspection",
				zap.String("asn_number", asnNumber),
				zap.String("line_number", in.LineNumber),
				zap.Error(err),
			)
			inspectionFaults = append(inspectionFaults, err)
			continue
		}
		inspections = append(inspections, ToInspectionResponse(inspection))
	}

	if err := asn.Complete(mismatches); err != nil {
		s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryReceiveGoods)
		return nil, err
	}

	if err := s.asnRepo.SaveWithLock(ctx, asn); err != nil {
		s.metrics.IncrementError(ctx, OpReceiveGoods, ErrorCategoryReceiveGoods)
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, shared.NewStorageFault(OpReceiveGoods, err)
	}

	s.completeAppointments(ctx, asn)
	s.publishDomainEvents(ctx, asn)

	s.logger.Info("goods received",
		zap.String("asn_number", asn.ASNNumber),
		zap.Int("lines", len(inputs)),
		zap.Int("mismatches", len(mismatches)),
	)

	result := &ReceiveGoodsResult{
		ASN:         ToASNResponse(asn),
		Mismatches:  mismatches,
		Inspections: inspections,
	}

	if len(inspectionFaults) > 0 {
		return result, shared.NewStorageFault("inspection_store", errors.Join(inspectionFaults...))
	}
	return result, nil
}

// inspectLine evaluates and stores the quality inspection for one line and
// applies the verdict to the line. The verdict is applied even when the
// store fails: quality is a judgement about the goods, not the database.
func (s *ReceivingService) inspectLine(ctx context.Context, asn *receiving.ASN, line *receiving.ASNLine, in ReceiveLineInput) (*receiving.QualityInspection, error) {
	criteria := make([]receiving.QualityCriterion, 0, len(in.Criteria))
	for _, c := range in.Criteria {
		criteria = append(criteria, receiving.QualityCriterion{
			Criterion: c.Criterion,
			Expected:  c.Expected,
			Actual:    c.Actual,
			Pass:      c.Pass,
			Required:  c.Required,
			Notes:     c.Notes,
		})
	}
	if len(criteria) == 0 {
		criteria = receiving.DefaultCriteria(true, true)
	}

	inspectionType := in.InspectionType
	if inspectionType == "" {
		inspectionType = receiving.InspectionTypeVisual
	}

	inspection, err := receiving.NewQualityInspection(asn.ID, line, in.ReceivedQty, inspectionType, in.InspectedBy, criteria)
	if err != nil {
		return nil, err
	}

	notes := ""
	if failed := inspection.FailedCriteria(); len(failed) > 0 {
		notes = fmt.Sprintf("%d criteria failed, first: %s", len(failed), failed[0].Criterion)
	}
	line.ApplyQAVerdict(inspection.QAVerdict(), notes)

	if err := s.inspectionRepo.Save(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}

// releaseReservations undoes the dock reservation of an ASN whose scheduling
// failed after allocation. Best effort: an unreleased reservation still ages
// out with its window, so a failed release is logged, not propagated.
func (s *ReceivingService) releaseReservations(ctx context.Context, asn *receiving.ASN, allocated bool) {
	if !allocated || s.reservationRepo == nil {
		return
	}
	if err := s.reservationRepo.DeleteByASN(ctx, asn.ID); err != nil {
		s.logger.Warn("failed to release dock reservation",
			zap.String("asn_number", asn.ASNNumber),
			zap.String("dock", asn.Dock),
			zap.Error(err),
		)
	}
}

// completeAppointments closes the open appointments of an ASN. Failures are
// logged only; the appointment record tracks the ASN, it never drives it.
func (s *ReceivingService) completeAppointments(ctx context.Context, asn *receiving.ASN) {
	appointments, err := s.appointmentRepo.FindByASN(ctx, asn.ID)
	if err != nil {
		s.logger.Warn("failed to load appointments for completion",
			zap.String("asn_number", asn.ASNNumber),
			zap.Error(err),
		)
		return
	}
	for i := range appointments {
		if appointments[i].Status == receiving.AppointmentStatusCompleted {
			continue
		}
		if err := appointments[i].Complete(); err != nil {
			continue
		}
		if err := s.appointmentRepo.Save(ctx, &appointments[i]); err != nil {
			s.logger.Warn("failed to complete appointment",
				zap.String("appointment_id", appointments[i].ID.String()),
				zap.Error(err),
			)
		}
	}
}

// Cancel moves an ASN into the absorbing cancelled state and releases its
// dock reservations through the cancelled event consumers.
func (s *ReceivingService) Cancel(ctx context.Context, asnNumber, reason string) (*ASNResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordLatency(ctx, OpCancelASN, time.Since(start), asnNumber)
	}()

	asn, err := s.asnRepo.FindByNumber(ctx, asnNumber)
	if err != nil {
		return nil, err
	}
	if err := asn.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.asnRepo.SaveWithLock(ctx, asn); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, asn)

	s.logger.Info("ASN cancelled",
		zap.String("asn_number", asn.ASNNumber),
		zap.String("reason", reason),
	)

	response := ToASNResponse(asn)
	return &response, nil
}

// publishDomainEvents publishes the pending events of the aggregate.
// Publishing happens strictly after the state change has been persisted and
// a failure never unwinds it: delivery is at-least-once at the bus level,
// this engine is fire-after-state-change.
func (s *ReceivingService) publishDomainEvents(ctx context.Context, asn *receiving.ASN) {
	events := asn.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	defer asn.ClearDomainEvents()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		for _, event := range events {
			s.metrics.IncrementError(ctx, event.EventType(), ErrorCategoryPublish)
			s.logger.Warn("event publish failed, state change stands",
				zap.String("asn_number", asn.ASNNumber),
				zap.Error(shared.NewPublishFault(event.EventType(), err)),
			)
		}
	}
}

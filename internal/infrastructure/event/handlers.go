package event

import (
	"context"

	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"go.uber.org/zap"
)

// DockReleaseHandler frees the dock reservations of an ASN when the ASN
// reaches a terminal state. Keeping release on the event path means every
// terminal transition, whatever triggered it, gives the dock back.
type DockReleaseHandler struct {
	reservations receiving.DockReservationRepository
	logger       *zap.Logger
}

// NewDockReleaseHandler creates a new DockReleaseHandler
func NewDockReleaseHandler(reservations receiving.DockReservationRepository, logger *zap.Logger) *DockReleaseHandler {
	return &DockReleaseHandler{
		reservations: reservations,
		logger:       logger,
	}
}

// EventTypes returns the terminal ASN event types
func (h *DockReleaseHandler) EventTypes() []string {
	return []string{
		receiving.EventTypeGoodsReceived,
		receiving.EventTypeASNCancelled,
	}
}

// Handle releases the reservations held by the event's aggregate
func (h *DockReleaseHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if err := h.reservations.DeleteByASN(ctx, ev.AggregateID()); err != nil {
		return err
	}
	h.logger.Debug("dock reservations released",
		zap.String("asn_id", ev.AggregateID().String()),
		zap.String("event_type", ev.EventType()),
	)
	return nil
}

// AuditLogHandler writes every domain event to the structured log. It is a
// wildcard subscriber, giving operators a trace of the receiving flow
// without a separate event store.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// EventTypes returns an empty slice: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Int("aggregate_version", ev.AggregateVersion()),
		zap.Time("occurred_on", ev.OccurredOn()),
	)
	return nil
}

// ThroughputRecorder counts processed ASNs and quantity mismatches
type ThroughputRecorder interface {
	RecordASNProcessed(ctx context.Context, supplierID, dock string)
	RecordMismatches(ctx context.Context, asnNumber string, count int)
}

// ThroughputMetricsHandler feeds the receiving throughput counters from the
// event stream rather than from the service, so the counters track what
// actually happened, retries and all.
type ThroughputMetricsHandler struct {
	recorder ThroughputRecorder
	logger   *zap.Logger
}

// NewThroughputMetricsHandler creates a new ThroughputMetricsHandler
func NewThroughputMetricsHandler(recorder ThroughputRecorder, logger *zap.Logger) *ThroughputMetricsHandler {
	return &ThroughputMetricsHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the throughput-relevant event types
func (h *ThroughputMetricsHandler) EventTypes() []string {
	return []string{
		receiving.EventTypeASNScheduled,
		receiving.EventTypeReceivingMismatch,
	}
}

// Handle records the counter matching the event
func (h *ThroughputMetricsHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *receiving.ASNScheduledEvent:
		h.recorder.RecordASNProcessed(ctx, e.SupplierID, e.Dock)
	case *receiving.ReceivingMismatchEvent:
		h.recorder.RecordMismatches(ctx, e.ASNNumber, len(e.Discrepancies))
	default:
		h.logger.Debug("unexpected event type for throughput metrics",
			zap.String("event_type", ev.EventType()),
		)
	}
	return nil
}

var (
	_ shared.EventHandler = (*DockReleaseHandler)(nil)
	_ shared.EventHandler = (*AuditLogHandler)(nil)
	_ shared.EventHandler = (*ThroughputMetricsHandler)(nil)
)

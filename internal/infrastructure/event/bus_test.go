package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingHandler collects the events it receives
type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.events))
	copy(result, h.events)
	return result
}

func cancelledEvent(t *testing.T) (*receiving.ASN, shared.DomainEvent) {
	t.Helper()
	line, err := receiving.NewASNLine("1", "WIDGET-001", "", decimal.NewFromInt(10), "EA")
	require.NoError(t, err)
	asn, err := receiving.NewASN("ASN-4001", "PO-4001", "SUP-01", "", time.Now(), "", []receiving.ASNLine{*line})
	require.NoError(t, err)
	require.NoError(t, asn.Cancel("carrier no-show"))
	events := asn.GetDomainEvents()
	require.Len(t, events, 1)
	return asn, events[0]
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers events to handlers subscribed to the type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{receiving.EventTypeASNCancelled}}
		bus.Subscribe(handler)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		received := handler.received()
		require.Len(t, received, 1)
		assert.Equal(t, receiving.EventTypeASNCancelled, received[0].EventType())
	})

	t.Run("skips handlers subscribed to other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{receiving.EventTypeGoodsReceived}}
		bus.Subscribe(handler)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Empty(t, handler.received())
	})

	t.Run("wildcard handlers see every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Len(t, handler.received(), 1)
	})

	t.Run("explicit subscription types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{receiving.EventTypeGoodsReceived}}
		bus.Subscribe(handler, receiving.EventTypeASNCancelled)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Len(t, handler.received(), 1)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{err: errors.New("handler down")}
		healthy := &recordingHandler{}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Len(t, healthy.received(), 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{panics: true}
		healthy := &recordingHandler{}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Len(t, healthy.received(), 1)
	})

	t.Run("events published after stop are dropped", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{receiving.EventTypeASNCancelled}}
		bus.Subscribe(handler)
		require.NoError(t, bus.Stop(ctx))

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))
		assert.Empty(t, handler.received())

		// Start re-opens the intake
		require.NoError(t, bus.Start(ctx))
		_, ev = cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))
		assert.Len(t, handler.received(), 1)
	})

	t.Run("unsubscribed handlers stop receiving events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{receiving.EventTypeASNCancelled}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		_, ev := cancelledEvent(t)
		require.NoError(t, bus.Publish(ctx, ev))

		assert.Empty(t, handler.received())
	})
}

// busReservationRepo is an in-memory DockReservationRepository
type busReservationRepo struct {
	mu       sync.Mutex
	byASN    map[uuid.UUID]int
	deleted  []uuid.UUID
	deleteFn func(uuid.UUID) error
}

func newBusReservationRepo() *busReservationRepo {
	return &busReservationRepo{byASN: make(map[uuid.UUID]int)}
}

func (r *busReservationRepo) FindOverlapping(ctx context.Context, dock string, window receiving.TimeWindow) ([]receiving.DockReservation, error) {
	return nil, nil
}

func (r *busReservationRepo) Save(ctx context.Context, reservation *receiving.DockReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byASN[reservation.ASNID]++
	return nil
}

func (r *busReservationRepo) DeleteByASN(ctx context.Context, asnID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteFn != nil {
		if err := r.deleteFn(asnID); err != nil {
			return err
		}
	}
	delete(r.byASN, asnID)
	r.deleted = append(r.deleted, asnID)
	return nil
}

func TestDockReleaseHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("releases reservations when an ASN is cancelled", func(t *testing.T) {
		repo := newBusReservationRepo()
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(NewDockReleaseHandler(repo, zap.NewNop()))

		asn, ev := cancelledEvent(t)
		reservation, err := receiving.NewDockReservation("D1", asn.ID, receiving.TimeWindow{
			Start: time.Now(),
			End:   time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, reservation))

		require.NoError(t, bus.Publish(ctx, ev))

		assert.Empty(t, repo.byASN)
		require.Len(t, repo.deleted, 1)
		assert.Equal(t, asn.ID, repo.deleted[0])
	})

	t.Run("only terminal events trigger a release", func(t *testing.T) {
		handler := NewDockReleaseHandler(newBusReservationRepo(), zap.NewNop())

		assert.ElementsMatch(t, []string{
			receiving.EventTypeGoodsReceived,
			receiving.EventTypeASNCancelled,
		}, handler.EventTypes())
	})
}

// recordingThroughput is an in-memory ThroughputRecorder
type recordingThroughput struct {
	mu         sync.Mutex
	processed  int
	mismatches int
}

func (r *recordingThroughput) RecordASNProcessed(ctx context.Context, supplierID, dock string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
}

func (r *recordingThroughput) RecordMismatches(ctx context.Context, asnNumber string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mismatches += count
}

func TestThroughputMetricsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("counts scheduled ASNs and mismatches from the event stream", func(t *testing.T) {
		recorder := &recordingThroughput{}
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(NewThroughputMetricsHandler(recorder, zap.NewNop()))

		line, err := receiving.NewASNLine("1", "WIDGET-001", "", decimal.NewFromInt(100), "EA")
		require.NoError(t, err)
		asn, err := receiving.NewASN("ASN-4002", "PO-4002", "SUP-01", "", time.Now(), "", []receiving.ASNLine{*line})
		require.NoError(t, err)
		require.NoError(t, asn.AssignDock("D1"))

		mismatches := []receiving.QuantityMismatch{{
			LineNumber:      "1",
			SKU:             "WIDGET-001",
			Expected:        decimal.NewFromInt(100),
			Received:        decimal.NewFromInt(90),
			VariancePercent: decimal.NewFromInt(-10),
		}}

		require.NoError(t, bus.Publish(ctx,
			receiving.NewASNScheduledEvent(asn),
			receiving.NewReceivingMismatchEvent(asn, mismatches),
		))

		assert.Equal(t, 1, recorder.processed)
		assert.Equal(t, 1, recorder.mismatches)
	})
}

func TestAuditLogHandler(t *testing.T) {
	t.Run("subscribes as a wildcard", func(t *testing.T) {
		handler := NewAuditLogHandler(zap.NewNop())
		assert.Empty(t, handler.EventTypes())
	})

	t.Run("logs without error", func(t *testing.T) {
		handler := NewAuditLogHandler(zap.NewNop())
		_, ev := cancelledEvent(t)
		assert.NoError(t, handler.Handle(context.Background(), ev))
	})
}

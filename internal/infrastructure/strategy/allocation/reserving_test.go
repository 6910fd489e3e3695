package allocation

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
)

// memoryReservationRepo is an in-memory DockReservationRepository
type memoryReservationRepo struct {
	mu           sync.Mutex
	reservations []receiving.DockReservation
	findErr      error
	saveErr      error
}

func (r *memoryReservationRepo) FindOverlapping(ctx context.Context, dock string, window receiving.TimeWindow) ([]receiving.DockReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	result := []receiving.DockReservation{}
	for _, res := range r.reservations {
		held := receiving.TimeWindow{Start: res.WindowStart, End: res.WindowEnd}
		if res.Dock == dock && held.Overlaps(window) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (r *memoryReservationRepo) Save(ctx context.Context, reservation *receiving.DockReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.reservations = append(r.reservations, *reservation)
	return nil
}

func (r *memoryReservationRepo) DeleteByASN(ctx context.Context, asnID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.reservations[:0]
	for _, res := range r.reservations {
		if res.ASNID != asnID {
			kept = append(kept, res)
		}
	}
	r.reservations = kept
	return nil
}

func testASN(t *testing.T) *receiving.ASN {
	t.Helper()
	line, err := receiving.NewASNLine("1", "WIDGET-001", "", decimal.NewFromInt(10), "EA")
	require.NoError(t, err)
	asn, err := receiving.NewASN("ASN-3001", "PO-3001", "SUP-01", "", time.Now(), "", []receiving.ASNLine{*line})
	require.NoError(t, err)
	return asn
}

func windowAt(t *testing.T, start time.Time, d time.Duration) receiving.TimeWindow {
	t.Helper()
	return receiving.TimeWindow{Start: start, End: start.Add(d)}
}

func TestReservingDockAllocator_Allocate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns the first dock when all are free", func(t *testing.T) {
		repo := &memoryReservationRepo{}
		allocator := NewReservingDockAllocator([]string{"D1", "D2"}, repo)
		asn := testASN(t)

		dock, err := allocator.Allocate(ctx, asn, windowAt(t, now, 2*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "D1", dock)
		require.Len(t, repo.reservations, 1)
		assert.Equal(t, "D1", repo.reservations[0].Dock)
		assert.Equal(t, asn.ID, repo.reservations[0].ASNID)
	})

	t.Run("skips docks with overlapping reservations", func(t *testing.T) {
		repo := &memoryReservationRepo{}
		allocator := NewReservingDockAllocator([]string{"D1", "D2"}, repo)

		first, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, 2*time.Hour))
		require.NoError(t, err)
		require.Equal(t, "D1", first)

		second, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now.Add(time.Hour), 2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "D2", second)
	})

	t.Run("reuses a dock once the windows no longer overlap", func(t *testing.T) {
		repo := &memoryReservationRepo{}
		allocator := NewReservingDockAllocator([]string{"D1"}, repo)

		_, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, 2*time.Hour))
		require.NoError(t, err)

		dock, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now.Add(2*time.Hour), 2*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "D1", dock)
	})

	t.Run("reports exhaustion when every dock is held", func(t *testing.T) {
		repo := &memoryReservationRepo{}
		allocator := NewReservingDockAllocator([]string{"D1"}, repo)

		_, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, 4*time.Hour))
		require.NoError(t, err)

		_, err = allocator.Allocate(ctx, testASN(t), windowAt(t, now.Add(time.Hour), time.Hour))

		require.ErrorIs(t, err, receiving.ErrNoDockAvailable)
	})

	t.Run("reports exhaustion with no docks configured", func(t *testing.T) {
		allocator := NewReservingDockAllocator(nil, &memoryReservationRepo{})

		_, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, time.Hour))

		require.ErrorIs(t, err, receiving.ErrNoDockAvailable)
	})

	t.Run("wraps lookup failures as storage faults", func(t *testing.T) {
		repo := &memoryReservationRepo{findErr: errors.New("connection refused")}
		allocator := NewReservingDockAllocator([]string{"D1"}, repo)

		_, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, time.Hour))

		var fault *shared.StorageFault
		require.ErrorAs(t, err, &fault)
	})

	t.Run("frees docks when an ASN releases its reservations", func(t *testing.T) {
		repo := &memoryReservationRepo{}
		allocator := NewReservingDockAllocator([]string{"D1"}, repo)
		asn := testASN(t)

		_, err := allocator.Allocate(ctx, asn, windowAt(t, now, 4*time.Hour))
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByASN(ctx, asn.ID))

		dock, err := allocator.Allocate(ctx, testASN(t), windowAt(t, now, 4*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "D1", dock)
	})
}

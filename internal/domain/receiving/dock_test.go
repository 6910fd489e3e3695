package receiving

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	window := TimeWindow{Start: base, End: base.Add(2 * time.Hour)}

	t.Run("overlapping windows intersect", func(t *testing.T) {
		other := TimeWindow{Start: base.Add(time.Hour), End: base.Add(3 * time.Hour)}

		assert.True(t, window.Overlaps(other))
		assert.True(t, other.Overlaps(window))
	})

	t.Run("contained window intersects", func(t *testing.T) {
		other := TimeWindow{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)}

		assert.True(t, window.Overlaps(other))
	})

	t.Run("back to back windows do not intersect", func(t *testing.T) {
		other := TimeWindow{Start: base.Add(2 * time.Hour), End: base.Add(4 * time.Hour)}

		assert.False(t, window.Overlaps(other))
	})

	t.Run("disjoint windows do not intersect", func(t *testing.T) {
		other := TimeWindow{Start: base.Add(5 * time.Hour), End: base.Add(6 * time.Hour)}

		assert.False(t, window.Overlaps(other))
	})
}

func TestNewDockReservation(t *testing.T) {
	window := TimeWindow{Start: time.Now(), End: time.Now().Add(2 * time.Hour)}

	t.Run("creates reservation", func(t *testing.T) {
		res, err := NewDockReservation("D1", uuid.New(), window)

		require.NoError(t, err)
		assert.Equal(t, "D1", res.Dock)
		assert.Equal(t, window.Start, res.WindowStart)
		assert.Equal(t, window.End, res.WindowEnd)
	})

	t.Run("rejects empty dock", func(t *testing.T) {
		_, err := NewDockReservation("", uuid.New(), window)

		require.Error(t, err)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := NewDockReservation("D1", uuid.New(), TimeWindow{Start: window.End, End: window.Start})

		require.Error(t, err)
	})
}

func TestDockAppointment(t *testing.T) {
	t.Run("new appointment is in receiving with arrival stamped", func(t *testing.T) {
		appt, err := NewDockAppointment(uuid.New(), "D1", "FastFreight", "A. Driver", "TRK-42", time.Now())

		require.NoError(t, err)
		assert.Equal(t, AppointmentStatusReceiving, appt.Status)
		require.NotNil(t, appt.ActualArrival)
		assert.WithinDuration(t, time.Now(), *appt.ActualArrival, time.Minute)
	})

	t.Run("rejects empty dock", func(t *testing.T) {
		_, err := NewDockAppointment(uuid.New(), "", "FastFreight", "", "", time.Now())

		require.Error(t, err)
	})

	t.Run("complete closes the appointment once", func(t *testing.T) {
		appt, err := NewDockAppointment(uuid.New(), "D1", "", "", "", time.Now())
		require.NoError(t, err)

		require.NoError(t, appt.Complete())
		assert.Equal(t, AppointmentStatusCompleted, appt.Status)

		require.Error(t, appt.Complete())
	})
}

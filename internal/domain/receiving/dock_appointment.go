package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/shared"
)

// AppointmentStatus tracks one physical arrival at a receiving dock.
// It mirrors but never drives the ASN status.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusArrived   AppointmentStatus = "arrived"
	AppointmentStatusReceiving AppointmentStatus = "receiving"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) rank() int {
	switch s {
	case AppointmentStatusScheduled:
		return 0
	case AppointmentStatusArrived:
		return 1
	case AppointmentStatusReceiving:
		return 2
	case AppointmentStatusCompleted:
		return 3
	}
	return -1
}

// CanTransitionTo checks that appointment status moves forward only
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	return target.rank() > s.rank()
}

// DockAppointment is a short-lived record of one arrival event at a dock.
// It back-references its ASN but is not owned by it.
type DockAppointment struct {
	shared.BaseEntity
	ASNID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Dock          string    `gorm:"not null"`
	ScheduledTime time.Time
	ActualArrival *time.Time
	Status        AppointmentStatus `gorm:"not null"`
	Carrier       string
	DriverName    string
	VehicleNumber string
}

// TableName returns the table name for GORM
func (DockAppointment) TableName() string {
	return "dock_appointments"
}

// NewDockAppointment creates an appointment for a shipment that is being
// unloaded now: actual arrival is stamped and the status starts at
// receiving.
func NewDockAppointment(asnID uuid.UUID, dock, carrier, driverName, vehicleNumber string, scheduledTime time.Time) (*DockAppointment, error) {
	if asnID == uuid.Nil {
		return nil, shared.NewValidationError("Appointment requires an ASN reference")
	}
	if dock == "" {
		return nil, shared.NewValidationError("Appointment requires a dock")
	}

	now := time.Now()
	return &DockAppointment{
		BaseEntity:    shared.NewBaseEntity(),
		ASNID:         asnID,
		Dock:          dock,
		ScheduledTime: scheduledTime,
		ActualArrival: &now,
		Status:        AppointmentStatusReceiving,
		Carrier:       carrier,
		DriverName:    driverName,
		VehicleNumber: vehicleNumber,
	}, nil
}

// Complete marks the appointment finished once unloading is done
func (d *DockAppointment) Complete() error {
	if !d.Status.CanTransitionTo(AppointmentStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot complete an appointment in %s state", d.Status))
	}

	d.Status = AppointmentStatusCompleted
	d.UpdatedAt = time.Now()

	return nil
}

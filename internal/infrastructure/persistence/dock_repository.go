package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/receiving"
	"gorm.io/gorm"
)

// GormDockAppointmentRepository implements DockAppointmentRepository using GORM
type GormDockAppointmentRepository struct {
	db *gorm.DB
}

// NewGormDockAppointmentRepository creates a new GormDockAppointmentRepository
func NewGormDockAppointmentRepository(db *gorm.DB) *GormDockAppointmentRepository {
	return &GormDockAppointmentRepository{db: db}
}

// FindByASN finds all appointments for an ASN
func (r *GormDockAppointmentRepository) FindByASN(ctx context.Context, asnID uuid.UUID) ([]receiving.DockAppointment, error) {
	var appointments []receiving.DockAppointment
	if err := r.db.WithContext(ctx).
		Where("asn_id = ?", asnID).
		Order("created_at ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// Save creates or updates an appointment
func (r *GormDockAppointmentRepository) Save(ctx context.Context, appointment *receiving.DockAppointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// GormDockReservationRepository implements DockReservationRepository using GORM
type GormDockReservationRepository struct {
	db *gorm.DB
}

// NewGormDockReservationRepository creates a new GormDockReservationRepository
func NewGormDockReservationRepository(db *gorm.DB) *GormDockReservationRepository {
	return &GormDockReservationRepository{db: db}
}

// FindOverlapping finds reservations for the dock that intersect the window
func (r *GormDockReservationRepository) FindOverlapping(ctx context.Context, dock string, window receiving.TimeWindow) ([]receiving.DockReservation, error) {
	var reservations []receiving.DockReservation
	if err := r.db.WithContext(ctx).
		Where("dock = ? AND window_start < ? AND window_end > ?", dock, window.End, window.Start).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save stores a reservation
func (r *GormDockReservationRepository) Save(ctx context.Context, reservation *receiving.DockReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// DeleteByASN removes all reservations held by an ASN
func (r *GormDockReservationRepository) DeleteByASN(ctx context.Context, asnID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&receiving.DockReservation{}, "asn_id = ?", asnID).Error
}

var (
	_ receiving.DockAppointmentRepository = (*GormDockAppointmentRepository)(nil)
	_ receiving.DockReservationRepository = (*GormDockReservationRepository)(nil)
)

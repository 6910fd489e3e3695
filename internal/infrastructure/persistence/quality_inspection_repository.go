package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inboundhq/receiving/internal/domain/receiving"
	"gorm.io/gorm"
)

// GormQualityInspectionRepository implements QualityInspectionRepository using GORM
type GormQualityInspectionRepository struct {
	db *gorm.DB
}

// NewGormQualityInspectionRepository creates a new GormQualityInspectionRepository
func NewGormQualityInspectionRepository(db *gorm.DB) *GormQualityInspectionRepository {
	return &GormQualityInspectionRepository{db: db}
}

// FindByASN finds all inspections recorded for an ASN
func (r *GormQualityInspectionRepository) FindByASN(ctx context.Context, asnID uuid.UUID) ([]receiving.QualityInspection, error) {
	var inspections []receiving.QualityInspection
	if err := r.db.WithContext(ctx).
		Where("asn_id = ?", asnID).
		Order("inspected_at ASC").
		Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

// Save stores an inspection record
func (r *GormQualityInspectionRepository) Save(ctx context.Context, inspection *receiving.QualityInspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

var _ receiving.QualityInspectionRepository = (*GormQualityInspectionRepository)(nil)

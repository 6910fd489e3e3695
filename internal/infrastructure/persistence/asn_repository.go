package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/inboundhq/receiving/internal/domain/receiving"
	"github.com/inboundhq/receiving/internal/domain/shared"
	"gorm.io/gorm"
)

// GormASNRepository implements ASNRepository using GORM
type GormASNRepository struct {
	db *gorm.DB
}

// NewGormASNRepository creates a new GormASNRepository
func NewGormASNRepository(db *gorm.DB) *GormASNRepository {
	return &GormASNRepository{db: db}
}

// FindByNumber finds an ASN by its external ASN number, lines included
func (r *GormASNRepository) FindByNumber(ctx context.Context, asnNumber string) (*receiving.ASN, error) {
	var asn receiving.ASN
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&asn, "asn_number = ?", asnNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("ASN " + asnNumber + " not found")
		}
		return nil, err
	}
	return &asn, nil
}

// FindByStatus finds ASNs in the given status, with the total count across
// all pages
func (r *GormASNRepository) FindByStatus(ctx context.Context, status receiving.ASNStatus, filter shared.Filter) ([]receiving.ASN, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&receiving.ASN{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var asns []receiving.ASN
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&receiving.ASN{}).
			Preload("Lines").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&asns).Error; err != nil {
		return nil, 0, err
	}
	return asns, total, nil
}

// ExistsByNumber checks whether an ASN number is already registered
func (r *GormASNRepository) ExistsByNumber(ctx context.Context, asnNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&receiving.ASN{}).
		Where("asn_number = ?", asnNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an ASN with its lines
func (r *GormASNRepository) Save(ctx context.Context, asn *receiving.ASN) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(asn).Error
}

// SaveWithLock saves with optimistic locking (checks version). The version
// check only guards the aggregate row; line rows follow once the check holds.
func (r *GormASNRepository) SaveWithLock(ctx context.Context, asn *receiving.ASN) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&receiving.ASN{}).
			Where("id = ? AND version = ?", asn.ID, asn.Version-1).
			Updates(map[string]interface{}{
				"status":     asn.Status,
				"dock":       asn.Dock,
				"notes":      asn.Notes,
				"version":    asn.Version,
				"updated_at": asn.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range asn.Lines {
			if err := tx.Save(&asn.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormASNRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

var _ receiving.ASNRepository = (*GormASNRepository)(nil)

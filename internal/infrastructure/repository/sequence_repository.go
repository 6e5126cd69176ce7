package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new document sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next seeds the counter row if missing, then locks it with SELECT ... FOR UPDATE
// and bumps it, so concurrent callers serialize on the row.
func (r *sequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, kind entity.DocumentKind) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := entity.DocumentSequence{TenantID: tenantID, Kind: kind, NextValue: 1}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var seq entity.DocumentSequence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind).
			First(&seq).Error; err != nil {
			return err
		}

		value = seq.NextValue
		return tx.Model(&entity.DocumentSequence{}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind).
			Update("next_value", seq.NextValue+1).Error
	})
	return value, err
}

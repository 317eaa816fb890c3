package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"groupnet/memberhub/internal/model"
)

type pgIntentRepository struct {
	db *gorm.DB
}

func NewPGIntentRepository(db *gorm.DB) IntentRepository {
	return &pgIntentRepository{db: db}
}

func (r *pgIntentRepository) Create(ctx context.Context, intent *model.Intent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	intent.Status = model.IntentStatusPending
	intent.ReviewedAt = nil
	intent.ReviewedBy = nil
	return translateError(conn(ctx, r.db).Create(intent).Error)
}

func (r *pgIntentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Intent, error) {
	var intent model.Intent
	if err := conn(ctx, r.db).First(&intent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (r *pgIntentRepository) FindByEmail(ctx context.Context, email string) (*model.Intent, error) {
	var intent model.Intent
	err := conn(ctx, r.db).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (r *pgIntentRepository) List(ctx context.Context, params ListIntentsParams) ([]model.Intent, int64, error) {
	filtered := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&model.Intent{})
		if params.Status != nil {
			q = q.Where("status = ?", *params.Status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var intents []model.Intent
	err := filtered().
		Order("created_at DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&intents).Error
	if err != nil {
		return nil, 0, err
	}
	return intents, total, nil
}

func (r *pgIntentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.IntentStatus, reviewedBy string) (*model.Intent, error) {
	var intent model.Intent
	res := conn(ctx, r.db).
		Model(&intent).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, model.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": time.Now(),
			"reviewed_by": reviewedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrStaleStatus
	}
	return &intent, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"groupnet/memberhub/internal/model"
)

type pgInviteRepository struct {
	db *gorm.DB
}

func NewPGInviteRepository(db *gorm.DB) InviteRepository {
	return &pgInviteRepository{db: db}
}

func (r *pgInviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	invite.Status = model.InviteStatusPending
	return translateError(conn(ctx, r.db).Create(invite).Error)
}

func (r *pgInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *pgInviteRepository) FindByToken(ctx context.Context, token string) (*model.Invite, error) {
	return r.findOne(ctx, "token = ?", token)
}

func (r *pgInviteRepository) FindByIntentID(ctx context.Context, intentID uuid.UUID) (*model.Invite, error) {
	return r.findOne(ctx, "intent_id = ?", intentID)
}

func (r *pgInviteRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Invite, error) {
	var invite model.Invite
	if err := conn(ctx, r.db).Where(query, arg).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

func (r *pgInviteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InviteStatus) (*model.Invite, error) {
	var invite model.Invite
	res := conn(ctx, r.db).
		Model(&invite).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, model.InviteStatusPending).
		Update("status", status)
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
	return &invite, nil
}

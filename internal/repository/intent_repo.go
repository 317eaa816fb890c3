package repository

import (
	"context"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

type ListIntentsParams struct {
	Status   *model.IntentStatus
	Page     int
	PageSize int
}

// IntentRepository persists intents. Lookups return (nil, nil) when nothing matches.
type IntentRepository interface {
	// Create inserts a PENDING intent, filling ID and CreatedAt.
	Create(ctx context.Context, intent *model.Intent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Intent, error)
	// FindByEmail returns the most recently created intent for email.
	FindByEmail(ctx context.Context, email string) (*model.Intent, error)
	// List returns one page, newest first, and the total number of matches.
	List(ctx context.Context, params ListIntentsParams) ([]model.Intent, int64, error)
	// UpdateStatus moves a PENDING intent to status and stamps the review.
	// It returns ErrStaleStatus when the intent is no longer PENDING.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.IntentStatus, reviewedBy string) (*model.Intent, error)
}

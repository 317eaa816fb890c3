package repository

import (
	"context"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

// InviteRepository persists invites. Token and IntentID are unique; a
// violating Create returns ErrDuplicate.
type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invite, error)
	FindByToken(ctx context.Context, token string) (*model.Invite, error)
	FindByIntentID(ctx context.Context, intentID uuid.UUID) (*model.Invite, error)
	// UpdateStatus moves a PENDING invite to status. It returns
	// ErrStaleStatus when the invite is no longer PENDING.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InviteStatus) (*model.Invite, error)
}

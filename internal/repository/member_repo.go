package repository

import (
	"context"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

// MemberRepository persists members. Email is unique case-insensitively; a
// violating Create returns ErrDuplicate.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
}

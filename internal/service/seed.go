package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
)

type SeedAdmin struct {
	Name     string
	Email    string
	Password string
}

type SeedIntent struct {
	FullName string
	Email    string
	Phone    string
	Notes    string
}

// Seeder populates a fresh deployment. Every step is idempotent.
type Seeder struct {
	memberRepo repository.MemberRepository
	intents    IntentService
	hasher     PasswordHasher
	logger     *zap.Logger
}

func NewSeeder(memberRepo repository.MemberRepository, intents IntentService, hasher PasswordHasher, logger *zap.Logger) *Seeder {
	return &Seeder{
		memberRepo: memberRepo,
		intents:    intents,
		hasher:     hasher,
		logger:     logger,
	}
}

// SeedAdmin creates the admin member unless one with the same email exists.
// The boolean reports whether a member was created.
func (s *Seeder) SeedAdmin(ctx context.Context, admin SeedAdmin) (*model.Member, bool, error) {
	email := NormalizeEmail(admin.Email)
	existing, err := s.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		s.logger.Info("admin member already exists, skipping", zap.String("member_id", existing.ID.String()))
		return existing, false, nil
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}
	member := &model.Member{
		Name:         strings.TrimSpace(admin.Name),
		Email:        email,
		Role:         model.MemberRoleAdmin,
		Status:       model.MemberStatusActive,
		PasswordHash: hash,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin member created", zap.String("member_id", member.ID.String()))
	return member, true, nil
}

// SeedIntents submits sample intents, skipping emails that already have a
// pending one. It returns the number submitted.
func (s *Seeder) SeedIntents(ctx context.Context, intents []SeedIntent) (int, error) {
	created := 0
	for _, in := range intents {
		_, err := s.intents.Submit(ctx, SubmitIntentInput{
			FullName: in.FullName,
			Email:    in.Email,
			Phone:    &in.Phone,
			Notes:    &in.Notes,
		})
		if errors.Is(err, ErrDuplicatePendingIntent) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed intent %s: %w", in.Email, err)
		}
		created++
	}
	s.logger.Info("sample intents seeded", zap.Int("created", created))
	return created, nil
}

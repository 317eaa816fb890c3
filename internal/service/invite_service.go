package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
)

// Reasons reported for an unusable invite.
const (
	InviteReasonInvalid = "invalid"
	InviteReasonUsed    = "used"
	InviteReasonExpired = "expired"
)

// InviteValidation describes whether a token can currently be redeemed.
// IntentID and ExpiresAt are set only when Valid is true.
type InviteValidation struct {
	Valid     bool       `json:"valid"`
	Reason    string     `json:"reason,omitempty"`
	IntentID  *uuid.UUID `json:"intent_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type RegisterInput struct {
	Token    string
	Name     string
	Email    string
	Phone    *string
	Password string
}

type InviteService interface {
	Validate(ctx context.Context, token string) (*InviteValidation, error)
	Register(ctx context.Context, in RegisterInput) (*model.Member, error)
	GetByIntent(ctx context.Context, intentID uuid.UUID) (*model.Invite, error)
}

type inviteService struct {
	inviteRepo repository.InviteRepository
	memberRepo repository.MemberRepository
	tx         repository.Transactor
	hasher     PasswordHasher
	opts       options
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	memberRepo repository.MemberRepository,
	tx repository.Transactor,
	hasher PasswordHasher,
	opts ...Option,
) InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		memberRepo: memberRepo,
		tx:         tx,
		hasher:     hasher,
		opts:       buildOptions(opts),
	}
}

func (s *inviteService) Validate(ctx context.Context, token string) (result *InviteValidation, err error) {
	defer func() {
		outcome := outcomeOf(err)
		if err == nil && !result.Valid {
			outcome = result.Reason
		}
		s.opts.recorder.RecordWorkflowEvent("validate_invite", outcome)
	}()

	invite, err := s.inviteRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find invite by token: %w", err)
	}
	if invite == nil {
		return &InviteValidation{Reason: InviteReasonInvalid}, nil
	}
	if invite.IsUsed() {
		return &InviteValidation{Reason: InviteReasonUsed}, nil
	}

	if invite.IsExpiredAt(s.opts.now()) {
		if invite.IsPending() {
			// Persist the expiry. Losing the race to a concurrent redemption
			// or expiry write is harmless.
			if _, err := s.inviteRepo.UpdateStatus(ctx, invite.ID, model.InviteStatusExpired); err != nil &&
				!errors.Is(err, repository.ErrStaleStatus) {
				return nil, fmt.Errorf("mark invite expired: %w", err)
			}
			s.opts.logger.Info("invite expired", zap.String("invite_id", invite.ID.String()))
		}
		return &InviteValidation{Reason: InviteReasonExpired}, nil
	}

	intentID := invite.IntentID
	expiresAt := invite.ExpiresAt
	return &InviteValidation{
		Valid:     true,
		IntentID:  &intentID,
		ExpiresAt: &expiresAt,
	}, nil
}

func (s *inviteService) Register(ctx context.Context, in RegisterInput) (result *model.Member, err error) {
	defer func() { s.opts.recorder.RecordWorkflowEvent("register_member", outcomeOf(err)) }()

	invite, err := s.inviteRepo.FindByToken(ctx, in.Token)
	if err != nil {
		return nil, fmt.Errorf("find invite by token: %w", err)
	}
	if invite == nil {
		return nil, ErrInviteTokenInvalid
	}
	if !invite.CanBeUsedAt(s.opts.now()) {
		return nil, unusableInviteError(invite)
	}

	email := NormalizeEmail(in.Email)
	existing, err := s.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find member by email: %w", err)
	}
	if existing != nil {
		return nil, ErrMemberEmailExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &model.Member{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        optionalString(in.Phone),
		Role:         model.MemberRoleMember,
		Status:       model.MemberStatusActive,
		PasswordHash: hash,
	}
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.memberRepo.Create(ctx, member); err != nil {
			return err
		}
		_, err := s.inviteRepo.UpdateStatus(ctx, invite.ID, model.InviteStatusUsed)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrMemberEmailExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInviteTokenInvalid
		case errors.Is(err, repository.ErrStaleStatus):
			current, ferr := s.inviteRepo.FindByID(ctx, invite.ID)
			if ferr != nil {
				return nil, fmt.Errorf("reload invite: %w", ferr)
			}
			if current == nil {
				return nil, ErrInviteTokenInvalid
			}
			return nil, unusableInviteError(current)
		default:
			return nil, fmt.Errorf("register member: %w", err)
		}
	}

	s.opts.logger.Info("member registered",
		zap.String("member_id", member.ID.String()),
		zap.String("invite_id", invite.ID.String()),
	)
	return member, nil
}

func unusableInviteError(invite *model.Invite) error {
	if invite.IsUsed() {
		return ErrInviteUsed
	}
	return ErrInviteExpired
}

func (s *inviteService) GetByIntent(ctx context.Context, intentID uuid.UUID) (*model.Invite, error) {
	invite, err := s.inviteRepo.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("find invite by intent: %w", err)
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	return invite, nil
}

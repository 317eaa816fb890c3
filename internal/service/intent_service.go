package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SubmitIntentInput struct {
	FullName string
	Email    string
	Phone    *string
	Notes    *string
}

type ListIntentsInput struct {
	Status   *model.IntentStatus
	Page     int
	PageSize int
}

type IntentPage struct {
	Items      []model.Intent `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// ApprovedIntent is the result of a successful approval.
type ApprovedIntent struct {
	Intent *model.Intent `json:"intent"`
	Invite *model.Invite `json:"invite"`
}

type IntentService interface {
	Submit(ctx context.Context, in SubmitIntentInput) (*model.Intent, error)
	List(ctx context.Context, in ListIntentsInput) (*IntentPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Intent, error)
	Approve(ctx context.Context, id uuid.UUID, reviewedBy string) (*ApprovedIntent, error)
	Reject(ctx context.Context, id uuid.UUID, reviewedBy string) (*model.Intent, error)
}

type intentService struct {
	intentRepo repository.IntentRepository
	inviteRepo repository.InviteRepository
	tx         repository.Transactor
	cfg        WorkflowConfig
	opts       options
}

func NewIntentService(
	intentRepo repository.IntentRepository,
	inviteRepo repository.InviteRepository,
	tx repository.Transactor,
	cfg WorkflowConfig,
	opts ...Option,
) IntentService {
	return &intentService{
		intentRepo: intentRepo,
		inviteRepo: inviteRepo,
		tx:         tx,
		cfg:        cfg,
		opts:       buildOptions(opts),
	}
}

// NormalizeEmail is the canonical form used for every email comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *intentService) Submit(ctx context.Context, in SubmitIntentInput) (result *model.Intent, err error) {
	defer func() { s.opts.recorder.RecordWorkflowEvent("submit_intent", outcomeOf(err)) }()

	email := NormalizeEmail(in.Email)
	existing, err := s.intentRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find intent by email: %w", err)
	}
	if existing != nil && existing.IsPending() {
		return nil, ErrDuplicatePendingIntent
	}

	intent := &model.Intent{
		FullName:  strings.TrimSpace(in.FullName),
		Email:     email,
		Phone:     optionalString(in.Phone),
		Notes:     optionalString(in.Notes),
		CreatedAt: s.opts.now(),
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePendingIntent
		}
		return nil, fmt.Errorf("create intent: %w", err)
	}

	s.opts.logger.Info("intent submitted", zap.String("intent_id", intent.ID.String()))
	return intent, nil
}

func (s *intentService) List(ctx context.Context, in ListIntentsInput) (*IntentPage, error) {
	page := in.Page
	if page < 1 {
		page = DefaultPage
	}
	pageSize := in.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.intentRepo.List(ctx, repository.ListIntentsParams{
		Status:   in.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}
	if items == nil {
		items = []model.Intent{}
	}

	return &IntentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *intentService) Get(ctx context.Context, id uuid.UUID) (*model.Intent, error) {
	intent, err := s.intentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find intent: %w", err)
	}
	if intent == nil {
		return nil, ErrIntentNotFound
	}
	return intent, nil
}

func (s *intentService) Approve(ctx context.Context, id uuid.UUID, reviewedBy string) (result *ApprovedIntent, err error) {
	defer func() { s.opts.recorder.RecordWorkflowEvent("approve_intent", outcomeOf(err)) }()

	intent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The invite check precedes the status gate so a repeated approval
	// reports the existing invite.
	existing, err := s.inviteRepo.FindByIntentID(ctx, intent.ID)
	if err != nil {
		return nil, fmt.Errorf("find invite by intent: %w", err)
	}
	if existing != nil {
		return nil, ErrIntentHasInvite
	}
	if !intent.CanBeApproved() {
		return nil, newError(ErrInvalidState, "intent cannot be approved, current status: %s", intent.Status)
	}

	token, err := s.opts.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}
	now := s.opts.now()
	invite := &model.Invite{
		IntentID:  intent.ID,
		Token:     token,
		ExpiresAt: model.InviteExpiry(now, s.cfg.InviteTTLDays),
		Status:    model.InviteStatusPending,
		CreatedAt: now,
	}

	var updated *model.Intent
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.intentRepo.UpdateStatus(ctx, intent.ID, model.IntentStatusApproved, reviewedBy)
		if err != nil {
			return err
		}
		updated = u
		return s.inviteRepo.Create(ctx, invite)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrIntentNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrIntentHasInvite
		case errors.Is(err, repository.ErrStaleStatus):
			return nil, s.staleApproval(ctx, intent.ID)
		default:
			return nil, fmt.Errorf("approve intent: %w", err)
		}
	}

	s.opts.logger.Info("intent approved",
		zap.String("intent_id", updated.ID.String()),
		zap.String("invite_id", invite.ID.String()),
		zap.String("reviewed_by", reviewedBy),
		zap.Time("expires_at", invite.ExpiresAt),
	)
	return &ApprovedIntent{Intent: updated, Invite: invite}, nil
}

// staleApproval explains an approval that lost a race with another review.
func (s *intentService) staleApproval(ctx context.Context, id uuid.UUID) error {
	current, err := s.intentRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reload intent: %w", err)
	}
	if current == nil {
		return ErrIntentNotFound
	}
	if current.IsApproved() {
		return ErrIntentHasInvite
	}
	return newError(ErrInvalidState, "intent cannot be approved, current status: %s", current.Status)
}

func (s *intentService) Reject(ctx context.Context, id uuid.UUID, reviewedBy string) (result *model.Intent, err error) {
	defer func() { s.opts.recorder.RecordWorkflowEvent("reject_intent", outcomeOf(err)) }()

	intent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !intent.CanBeRejected() {
		return nil, newError(ErrInvalidState, "intent cannot be rejected, current status: %s", intent.Status)
	}

	updated, err := s.intentRepo.UpdateStatus(ctx, intent.ID, model.IntentStatusRejected, reviewedBy)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrIntentNotFound
		case errors.Is(err, repository.ErrStaleStatus):
			current, ferr := s.intentRepo.FindByID(ctx, intent.ID)
			if ferr != nil {
				return nil, fmt.Errorf("reload intent: %w", ferr)
			}
			if current == nil {
				return nil, ErrIntentNotFound
			}
			return nil, newError(ErrInvalidState, "intent cannot be rejected, current status: %s", current.Status)
		default:
			return nil, fmt.Errorf("reject intent: %w", err)
		}
	}

	s.opts.logger.Info("intent rejected",
		zap.String("intent_id", updated.ID.String()),
		zap.String("reviewed_by", reviewedBy),
	)
	return updated, nil
}

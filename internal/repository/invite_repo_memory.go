package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

type memoryInviteRepository struct {
	mu       sync.RWMutex
	invites  map[uuid.UUID]model.Invite
	byToken  map[string]uuid.UUID
	byIntent map[uuid.UUID]uuid.UUID
}

func NewMemoryInviteRepository() InviteRepository {
	return &memoryInviteRepository{
		invites:  make(map[uuid.UUID]model.Invite),
		byToken:  make(map[string]uuid.UUID),
		byIntent: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *memoryInviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	if _, exists := r.invites[invite.ID]; exists {
		return ErrDuplicate
	}
	if _, exists := r.byToken[invite.Token]; exists {
		return ErrDuplicate
	}
	if _, exists := r.byIntent[invite.IntentID]; exists {
		return ErrDuplicate
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now()
	}
	invite.Status = model.InviteStatusPending

	r.invites[invite.ID] = *invite
	r.byToken[invite.Token] = invite.ID
	r.byIntent[invite.IntentID] = invite.ID

	id, token, intentID := invite.ID, invite.Token, invite.IntentID
	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.invites, id)
		delete(r.byToken, token)
		delete(r.byIntent, intentID)
	})
	return nil
}

func (r *memoryInviteRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id, true), nil
}

func (r *memoryInviteRepository) FindByToken(_ context.Context, token string) (*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[token]
	return r.lookup(id, ok), nil
}

func (r *memoryInviteRepository) FindByIntentID(_ context.Context, intentID uuid.UUID) (*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byIntent[intentID]
	return r.lookup(id, ok), nil
}

// lookup must be called with r.mu held.
func (r *memoryInviteRepository) lookup(id uuid.UUID, ok bool) *model.Invite {
	if !ok {
		return nil
	}
	invite, found := r.invites[id]
	if !found {
		return nil
	}
	return &invite
}

func (r *memoryInviteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InviteStatus) (*model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invite, ok := r.invites[id]
	if !ok {
		return nil, ErrNotFound
	}
	if invite.Status != model.InviteStatusPending {
		return nil, ErrStaleStatus
	}

	previous := invite
	invite.Status = status
	r.invites[id] = invite

	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.invites[id] = previous
	})
	return &invite, nil
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

type memoryIntentRepository struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]model.Intent
	order   []uuid.UUID
}

func NewMemoryIntentRepository() IntentRepository {
	return &memoryIntentRepository{
		intents: make(map[uuid.UUID]model.Intent),
	}
}

func (r *memoryIntentRepository) Create(ctx context.Context, intent *model.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	if _, exists := r.intents[intent.ID]; exists {
		return ErrDuplicate
	}
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now()
	}
	intent.Status = model.IntentStatusPending
	intent.ReviewedAt = nil
	intent.ReviewedBy = nil

	r.intents[intent.ID] = *intent
	r.order = append(r.order, intent.ID)

	id := intent.ID
	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.intents, id)
		for i := len(r.order) - 1; i >= 0; i-- {
			if r.order[i] == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (r *memoryIntentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.intents[id]
	if !ok {
		return nil, nil
	}
	return &intent, nil
}

func (r *memoryIntentRepository) FindByEmail(_ context.Context, email string) (*model.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.Intent
	for _, id := range r.order {
		intent := r.intents[id]
		if intent.Email != email {
			continue
		}
		if latest == nil || !intent.CreatedAt.Before(latest.CreatedAt) {
			found := intent
			latest = &found
		}
	}
	return latest, nil
}

func (r *memoryIntentRepository) List(_ context.Context, params ListIntentsParams) ([]model.Intent, int64, error) {
	r.mu.RLock()
	matched := make([]model.Intent, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		intent := r.intents[r.order[i]]
		if params.Status != nil && intent.Status != *params.Status {
			continue
		}
		matched = append(matched, intent)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start < 0 || start >= len(matched) {
		return []model.Intent{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryIntentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.IntentStatus, reviewedBy string) (*model.Intent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	intent, ok := r.intents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if intent.Status != model.IntentStatusPending {
		return nil, ErrStaleStatus
	}

	previous := intent
	now := time.Now()
	reviewer := reviewedBy
	intent.Status = status
	intent.ReviewedAt = &now
	intent.ReviewedBy = &reviewer
	r.intents[id] = intent

	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.intents[id] = previous
	})
	return &intent, nil
}

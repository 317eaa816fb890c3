package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupnet/memberhub/internal/model"
)

type memoryMemberRepository struct {
	mu      sync.RWMutex
	members map[uuid.UUID]model.Member
	byEmail map[string]uuid.UUID
}

func NewMemoryMemberRepository() MemberRepository {
	return &memoryMemberRepository{
		members: make(map[uuid.UUID]model.Member),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryMemberRepository) Create(ctx context.Context, member *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(member.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrDuplicate
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if _, exists := r.members[member.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = member.CreatedAt
	if member.Role == "" {
		member.Role = model.MemberRoleMember
	}
	if member.Status == "" {
		member.Status = model.MemberStatusActive
	}

	r.members[member.ID] = *member
	r.byEmail[key] = member.ID

	id := member.ID
	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.members, id)
		delete(r.byEmail, key)
	})
	return nil
}

func (r *memoryMemberRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

func (r *memoryMemberRepository) FindByEmail(_ context.Context, email string) (*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	member := r.members[id]
	return &member, nil
}

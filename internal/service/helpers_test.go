package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
	"groupnet/memberhub/pkg/crypto"
)

var cheapArgon2 = crypto.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func testHasher() *crypto.Argon2Hasher {
	return crypto.NewArgon2Hasher(cheapArgon2)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordedEvent struct {
	operation string
	outcome   string
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingRecorder) RecordWorkflowEvent(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{operation: operation, outcome: outcome})
}

func (r *recordingRecorder) last() recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return recordedEvent{}
	}
	return r.events[len(r.events)-1]
}

type fixture struct {
	intents  repository.IntentRepository
	invites  repository.InviteRepository
	members  repository.MemberRepository
	clock    *fakeClock
	recorder *recordingRecorder
	hasher   *crypto.Argon2Hasher

	intentSvc IntentService
	inviteSvc InviteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		intents:  repository.NewMemoryIntentRepository(),
		invites:  repository.NewMemoryInviteRepository(),
		members:  repository.NewMemoryMemberRepository(),
		clock:    newFakeClock(),
		recorder: &recordingRecorder{},
		hasher:   testHasher(),
	}
	tx := repository.NewMemoryTransactor()
	opts := []Option{WithClock(f.clock.Now), WithEventRecorder(f.recorder)}
	f.intentSvc = NewIntentService(f.intents, f.invites, tx, WorkflowConfig{InviteTTLDays: 7}, opts...)
	f.inviteSvc = NewInviteService(f.invites, f.members, tx, f.hasher, opts...)
	return f
}

func (f *fixture) submit(t *testing.T, name, email string) *model.Intent {
	t.Helper()
	intent, err := f.intentSvc.Submit(context.Background(), SubmitIntentInput{FullName: name, Email: email})
	require.NoError(t, err)
	return intent
}

func (f *fixture) approve(t *testing.T, id uuid.UUID) *ApprovedIntent {
	t.Helper()
	result, err := f.intentSvc.Approve(context.Background(), id, "admin-1")
	require.NoError(t, err)
	return result
}

type mockInviteRepo struct {
	mock.Mock
}

func (m *mockInviteRepo) Create(ctx context.Context, invite *model.Invite) error {
	return m.Called(ctx, invite).Error(0)
}

func (m *mockInviteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invite, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*model.Invite)
	return inv, args.Error(1)
}

func (m *mockInviteRepo) FindByToken(ctx context.Context, token string) (*model.Invite, error) {
	args := m.Called(ctx, token)
	inv, _ := args.Get(0).(*model.Invite)
	return inv, args.Error(1)
}

func (m *mockInviteRepo) FindByIntentID(ctx context.Context, intentID uuid.UUID) (*model.Invite, error) {
	args := m.Called(ctx, intentID)
	inv, _ := args.Get(0).(*model.Invite)
	return inv, args.Error(1)
}

func (m *mockInviteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InviteStatus) (*model.Invite, error) {
	args := m.Called(ctx, id, status)
	inv, _ := args.Get(0).(*model.Invite)
	return inv, args.Error(1)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestSubmit_NormalizesInput(t *testing.T) {
	f := newFixture(t)
	phone := "  "
	notes := " plays cello "

	intent, err := f.intentSvc.Submit(context.Background(), SubmitIntentInput{
		FullName: "  Jane Doe ",
		Email:    " Jane@Example.COM ",
		Phone:    &phone,
		Notes:    &notes,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, intent.ID)
	assert.Equal(t, "Jane Doe", intent.FullName)
	assert.Equal(t, "jane@example.com", intent.Email)
	assert.Nil(t, intent.Phone)
	require.NotNil(t, intent.Notes)
	assert.Equal(t, "plays cello", *intent.Notes)
	assert.Equal(t, model.IntentStatusPending, intent.Status)
	assert.Nil(t, intent.ReviewedAt)
	assert.Nil(t, intent.ReviewedBy)
	assert.Equal(t, recordedEvent{"submit_intent", "success"}, f.recorder.last())
}

func TestSubmit_RejectsSecondPendingIntent(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "Jane Doe", "jane@example.com")

	_, err := f.intentSvc.Submit(context.Background(), SubmitIntentInput{FullName: "Jane D", Email: "JANE@example.com"})
	assert.ErrorIs(t, err, ErrDuplicatePendingIntent)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, recordedEvent{"submit_intent", "conflict"}, f.recorder.last())
}

func TestSubmit_AllowsResubmissionAfterReview(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, "Jane Doe", "jane@example.com")
	_, err := f.intentSvc.Reject(context.Background(), first.ID, "admin-1")
	require.NoError(t, err)

	second := f.submit(t, "Jane Doe", "jane@example.com")
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.IsPending())
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.submit(t, fmt.Sprintf("Member %02d", i), fmt.Sprintf("m%02d@example.com", i))
	}

	t.Run("defaults", func(t *testing.T) {
		page, err := f.intentSvc.List(context.Background(), ListIntentsInput{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultPageSize, page.PageSize)
		assert.Len(t, page.Items, 20)
		assert.EqualValues(t, 25, page.Total)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := f.intentSvc.List(context.Background(), ListIntentsInput{Page: 2, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("page size is capped", func(t *testing.T) {
		page, err := f.intentSvc.List(context.Background(), ListIntentsInput{PageSize: 1000})
		require.NoError(t, err)
		assert.Equal(t, MaxPageSize, page.PageSize)
		assert.Len(t, page.Items, 25)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := f.intentSvc.List(context.Background(), ListIntentsInput{Page: 9})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.EqualValues(t, 25, page.Total)
	})
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "Alice A", "alice@example.com")
	b := f.submit(t, "Bob B", "bob@example.com")
	f.submit(t, "Carol C", "carol@example.com")
	f.approve(t, a.ID)
	_, err := f.intentSvc.Reject(context.Background(), b.ID, "admin-1")
	require.NoError(t, err)

	pending := model.IntentStatusPending
	page, err := f.intentSvc.List(context.Background(), ListIntentsInput{Status: &pending})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carol@example.com", page.Items[0].Email)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	empty := model.IntentStatusApproved
	page, err = f.intentSvc.List(context.Background(), ListIntentsInput{Status: &empty, Page: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 1, page.Total)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.intentSvc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_IssuesInvite(t *testing.T) {
	f := newFixture(t)
	intent := f.submit(t, "Jane Doe", "jane@example.com")

	result := f.approve(t, intent.ID)

	assert.Equal(t, model.IntentStatusApproved, result.Intent.Status)
	require.NotNil(t, result.Intent.ReviewedBy)
	assert.Equal(t, "admin-1", *result.Intent.ReviewedBy)
	assert.NotNil(t, result.Intent.ReviewedAt)

	invite := result.Invite
	assert.Equal(t, intent.ID, invite.IntentID)
	assert.Regexp(t, hexToken, invite.Token)
	assert.Equal(t, model.InviteStatusPending, invite.Status)
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 7), invite.ExpiresAt)

	stored, err := f.invites.FindByIntentID(context.Background(), intent.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, invite.Token, stored.Token)
	assert.Equal(t, recordedEvent{"approve_intent", "success"}, f.recorder.last())
}

func TestApprove_TokensAreUnique(t *testing.T) {
	f := newFixture(t)
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		intent := f.submit(t, "Member", fmt.Sprintf("m%d@example.com", i))
		token := f.approve(t, intent.ID).Invite.Token
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestApprove_SecondApprovalConflicts(t *testing.T) {
	f := newFixture(t)
	intent := f.submit(t, "Jane Doe", "jane@example.com")
	f.approve(t, intent.ID)

	_, err := f.intentSvc.Approve(context.Background(), intent.ID, "admin-2")
	assert.ErrorIs(t, err, ErrIntentHasInvite)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already has an invite")

	stored, err := f.intents.FindByID(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", *stored.ReviewedBy)
}

func TestApprove_StatusGate(t *testing.T) {
	f := newFixture(t)
	intent := f.submit(t, "Jane Doe", "jane@example.com")
	_, err := f.intentSvc.Reject(context.Background(), intent.ID, "admin-1")
	require.NoError(t, err)

	_, err = f.intentSvc.Approve(context.Background(), intent.ID, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "REJECTED")

	invite, err := f.invites.FindByIntentID(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Nil(t, invite)
	assert.Equal(t, recordedEvent{"approve_intent", "invalid_state"}, f.recorder.last())
}

func TestApprove_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.intentSvc.Approve(context.Background(), uuid.New(), "admin-1")
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.Equal(t, recordedEvent{"approve_intent", "not_found"}, f.recorder.last())
}

func TestApprove_RollsBackWhenInviteInsertFails(t *testing.T) {
	intents := repository.NewMemoryIntentRepository()
	invites := &mockInviteRepo{}
	svc := NewIntentService(intents, invites, repository.NewMemoryTransactor(), WorkflowConfig{InviteTTLDays: 7})

	intent := &model.Intent{FullName: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, intents.Create(context.Background(), intent))

	diskFull := errors.New("disk full")
	invites.On("FindByIntentID", mock.Anything, intent.ID).Return(nil, nil)
	invites.On("Create", mock.Anything, mock.AnythingOfType("*model.Invite")).Return(diskFull)

	_, err := svc.Approve(context.Background(), intent.ID, "admin-1")
	assert.ErrorIs(t, err, diskFull)
	assert.NotErrorIs(t, err, ErrConflict)

	stored, err := intents.FindByID(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, model.IntentStatusPending, stored.Status)
	assert.Nil(t, stored.ReviewedBy)
	invites.AssertExpectations(t)
}

func TestApprove_ConcurrentApprovalsIssueOneInvite(t *testing.T) {
	f := newFixture(t)
	intent := f.submit(t, "Jane Doe", "jane@example.com")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.intentSvc.Approve(context.Background(), intent.ID, fmt.Sprintf("admin-%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidState), "unexpected error: %v", err)
	}
	invite, err := f.invites.FindByIntentID(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.NotNil(t, invite)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	intent := f.submit(t, "Jane Doe", "jane@example.com")

	rejected, err := f.intentSvc.Reject(context.Background(), intent.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, model.IntentStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ReviewedBy)
	assert.Equal(t, "admin-1", *rejected.ReviewedBy)
	assert.NotNil(t, rejected.ReviewedAt)

	invite, err := f.invites.FindByIntentID(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Nil(t, invite)

	t.Run("twice", func(t *testing.T) {
		_, err := f.intentSvc.Reject(context.Background(), intent.ID, "admin-2")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Contains(t, err.Error(), "REJECTED")
	})

	t.Run("approved intent", func(t *testing.T) {
		other := f.submit(t, "Bob B", "bob@example.com")
		f.approve(t, other.ID)
		_, err := f.intentSvc.Reject(context.Background(), other.ID, "admin-1")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Contains(t, err.Error(), "APPROVED")
	})

	t.Run("unknown intent", func(t *testing.T) {
		_, err := f.intentSvc.Reject(context.Background(), uuid.New(), "admin-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

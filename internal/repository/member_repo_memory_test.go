package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupnet/memberhub/internal/model"
)

func TestMemoryMemberRepository(t *testing.T) {
	repo := NewMemoryMemberRepository()
	ctx := context.Background()

	member := &model.Member{Name: "Jane", Email: "Jane@X.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, member))
	assert.NotEqual(t, uuid.Nil, member.ID)
	assert.Equal(t, model.MemberRoleMember, member.Role)
	assert.Equal(t, model.MemberStatusActive, member.Status)

	found, err := repo.FindByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, member.ID, found.ID)

	byID, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	err = repo.Create(ctx, &model.Member{Name: "Other", Email: "JANE@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)

	absent, err := repo.FindByEmail(ctx, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, absent)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInviteExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), InviteExpiry(issued, 7))
}

func TestInvite_IsExpiredAt(t *testing.T) {
	expiresAt := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	t.Run("pending before expiry", func(t *testing.T) {
		inv := Invite{Status: InviteStatusPending, ExpiresAt: expiresAt}
		assert.False(t, inv.IsExpiredAt(expiresAt.Add(-time.Nanosecond)))
		assert.True(t, inv.CanBeUsedAt(expiresAt.Add(-time.Nanosecond)))
	})

	t.Run("pending at expiry instant", func(t *testing.T) {
		inv := Invite{Status: InviteStatusPending, ExpiresAt: expiresAt}
		assert.True(t, inv.IsExpiredAt(expiresAt))
		assert.False(t, inv.CanBeUsedAt(expiresAt))
	})

	t.Run("stored expired wins over clock", func(t *testing.T) {
		inv := Invite{Status: InviteStatusExpired, ExpiresAt: expiresAt}
		assert.True(t, inv.IsExpiredAt(expiresAt.Add(-24*time.Hour)))
		assert.False(t, inv.CanBeUsedAt(expiresAt.Add(-24*time.Hour)))
	})

	t.Run("used is never usable", func(t *testing.T) {
		inv := Invite{Status: InviteStatusUsed, ExpiresAt: expiresAt}
		assert.True(t, inv.IsUsed())
		assert.False(t, inv.IsExpiredAt(expiresAt.Add(-time.Hour)))
		assert.False(t, inv.CanBeUsedAt(expiresAt.Add(-time.Hour)))
	})
}

func TestInvite_CanBeUsed_WallClock(t *testing.T) {
	fresh := Invite{Status: InviteStatusPending, ExpiresAt: time.Now().Add(time.Hour)}
	stale := Invite{Status: InviteStatusPending, ExpiresAt: time.Now().Add(-time.Hour)}

	assert.True(t, fresh.CanBeUsed())
	assert.False(t, fresh.IsExpired())
	assert.False(t, stale.CanBeUsed())
	assert.True(t, stale.IsExpired())
}

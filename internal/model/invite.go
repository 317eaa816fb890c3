package model

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending InviteStatus = "PENDING"
	InviteStatusUsed    InviteStatus = "USED"
	InviteStatusExpired InviteStatus = "EXPIRED"
)

// Invite is the single-use credential minted when an intent is approved.
// At most one invite exists per intent.
type Invite struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IntentID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"intent_id"`
	Token     string       `gorm:"type:varchar(128);not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	Status    InviteStatus `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Invite) TableName() string { return "invites" }

// InviteExpiry returns the expiry for an invite issued at issuedAt.
func InviteExpiry(issuedAt time.Time, ttlDays int) time.Time {
	return issuedAt.AddDate(0, 0, ttlDays)
}

func (i Invite) IsPending() bool { return i.Status == InviteStatusPending }
func (i Invite) IsUsed() bool    { return i.Status == InviteStatusUsed }

// IsExpiredAt reports whether the invite is expired at now. The time check
// applies even while the stored status is still PENDING.
func (i Invite) IsExpiredAt(now time.Time) bool {
	if i.Status == InviteStatusExpired {
		return true
	}
	return !now.Before(i.ExpiresAt)
}

func (i Invite) IsExpired() bool { return i.IsExpiredAt(time.Now()) }

// CanBeUsedAt reports whether the invite may be redeemed at now.
func (i Invite) CanBeUsedAt(now time.Time) bool {
	return i.IsPending() && !i.IsExpiredAt(now)
}

func (i Invite) CanBeUsed() bool { return i.CanBeUsedAt(time.Now()) }

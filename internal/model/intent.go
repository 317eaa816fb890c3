package model

import (
	"time"

	"github.com/google/uuid"
)

type IntentStatus string

const (
	IntentStatusPending  IntentStatus = "PENDING"
	IntentStatusApproved IntentStatus = "APPROVED"
	IntentStatusRejected IntentStatus = "REJECTED"
)

// Valid reports whether s is one of the known intent statuses.
func (s IntentStatus) Valid() bool {
	switch s {
	case IntentStatusPending, IntentStatusApproved, IntentStatusRejected:
		return true
	}
	return false
}

// Intent is a prospective member's application. ReviewedAt and ReviewedBy
// are set exactly when Status is not PENDING.
type Intent struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName   string       `gorm:"type:varchar(256);not null" json:"full_name"`
	Email      string       `gorm:"type:varchar(320);not null;index" json:"email"`
	Phone      *string      `gorm:"type:varchar(64)" json:"phone"`
	Notes      *string      `gorm:"type:text" json:"notes"`
	Status     IntentStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
	ReviewedAt *time.Time   `json:"reviewed_at"`
	ReviewedBy *string      `gorm:"type:varchar(256)" json:"reviewed_by"`
}

func (Intent) TableName() string { return "intents" }

func (i Intent) IsPending() bool  { return i.Status == IntentStatusPending }
func (i Intent) IsApproved() bool { return i.Status == IntentStatusApproved }
func (i Intent) IsRejected() bool { return i.Status == IntentStatusRejected }

// CanBeApproved is the only gate for PENDING -> APPROVED.
func (i Intent) CanBeApproved() bool { return i.IsPending() }

// CanBeRejected is the only gate for PENDING -> REJECTED.
func (i Intent) CanBeRejected() bool { return i.IsPending() }

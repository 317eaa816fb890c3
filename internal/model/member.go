package model

import (
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

type Member struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string       `gorm:"type:varchar(256);not null" json:"name"`
	Email        string       `gorm:"type:varchar(320);not null" json:"email"`
	Phone        *string      `gorm:"type:varchar(64)" json:"phone"`
	Role         MemberRole   `gorm:"type:varchar(16);not null;default:'MEMBER'" json:"role"`
	Status       MemberStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`
	PasswordHash string       `gorm:"type:varchar(256);not null" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Member) TableName() string { return "members" }

func (m Member) IsAdmin() bool  { return m.Role == MemberRoleAdmin }
func (m Member) IsActive() bool { return m.Status == MemberStatusActive }

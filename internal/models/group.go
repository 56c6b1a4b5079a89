package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Slug        string    `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null" json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMember struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_group_user" json:"group_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_group_user" json:"user_id"`
	Role      string     `gorm:"size:20;not null;default:'member'" json:"role"`
	Status    string     `gorm:"size:20;not null;default:'active'" json:"status"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	RemovedAt *time.Time `json:"removed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"

	MembershipInvited = "invited"
	MembershipActive  = "active"
	MembershipRemoved = "removed"
)

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

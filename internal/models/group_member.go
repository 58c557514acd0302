package models

import "time"

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipAccepted MembershipStatus = "accepted"
	MembershipRejected MembershipStatus = "rejected"
)

// GroupMember rows are ordered by ID, which is their insertion order.
// Username is copied from the user at write time and is not re-synced.
type GroupMember struct {
	ID       uint64           `gorm:"primarykey" json:"-"`
	GroupID  uint64           `gorm:"not null;uniqueIndex:idx_group_members_group_user" json:"group_id"`
	UserID   uint64           `gorm:"not null;uniqueIndex:idx_group_members_group_user;index" json:"user_id"`
	Username string           `gorm:"type:varchar(20);not null" json:"username"`
	Status   MembershipStatus `gorm:"type:varchar(20);not null;default:'accepted'" json:"status"`
	JoinedAt time.Time        `json:"joined_at"`

	// Relations
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

package models

import "time"

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestPending, JoinRequestAccepted, JoinRequestRejected:
		return true
	}
	return false
}

// JoinRequest is kept after it is resolved. Only a withdrawal deletes it.
// The (group_id, user_id) pair is unique whatever the status.
type JoinRequest struct {
	ID         uint64            `gorm:"primarykey" json:"id"`
	GroupID    uint64            `gorm:"not null;uniqueIndex:idx_join_requests_group_user;index:idx_join_requests_group_status,priority:1" json:"group_id"`
	UserID     uint64            `gorm:"not null;uniqueIndex:idx_join_requests_group_user;index:idx_join_requests_user_status,priority:1" json:"user_id"`
	Username   string            `gorm:"type:varchar(20);not null" json:"username"`
	GroupName  string            `gorm:"type:varchar(30);not null" json:"group_name"`
	Status     JoinRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_join_requests_group_status,priority:2;index:idx_join_requests_user_status,priority:2" json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	ResolvedAt *time.Time        `json:"resolved_at"`

	// Relations
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

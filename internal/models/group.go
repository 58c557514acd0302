package models

import "time"

type Group struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
	CreatorID uint64    `gorm:"not null;index" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Creator User          `gorm:"foreignKey:CreatorID" json:"-"`
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// FindMember returns the member row for userID, or nil.
func (g *Group) FindMember(userID uint64) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsAcceptedMember reports whether userID has an accepted member row.
func (g *Group) IsAcceptedMember(userID uint64) bool {
	m := g.FindMember(userID)
	return m != nil && m.Status == MembershipAccepted
}

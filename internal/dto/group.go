package dto

import (
	"time"

	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/utils"
)

// GroupMemberDTO represents a member in a group
type GroupMemberDTO struct {
	UserID   uint64                  `json:"userId"`
	Username string                  `json:"username"`
	Status   models.MembershipStatus `json:"status"`
	JoinedAt time.Time               `json:"joinedAt"`
}

// GroupDTO represents a group with its members in join order
type GroupDTO struct {
	ID        uint64           `json:"id"`
	Name      string           `json:"name"`
	CreatorID uint64           `json:"creatorId"`
	CreatedAt time.Time        `json:"createdAt"`
	Members   []GroupMemberDTO `json:"members"`
}

// GroupSearchResponse is a page of search results
type GroupSearchResponse struct {
	Groups     []GroupDTO               `json:"groups"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToGroupDTO converts a group and its loaded members
func ToGroupDTO(group models.Group) GroupDTO {
	members := make([]GroupMemberDTO, len(group.Members))
	for i, m := range group.Members {
		members[i] = GroupMemberDTO{
			UserID:   m.UserID,
			Username: m.Username,
			Status:   m.Status,
			JoinedAt: m.JoinedAt,
		}
	}

	return GroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		CreatorID: group.CreatorID,
		CreatedAt: group.CreatedAt,
		Members:   members,
	}
}

// ToGroupDTOs converts a list of groups
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = ToGroupDTO(g)
	}
	return dtos
}

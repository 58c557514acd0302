package dto

import (
	"time"

	"github.com/yukikurage/todorace-api/internal/models"
)

// JoinRequestDTO represents a join request in API responses
type JoinRequestDTO struct {
	ID         uint64                   `json:"id"`
	GroupID    uint64                   `json:"groupId"`
	UserID     uint64                   `json:"userId"`
	Username   string                   `json:"username"`
	GroupName  string                   `json:"groupName"`
	Status     models.JoinRequestStatus `json:"status"`
	CreatedAt  time.Time                `json:"createdAt"`
	ResolvedAt *time.Time               `json:"resolvedAt,omitempty"`
}

func ToJoinRequestDTO(r models.JoinRequest) JoinRequestDTO {
	return JoinRequestDTO{
		ID:         r.ID,
		GroupID:    r.GroupID,
		UserID:     r.UserID,
		Username:   r.Username,
		GroupName:  r.GroupName,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

func ToJoinRequestDTOs(requests []models.JoinRequest) []JoinRequestDTO {
	dtos := make([]JoinRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = ToJoinRequestDTO(r)
	}
	return dtos
}

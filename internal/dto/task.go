package dto

import (
	"time"

	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	UserID      uint64     `json:"userId"`
	GroupID     uint64     `json:"groupId"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// SuggestedTaskDTO is an AI suggestion the client may turn into a task
type SuggestedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.UserID,
		GroupID:     task.GroupID,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTaskDTOs converts a list of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

func ToSuggestedTaskDTOs(suggestions []services.SuggestedTask) []SuggestedTaskDTO {
	dtos := make([]SuggestedTaskDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestedTaskDTO{Title: s.Title, Description: s.Description}
	}
	return dtos
}

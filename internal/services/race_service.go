package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/race"
	"github.com/yukikurage/todorace-api/internal/repository"
	"gorm.io/gorm"
)

// RaceService projects a group's tasks into race standings.
type RaceService struct {
	groupRepo repository.GroupRepository
	taskRepo  repository.TaskRepository
}

func NewRaceService(groupRepo repository.GroupRepository, taskRepo repository.TaskRepository) *RaceService {
	return &RaceService{
		groupRepo: groupRepo,
		taskRepo:  taskRepo,
	}
}

// ComputeRaceProgress returns one entry per accepted member, in join order.
func (s *RaceService) ComputeRaceProgress(groupID uint64) ([]race.Participant, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	return s.RaceForGroup(group)
}

// RaceForGroup computes standings for an already loaded group. Members must
// be preloaded.
func (s *RaceService) RaceForGroup(group *models.Group) ([]race.Participant, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{GroupID: group.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return race.Compute(group.Members, tasks), nil
}

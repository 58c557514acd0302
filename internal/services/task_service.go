package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/todorace-api/internal/constants"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/notify"
	"github.com/yukikurage/todorace-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = apierrors.New(apierrors.ErrNotFound, "task not found")
	ErrNotTaskOwner           = apierrors.New(apierrors.ErrForbidden, "only the task owner can perform this action")
	ErrTitleRequired          = apierrors.New(apierrors.ErrValidation, "title is required")
	ErrTitleTooLong           = apierrors.New(apierrors.ErrValidation, fmt.Sprintf("title must be at most %d characters", constants.MaxTaskTitleLength))
	ErrSuggestTextRequired    = apierrors.New(apierrors.ErrValidation, "text is required")
	ErrAIServiceNotConfigured = apierrors.New(apierrors.ErrServiceUnavailable, "AI service is not configured")
	ErrAINoValidTasks         = apierrors.New(apierrors.ErrValidation, "no valid tasks could be suggested from the text")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	groupRepo repository.GroupRepository
	suggester TaskSuggester
	notifier  notify.Notifier
	now       func() time.Time
}

// NewTaskService creates a new TaskService. suggester and notifier may be nil.
func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository, suggester TaskSuggester, notifier notify.Notifier) *TaskService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &TaskService{
		taskRepo:  taskRepo,
		groupRepo: groupRepo,
		suggester: suggester,
		notifier:  notifier,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	GroupID     uint64
	UserID      uint64
}

// ListTasksInput represents filters for listing a group's tasks
type ListTasksInput struct {
	GroupID   uint64
	ActorID   uint64
	UserID    *uint64
	Completed *bool
}

// CreateTask creates a task owned by an accepted member of the group
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberGroup(input.GroupID, input.UserID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		UserID:      input.UserID,
		GroupID:     input.GroupID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the tasks of a group, optionally for one owner
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if _, err := s.memberGroup(input.GroupID, input.ActorID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		GroupID:   input.GroupID,
		UserID:    input.UserID,
		Completed: input.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ToggleTask flips completion of the actor's own task and tells the other
// racers in the group that the standings changed
func (s *TaskService) ToggleTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.ownedTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	task.SetCompleted(!task.Completed, s.now())
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.notifyRacers(ctx, task)
	return task, nil
}

// DeleteTask deletes a task if the actor owns it
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.ownedTask(taskID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.notifyRacers(ctx, task)
	return nil
}

// SuggestTasksInput represents input for AI task suggestions
type SuggestTasksInput struct {
	Text    string
	GroupID uint64
	UserID  uint64
}

// SuggestTasks proposes tasks from free text. Nothing is stored; the client
// creates the ones the user keeps.
func (s *TaskService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]SuggestedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrSuggestTextRequired
	}
	if _, err := s.memberGroup(input.GroupID, input.UserID); err != nil {
		return nil, err
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to suggest tasks: %v", apierrors.ErrServiceUnavailable, err)
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	for _, suggestion := range suggestions {
		title, err := validateTitle(suggestion.Title)
		if err != nil {
			continue
		}
		valid = append(valid, SuggestedTask{
			Title:       title,
			Description: strings.TrimSpace(suggestion.Description),
		})
		if len(valid) == constants.MaxAISuggestedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func (s *TaskService) notifyRacers(ctx context.Context, task *models.Task) {
	members, err := s.groupRepo.ListMembers(task.GroupID)
	if err != nil {
		log.Printf("Failed to load members of group %d for race update: %v", task.GroupID, err)
		return
	}

	event := notify.NewEvent(notify.EventRaceUpdated, notify.RaceUpdatedPayload{
		GroupID: task.GroupID,
		UserID:  task.UserID,
		TaskID:  task.ID,
	})
	for _, m := range members {
		if m.Status != models.MembershipAccepted || m.UserID == task.UserID {
			continue
		}
		s.notifier.Notify(ctx, m.UserID, event)
	}
}

func (s *TaskService) ownedTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.UserID != actorID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// memberGroup loads the group and verifies userID is an accepted member
func (s *TaskService) memberGroup(groupID, userID uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if !group.IsAcceptedMember(userID) {
		return nil, ErrNotGroupMember
	}
	return group, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len([]rune(title)) > constants.MaxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

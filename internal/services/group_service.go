package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todorace-api/internal/constants"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/repository"
	"github.com/yukikurage/todorace-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound    = apierrors.New(apierrors.ErrNotFound, "group not found")
	ErrGroupNameTaken   = apierrors.New(apierrors.ErrConflict, "group name already exists")
	ErrInvalidGroupName = apierrors.New(apierrors.ErrValidation, fmt.Sprintf("group name must be %d-%d characters", constants.MinGroupNameLength, constants.MaxGroupNameLength))
	ErrNotGroupMember   = apierrors.New(apierrors.ErrForbidden, "user is not a member of this group")
)

// GroupService provides business logic for group operations.
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name      string
	CreatorID uint64
}

// CreateGroup creates a group whose first member is its creator.
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if n := len([]rune(name)); n < constants.MinGroupNameLength || n > constants.MaxGroupNameLength {
		return nil, ErrInvalidGroupName
	}

	creator, err := s.userRepo.FindByID(input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.groupRepo.FindByName(name); err == nil {
		return nil, ErrGroupNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creator.ID,
	}
	member := &models.GroupMember{
		UserID:   creator.ID,
		Username: creator.Username,
		Status:   models.MembershipAccepted,
		JoinedAt: time.Now(),
	}

	if err := s.groupRepo.CreateWithCreator(group, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGroupNameTaken
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetGroup returns a group with its members in join order.
func (s *GroupService) GetGroup(groupID uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

// GetGroupForMember returns the group if userID is one of its accepted members.
func (s *GroupService) GetGroupForMember(groupID, userID uint64) (*models.Group, error) {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAcceptedMember(userID) {
		return nil, ErrNotGroupMember
	}
	return group, nil
}

// SearchGroups finds groups whose name contains query, ignoring case.
func (s *GroupService) SearchGroups(query string, page utils.PaginationParams) ([]models.Group, int64, error) {
	groups, total, err := s.groupRepo.Search(strings.TrimSpace(query), page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search groups: %w", err)
	}
	return groups, total, nil
}

// ListGroupsForUser returns the groups the user is an accepted member of.
func (s *GroupService) ListGroupsForUser(userID uint64) ([]models.Group, error) {
	groups, err := s.groupRepo.ListByMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/utils"
)

// ErrJoinRequestNotPending is returned by conditional updates and deletes when
// the request left the pending state before the write landed.
var ErrJoinRequestNotPending = errors.New("join request repository: request is no longer pending")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks of a group, optionally for a single owner
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	GroupID   uint64
	UserID    *uint64
	Completed *bool
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// CreateWithCreator creates a group and its creator's member row in one transaction
	CreateWithCreator(group *models.Group, creator *models.GroupMember) error

	// FindByID finds a group with its members in insertion order
	FindByID(id uint64) (*models.Group, error)

	// FindByName finds a group by exact name
	FindByName(name string) (*models.Group, error)

	// Search finds groups whose name contains query, case-insensitively
	Search(query string, page utils.PaginationParams) ([]models.Group, int64, error)

	// ListByMember lists groups where the user is an accepted member
	ListByMember(userID uint64) ([]models.Group, error)

	// ListMembers lists the members of a group in insertion order
	ListMembers(groupID uint64) ([]models.GroupMember, error)
}

// JoinRequestRepository defines the interface for join request data access.
// Accept, Reject and DeletePending only succeed while the stored request is
// still pending; otherwise they return ErrJoinRequestNotPending.
type JoinRequestRepository interface {
	// Create creates a new join request
	Create(request *models.JoinRequest) error

	// FindByID finds a join request by ID
	FindByID(id uint64) (*models.JoinRequest, error)

	// FindByGroupAndUser finds the request of a user for a group
	FindByGroupAndUser(groupID, userID uint64) (*models.JoinRequest, error)

	// ListByUser lists a user's requests, newest first
	ListByUser(userID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error)

	// ListByGroup lists the requests made to a group, newest first
	ListByGroup(groupID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error)

	// Accept marks the request accepted and appends member to the group
	// unless the user already has a member row, atomically
	Accept(id uint64, member *models.GroupMember, resolvedAt time.Time) error

	// Reject marks the request rejected
	Reject(id uint64, resolvedAt time.Time) error

	// DeletePending deletes the request if it is still pending and owned by userID
	DeletePending(id, userID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

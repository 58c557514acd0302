// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todorace-api/internal/database"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/notify"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends. It is limited to one connection so every query sees the
// same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// TestHelper creates fixtures directly in the database.
type TestHelper struct {
	t  *testing.T
	db *gorm.DB
}

func NewTestHelper(t *testing.T, db *gorm.DB) *TestHelper {
	return &TestHelper{t: t, db: db}
}

// CreateUser creates a user with a placeholder password hash.
func (h *TestHelper) CreateUser(username string) *models.User {
	h.t.Helper()

	user := &models.User{
		Username:     strings.ToLower(username),
		PasswordHash: "hashed",
	}
	require.NoError(h.t, h.db.Create(user).Error)
	return user
}

// CreateGroup creates a group with the creator as its first accepted member.
func (h *TestHelper) CreateGroup(name string, creator *models.User) *models.Group {
	h.t.Helper()

	group := &models.Group{Name: name, CreatorID: creator.ID}
	require.NoError(h.t, h.db.Omit("Members", "Creator").Create(group).Error)
	h.AddMember(group, creator)
	return group
}

// AddMember appends an accepted member row.
func (h *TestHelper) AddMember(group *models.Group, user *models.User) *models.GroupMember {
	h.t.Helper()

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   user.ID,
		Username: user.Username,
		Status:   models.MembershipAccepted,
		JoinedAt: time.Now(),
	}
	require.NoError(h.t, h.db.Omit("Group").Create(member).Error)
	group.Members = append(group.Members, *member)
	return member
}

// CreateJoinRequest stores a request in the given status.
func (h *TestHelper) CreateJoinRequest(group *models.Group, user *models.User, status models.JoinRequestStatus) *models.JoinRequest {
	h.t.Helper()

	req := &models.JoinRequest{
		GroupID:   group.ID,
		UserID:    user.ID,
		Username:  user.Username,
		GroupName: group.Name,
		Status:    status,
	}
	require.NoError(h.t, h.db.Omit("Group", "User").Create(req).Error)
	return req
}

// CreateTasks creates total tasks for user in group, the first done of them completed.
func (h *TestHelper) CreateTasks(group *models.Group, user *models.User, total, done int) []models.Task {
	h.t.Helper()

	tasks := make([]models.Task, 0, total)
	for i := 0; i < total; i++ {
		task := models.Task{
			Title:   fmt.Sprintf("%s task %d", user.Username, i+1),
			UserID:  user.ID,
			GroupID: group.ID,
		}
		if i < done {
			task.SetCompleted(true, time.Now())
		}
		require.NoError(h.t, h.db.Omit("User", "Group").Create(&task).Error)
		tasks = append(tasks, task)
	}
	return tasks
}

// Notification is one event captured by RecordingNotifier.
type Notification struct {
	RecipientID uint64
	Event       notify.Event
}

// RecordingNotifier captures notifications instead of delivering them.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, recipientID uint64, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{RecipientID: recipientID, Event: event})
}

// Sent returns the captured notifications in order.
func (n *RecordingNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

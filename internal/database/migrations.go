package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/todorace-api/internal/models"
	"gorm.io/gorm"
)

// EnsureIndexes creates the named indexes the membership and race queries
// depend on, if an older schema is missing them.
func EnsureIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		// One member row and one join request per (group, user)
		{&models.GroupMember{}, "idx_group_members_group_user"},
		{&models.JoinRequest{}, "idx_join_requests_group_user"},

		// Pending-request listings
		{&models.JoinRequest{}, "idx_join_requests_group_status"},
		{&models.JoinRequest{}, "idx_join_requests_user_status"},

		// Race progress reads all tasks of a group
		{&models.Task{}, "idx_tasks_group_user"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s", idx.name)
	}

	return nil
}

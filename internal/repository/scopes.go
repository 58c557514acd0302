package repository

import (
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/utils"
	"gorm.io/gorm"
)

// paginate applies offset and limit from params
func paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// membersInOrder orders preloaded members by insertion
func membersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("group_members.id ASC")
}

// withRequestStatus filters join requests by status when one is given
func withRequestStatus(status *models.JoinRequestStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", *status)
	}
}

// newestFirst orders join requests by creation, newest first
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

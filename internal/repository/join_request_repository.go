package repository

import (
	"time"

	"github.com/yukikurage/todorace-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJoinRequestRepository is a GORM implementation of JoinRequestRepository
type GormJoinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new JoinRequestRepository
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &GormJoinRequestRepository{db: db}
}

// Create creates a new join request
func (r *GormJoinRequestRepository) Create(request *models.JoinRequest) error {
	return r.db.Omit(clause.Associations).Create(request).Error
}

// FindByID finds a join request by ID
func (r *GormJoinRequestRepository) FindByID(id uint64) (*models.JoinRequest, error) {
	var request models.JoinRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByGroupAndUser finds the join request of a user for a group
func (r *GormJoinRequestRepository) FindByGroupAndUser(groupID, userID uint64) (*models.JoinRequest, error) {
	var request models.JoinRequest
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByUser lists join requests made by a user
func (r *GormJoinRequestRepository) ListByUser(userID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error) {
	return r.list(r.db.Where("user_id = ?", userID), status)
}

// ListByGroup lists join requests made to a group
func (r *GormJoinRequestRepository) ListByGroup(groupID uint64, status *models.JoinRequestStatus) ([]models.JoinRequest, error) {
	return r.list(r.db.Where("group_id = ?", groupID), status)
}

func (r *GormJoinRequestRepository) list(query *gorm.DB, status *models.JoinRequestStatus) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	if err := query.Scopes(withRequestStatus(status), newestFirst).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Accept resolves a pending request and appends the member in one transaction
func (r *GormJoinRequestRepository) Accept(id uint64, member *models.GroupMember, resolvedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := resolvePending(tx, id, models.JoinRequestAccepted, resolvedAt); err != nil {
			return err
		}

		// An existing row for the user is left as is unless it was not accepted.
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).Omit(clause.Associations).Create(member).Error
	})
}

// Reject resolves a pending request as rejected
func (r *GormJoinRequestRepository) Reject(id uint64, resolvedAt time.Time) error {
	return resolvePending(r.db, id, models.JoinRequestRejected, resolvedAt)
}

// DeletePending deletes a pending request owned by userID
func (r *GormJoinRequestRepository) DeletePending(id, userID uint64) error {
	res := r.db.Where("id = ? AND user_id = ? AND status = ?", id, userID, models.JoinRequestPending).
		Delete(&models.JoinRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJoinRequestNotPending
	}
	return nil
}

func resolvePending(db *gorm.DB, id uint64, status models.JoinRequestStatus, resolvedAt time.Time) error {
	res := db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, models.JoinRequestPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJoinRequestNotPending
	}
	return nil
}

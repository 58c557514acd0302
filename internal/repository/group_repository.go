package repository

import (
	"strings"

	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// CreateWithCreator creates a group and the creator's accepted membership atomically
func (r *GormGroupRepository) CreateWithCreator(group *models.Group, creator *models.GroupMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(group).Error; err != nil {
			return err
		}

		creator.GroupID = group.ID
		if err := tx.Omit(clause.Associations).Create(creator).Error; err != nil {
			return err
		}

		group.Members = []models.GroupMember{*creator}
		return nil
	})
}

// FindByID finds a group by ID with its members
func (r *GormGroupRepository) FindByID(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Members", membersInOrder).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByName finds a group by name
func (r *GormGroupRepository) FindByName(name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Search finds groups by a case-insensitive name fragment
func (r *GormGroupRepository) Search(query string, page utils.PaginationParams) ([]models.Group, int64, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	q := r.db.Model(&models.Group{}).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []models.Group
	if err := q.Preload("Members", membersInOrder).
		Order("name ASC").
		Scopes(paginate(page)).
		Find(&groups).Error; err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// ListByMember lists all groups a user is an accepted member of
func (r *GormGroupRepository) ListByMember(userID uint64) ([]models.Group, error) {
	var groups []models.Group
	sub := r.db.Model(&models.GroupMember{}).
		Select("group_id").
		Where("user_id = ? AND status = ?", userID, models.MembershipAccepted)

	if err := r.db.Preload("Members", membersInOrder).
		Where("id IN (?)", sub).
		Order("created_at ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ListMembers lists all members of a group
func (r *GormGroupRepository) ListMembers(groupID uint64) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

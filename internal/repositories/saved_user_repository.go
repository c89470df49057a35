package repositories

import (
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type SavedUserRepository struct {
	db *gorm.DB
}

func NewSavedUserRepository(db *gorm.DB) *SavedUserRepository {
	return &SavedUserRepository{db: db}
}

// Save creates the bookmark edge; a duplicate surfaces as ALREADY_EXISTS.
func (r *SavedUserRepository) Save(saved *models.SavedUser) error {
	var count int64
	result := r.db.Model(&models.SavedUser{}).
		Where("owner_id = ? AND saved_user_id = ?", saved.OwnerID, saved.SavedUserID).
		Count(&count)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check saved user")
	}
	if count > 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "user already saved")
	}

	if err := r.db.Create(saved).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save user")
	}

	return nil
}

// Remove deletes the bookmark edge.
func (r *SavedUserRepository) Remove(ownerID, savedUserID string) error {
	result := r.db.Where("owner_id = ? AND saved_user_id = ?", ownerID, savedUserID).
		Delete(&models.SavedUser{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove saved user")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "saved user not found")
	}

	return nil
}

// ListByOwner pages through the owner's bookmarks, newest first.
func (r *SavedUserRepository) ListByOwner(ownerID string, page, limit int) ([]models.SavedUser, error) {
	if page < 1 {
		page = 1
	}

	var saved []models.SavedUser
	err := r.db.Where("owner_id = ?", ownerID).
		Preload("Saved").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&saved).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list saved users")
	}

	return saved, nil
}

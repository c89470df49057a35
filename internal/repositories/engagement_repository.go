package repositories

import (
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// AppendLog writes the audit record and bumps the user's engagement counter
// in one transaction. The log is the primary write; score recalculation
// happens elsewhere and never rolls this back.
func (r *EngagementRepository) AppendLog(entry *models.EngagementLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create engagement log")
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", entry.UserID).
			Update("engagement_points", gorm.Expr("engagement_points + ?", entry.Points))
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add engagement points")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotFound, "user not found")
		}

		return nil
	})
}

// GetHistory retrieves the newest engagement records for a user.
func (r *EngagementRepository) GetHistory(userID string, limit int) ([]models.EngagementLog, error) {
	var entries []models.EngagementLog
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get engagement history")
	}

	return entries, nil
}

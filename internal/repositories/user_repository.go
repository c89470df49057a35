package repositories

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	result := r.db.Where("id = ?", id).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UpdateUser updates user information
func (r *UserRepository) UpdateUser(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update user")
	}
	return nil
}

// UpdateScore writes a freshly computed attractiveness score.
func (r *UserRepository) UpdateScore(userID string, score float64) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("attractiveness_score", score)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update score")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// UpdateStreak persists a streak decision together with the activity date.
func (r *UserRepository) UpdateStreak(userID string, streakDays int, activeDate time.Time) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"social_streak_days": streakDays,
			"last_active_date":   activeDate,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update streak")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// SetLastActive stamps the user's most recent activity moment without
// touching the streak counter.
func (r *UserRepository) SetLastActive(userID string, at time.Time) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_active_date", at)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update last active date")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// applyCandidateFilters narrows a users query to completed profiles other
// than the viewer, plus any optional filters.
func applyCandidateFilters(query *gorm.DB, viewerID string, filters *models.CandidateFilters) *gorm.DB {
	query = query.Where("id != ?", viewerID).Where("profile_completed = ?", true)

	if filters == nil {
		return query
	}

	if filters.Gender != "" {
		query = query.Where("gender = ?", filters.Gender)
	}
	if filters.CollegeID != "" {
		query = query.Where("college_id = ?", filters.CollegeID)
	}
	if filters.MinAge != nil {
		query = query.Where("age >= ?", *filters.MinAge)
	}
	if filters.MaxAge != nil {
		query = query.Where("age <= ?", *filters.MaxAge)
	}
	if filters.MinScore != nil {
		query = query.Where("attractiveness_score >= ?", *filters.MinScore)
	}
	if filters.MaxScore != nil {
		query = query.Where("attractiveness_score <= ?", *filters.MaxScore)
	}
	if len(filters.Interests) > 0 {
		query = query.Where("interests && ?", pq.StringArray(filters.Interests))
	}

	return query
}

// FindCandidates pulls a bounded candidate pool for recommendation scoring.
// The cap bounds scoring cost regardless of how many users match.
func (r *UserRepository) FindCandidates(viewerID string, filters *models.CandidateFilters, poolCap int) ([]models.User, error) {
	var candidates []models.User

	query := applyCandidateFilters(r.db.Model(&models.User{}), viewerID, filters)
	err := query.Order("last_active_date DESC NULLS LAST").
		Limit(poolCap).
		Find(&candidates).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load candidate pool")
	}

	return candidates, nil
}

// BrowseByScore is the plain paginated listing: same filter predicate as the
// candidate pool, ordered by attractiveness score descending.
func (r *UserRepository) BrowseByScore(viewerID string, filters *models.CandidateFilters, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	countQuery := applyCandidateFilters(r.db.Model(&models.User{}), viewerID, filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count users")
	}

	var users []models.User
	query := applyCandidateFilters(r.db.Model(&models.User{}), viewerID, filters)
	err := query.Order("attractiveness_score DESC").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error

	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to browse users")
	}

	return users, total, nil
}

// GetUsersByIDs loads a batch of users preserving no particular order.
func (r *UserRepository) GetUsersByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load users")
	}
	return users, nil
}

package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// GetByPair loads the single row for a canonical pair, or nil when absent.
func (r *FriendshipRepository) GetByPair(pair models.Pair) (*models.Friendship, error) {
	var friendship models.Friendship
	result := r.db.Where("user1_id = ? AND user2_id = ?", pair.User1ID, pair.User2ID).
		First(&friendship)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get friendship")
	}

	return &friendship, nil
}

// ApplyPulse records one side's pulse and evaluates completion, all under a
// row lock so two near-simultaneous pulses cannot both decide to activate.
// Returns the resulting row and whether this pulse activated the friendship.
func (r *FriendshipRepository) ApplyPulse(pair models.Pair, senderID string, window time.Duration, now time.Time) (*models.Friendship, bool, error) {
	var friendship *models.Friendship
	activated := false

	apply := func(tx *gorm.DB) error {
		friendship = nil
		activated = false

		var existing models.Friendship
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user1_id = ? AND user2_id = ?", pair.User1ID, pair.User2ID).
			First(&existing)

		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to lock friendship")
		}

		if result.Error == gorm.ErrRecordNotFound {
			created, err := createPendingPulse(tx, pair, senderID, window, now)
			if err != nil {
				return err
			}
			friendship = created
			return nil
		}

		switch existing.Status {
		case models.FriendshipStatusActive:
			return errors.New(errors.ErrCodeAlreadyExists, "already friends")

		case models.FriendshipStatusExpired:
			// Terminal row from a lapsed handshake. A fresh pulse starts a
			// new handshake in its place.
			if err := tx.Delete(&existing).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to replace expired friendship")
			}
			created, err := createPendingPulse(tx, pair, senderID, window, now)
			if err != nil {
				return err
			}
			friendship = created
			return nil
		}

		activated = advancePulse(&existing, senderID, window, now)

		if err := tx.Save(&existing).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update friendship")
		}

		friendship = &existing
		return nil
	}

	err := r.db.Transaction(apply)
	if err != nil && isDuplicateKey(err) {
		// Two first pulses raced and the loser's insert hit the unique pair
		// index. The winner's row exists now, so a second attempt locks it
		// and applies this pulse to it.
		err = r.db.Transaction(apply)
	}

	if err != nil {
		return nil, false, err
	}

	return friendship, activated, nil
}

// advancePulse applies one pulse to a pending row and reports whether it
// completed the handshake. If the previous window already lapsed, the
// counterpart's stale pulse must not count toward activation: this pulse
// starts a new window that the other side has to answer. Completion is
// re-evaluated at the moment of this pulse, never assumed from creation time.
func advancePulse(f *models.Friendship, senderID string, window time.Duration, now time.Time) bool {
	if f.WindowLapsed(now) {
		f.PulseSentByUser1 = nil
		f.PulseSentByUser2 = nil
		f.InitiatedBy = senderID
	}

	f.SetPulse(senderID, now)
	f.PulseExpiresAt = now.Add(window)

	if f.BothPulsed() {
		f.Status = models.FriendshipStatusActive
		completed := now
		f.CompletedAt = &completed
		return true
	}

	return false
}

func createPendingPulse(tx *gorm.DB, pair models.Pair, senderID string, window time.Duration, now time.Time) (*models.Friendship, error) {
	friendship := &models.Friendship{
		User1ID:          pair.User1ID,
		User2ID:          pair.User2ID,
		Status:           models.FriendshipStatusPending,
		InitiatedBy:      senderID,
		ConnectionMethod: models.ConnectionMethodPulse,
		PulseExpiresAt:   now.Add(window),
	}
	friendship.SetPulse(senderID, now)

	if err := tx.Create(friendship).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friendship")
	}

	return friendship, nil
}

// ListActive retrieves a page of active friendships involving the user,
// newest completion first.
func (r *FriendshipRepository) ListActive(userID string, page, limit int) ([]models.Friendship, error) {
	if page < 1 {
		page = 1
	}

	var friendships []models.Friendship
	err := r.db.Where("(user1_id = ? OR user2_id = ?) AND status = ?",
		userID, userID, models.FriendshipStatusActive).
		Preload("User1").
		Preload("User2").
		Order("completed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friendships, nil
}

// ListPending retrieves pending friendships involving the user.
func (r *FriendshipRepository) ListPending(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.Where("(user1_id = ? OR user2_id = ?) AND status = ?",
		userID, userID, models.FriendshipStatusPending).
		Preload("User1").
		Preload("User2").
		Order("created_at DESC").
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending requests")
	}

	return friendships, nil
}

// DeletePair hard-deletes the canonical row for a pair.
func (r *FriendshipRepository) DeletePair(pair models.Pair) error {
	result := r.db.Where("user1_id = ? AND user2_id = ?", pair.User1ID, pair.User2ID).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "friendship not found")
	}

	return nil
}

// AreFriends checks whether the pair's row exists and is active.
func (r *FriendshipRepository) AreFriends(pair models.Pair) (bool, error) {
	var count int64
	result := r.db.Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ? AND status = ?",
			pair.User1ID, pair.User2ID, models.FriendshipStatusActive).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}

// ActiveFriendIDs returns the ids of every active friend of the user.
func (r *FriendshipRepository) ActiveFriendIDs(userID string) ([]string, error) {
	var friendships []models.Friendship
	err := r.db.Select("user1_id", "user2_id").
		Where("(user1_id = ? OR user2_id = ?) AND status = ?",
			userID, userID, models.FriendshipStatusActive).
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friend ids")
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.OtherUserID(userID))
	}

	return ids, nil
}

// MutualCounts returns, per candidate, how many of the given friend ids are
// also active friends of that candidate. One query for the whole pool.
func (r *FriendshipRepository) MutualCounts(friendIDs, candidateIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(candidateIDs))
	if len(friendIDs) == 0 || len(candidateIDs) == 0 {
		return counts, nil
	}

	var friendships []models.Friendship
	err := r.db.Select("user1_id", "user2_id").
		Where("status = ?", models.FriendshipStatusActive).
		Where("(user1_id IN ? AND user2_id IN ?) OR (user2_id IN ? AND user1_id IN ?)",
			candidateIDs, friendIDs, candidateIDs, friendIDs).
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count mutual friends")
	}

	candidateSet := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		candidateSet[id] = true
	}
	friendSet := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	for _, f := range friendships {
		if candidateSet[f.User1ID] && friendSet[f.User2ID] {
			counts[f.User1ID]++
		}
		if candidateSet[f.User2ID] && friendSet[f.User1ID] {
			counts[f.User2ID]++
		}
	}

	return counts, nil
}

// ExpireStale transitions every pending row whose window lapsed before now to
// expired. Strictly filtering on pending keeps the sweep idempotent and safe
// to run concurrently with pulse activation.
func (r *FriendshipRepository) ExpireStale(now time.Time) (int64, error) {
	result := r.db.Model(&models.Friendship{}).
		Where("status = ? AND pulse_expires_at < ?", models.FriendshipStatusPending, now).
		Update("status", models.FriendshipStatusExpired)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to expire friendships")
	}

	return result.RowsAffected, nil
}

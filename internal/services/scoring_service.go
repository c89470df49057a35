package services

import (
	"fmt"
	"time"

	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
	"github.com/campuspulse/campuspulse/pkg/logger"
)

// ScoreRecalculator recomputes and persists a user's attractiveness score.
// Every call site that needs a recalc goes through this interface instead of
// re-deciding when and how to recompute.
type ScoreRecalculator interface {
	CalculateAttractivenessScore(userID string) (float64, error)
}

// EngagementLogger awards engagement points with an audit record.
type EngagementLogger interface {
	LogEngagement(userID, actionType string, points int64, metadata string) error
}

// UserScoreStore is the slice of user persistence scoring needs.
type UserScoreStore interface {
	GetUserByID(id string) (*models.User, error)
	UpdateScore(userID string, score float64) error
	UpdateStreak(userID string, streakDays int, activeDate time.Time) error
	SetLastActive(userID string, at time.Time) error
}

// EngagementStore appends engagement audit records.
type EngagementStore interface {
	AppendLog(entry *models.EngagementLog) error
}

type ScoringService struct {
	users      UserScoreStore
	engagement EngagementStore
	cfg        *config.Config

	now func() time.Time
}

func NewScoringService(users UserScoreStore, engagement EngagementStore, cfg *config.Config) *ScoringService {
	return &ScoringService{
		users:      users,
		engagement: engagement,
		cfg:        cfg,
		now:        time.Now,
	}
}

// CalculateAttractivenessScore recomputes the weighted-signal score from the
// user's current profile and engagement state, persists it, and returns it.
func (s *ScoringService) CalculateAttractivenessScore(userID string) (float64, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return 0, err
	}

	score := s.computeScore(user)
	if err := s.users.UpdateScore(userID, score); err != nil {
		return 0, err
	}

	return score, nil
}

func (s *ScoringService) computeScore(user *models.User) float64 {
	weights := s.cfg.ScoreWeights

	completeness := user.CompletenessRatio()
	engagement := normalize(float64(user.EngagementPoints), float64(s.cfg.EngagementNormMax))
	activity := normalize(float64(user.SocialStreakDays), float64(s.cfg.StreakNormMaxDays))
	response := clamp01(user.ResponseRate)

	span := s.cfg.ScoreMax - s.cfg.ScoreMin
	raw := s.cfg.ScoreMin + span*(weights.ProfileCompleteness*completeness+
		weights.Engagement*engagement+
		weights.SocialActivity*activity+
		weights.ResponseRate*response)

	return clamp(raw, s.cfg.ScoreMin, s.cfg.ScoreMax)
}

// DisplayRating buckets a score into the 1..10 profile rating. Out-of-range
// scores are clamped first, so every input maps to a bucket.
func (s *ScoringService) DisplayRating(score float64) int {
	clamped := clamp(score, s.cfg.ScoreMin, s.cfg.ScoreMax)
	span := s.cfg.ScoreMax - s.cfg.ScoreMin

	// Fixed decile thresholds: <10% of range is 1, <20% is 2, ..., else 10.
	percent := (clamped - s.cfg.ScoreMin) / span * 100
	rating := 1 + int(percent/10)
	if rating > 10 {
		rating = 10
	}
	return rating
}

// LogEngagement appends an auditable engagement record and bumps the user's
// points. Score recalculation is fired asynchronously; its failure never
// affects the logged engagement.
func (s *ScoringService) LogEngagement(userID, actionType string, points int64, metadata string) error {
	if userID == "" {
		return errors.New(errors.ErrCodeValidation, "user id is required")
	}
	if actionType == "" {
		return errors.New(errors.ErrCodeValidation, "action type is required")
	}
	if points < 0 {
		return errors.New(errors.ErrCodeValidation, "points cannot be negative")
	}

	entry := &models.EngagementLog{
		UserID:     userID,
		ActionType: actionType,
		Points:     points,
		Metadata:   metadata,
	}
	if err := s.engagement.AppendLog(entry); err != nil {
		return err
	}

	// Every logged engagement counts as activity.
	if err := s.users.SetLastActive(userID, s.now().UTC()); err != nil {
		logger.Warn("failed to stamp last active date", "user_id", userID, "error", err)
	}

	go s.recalculate(userID)

	return nil
}

func (s *ScoringService) recalculate(userID string) {
	if _, err := s.CalculateAttractivenessScore(userID); err != nil {
		logger.Error("score recalculation failed", "user_id", userID, "error", err)
	}
}

// UpdateStreak advances the user's social streak for activity "today" (UTC
// calendar day): consecutive days increment, a gap resets to 1, and a second
// call on the same day is a no-op. Returns the resulting streak.
func (s *ScoringService) UpdateStreak(userID string) (int, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return 0, err
	}

	today := s.now().UTC()
	streak, changed := nextStreak(user.LastActiveDate, today, user.SocialStreakDays)
	if !changed {
		return streak, nil
	}

	if err := s.users.UpdateStreak(userID, streak, today); err != nil {
		return 0, err
	}

	// Audit the login and pick up the new streak in the score.
	metadata := fmt.Sprintf(`{"streak_days":%d}`, streak)
	if err := s.LogEngagement(userID, models.ActionDailyLogin, 0, metadata); err != nil {
		logger.Warn("failed to log daily login", "user_id", userID, "error", err)
	}

	return streak, nil
}

// nextStreak is the streak decision on UTC calendar dates.
func nextStreak(lastActive *time.Time, today time.Time, current int) (int, bool) {
	if lastActive == nil {
		return 1, true
	}

	lastDay := truncateToDay(lastActive.UTC())
	todayDay := truncateToDay(today.UTC())

	switch todayDay.Sub(lastDay) {
	case 0:
		// Already counted today.
		return current, false
	case 24 * time.Hour:
		return current + 1, true
	default:
		return 1, true
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func normalize(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(value / max)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

package services

import (
	"sync"
	"testing"
	"time"

	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

// fakeUserScoreStore is an in-memory UserScoreStore. Methods are mutex-guarded
// because score recalculation runs on its own goroutine.
type fakeUserScoreStore struct {
	mu         sync.Mutex
	user       *models.User
	lastActive *time.Time
	scores     []float64
	streaks    []int
}

func (f *fakeUserScoreStore) GetUserByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.ID != id {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	u := *f.user
	return &u, nil
}

func (f *fakeUserScoreStore) UpdateScore(userID string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = append(f.scores, score)
	return nil
}

func (f *fakeUserScoreStore) UpdateStreak(userID string, streakDays int, activeDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streaks = append(f.streaks, streakDays)
	at := activeDate
	f.lastActive = &at
	return nil
}

func (f *fakeUserScoreStore) SetLastActive(userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stamp := at
	f.lastActive = &stamp
	return nil
}

func (f *fakeUserScoreStore) lastActiveAt() *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

func (f *fakeUserScoreStore) streakWrites() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.streaks...)
}

type fakeEngagementStore struct {
	mu      sync.Mutex
	entries []models.EngagementLog
}

func (f *fakeEngagementStore) AppendLog(entry *models.EngagementLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeEngagementStore) logged() []models.EngagementLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EngagementLog(nil), f.entries...)
}

func scoringConfig() *config.Config {
	return &config.Config{
		ScoreMin: 0,
		ScoreMax: 100,
		ScoreWeights: config.ScoreWeights{
			ProfileCompleteness: 0.40,
			Engagement:          0.30,
			SocialActivity:      0.15,
			ResponseRate:        0.15,
		},
		EngagementNormMax: 1000,
		StreakNormMaxDays: 30,
	}
}

func TestScoringService_DisplayRating(t *testing.T) {
	svc := NewScoringService(nil, nil, scoringConfig())

	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{
			name:  "Zero",
			score: 0,
			want:  1,
		},
		{
			name:  "Just below first threshold",
			score: 9.9,
			want:  1,
		},
		{
			name:  "First threshold",
			score: 10,
			want:  2,
		},
		{
			name:  "Mid range",
			score: 55,
			want:  6,
		},
		{
			name:  "Just below top",
			score: 89.9,
			want:  9,
		},
		{
			name:  "Top bucket",
			score: 90,
			want:  10,
		},
		{
			name:  "Maximum",
			score: 100,
			want:  10,
		},
		{
			name:  "Negative clamps to bottom",
			score: -50,
			want:  1,
		},
		{
			name:  "Overflow clamps to top",
			score: 1000,
			want:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.DisplayRating(tt.score); got != tt.want {
				t.Errorf("DisplayRating(%v) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestScoringService_DisplayRating_MonotoneAndBounded(t *testing.T) {
	svc := NewScoringService(nil, nil, scoringConfig())

	prev := 0
	for score := -20.0; score <= 120.0; score += 0.5 {
		rating := svc.DisplayRating(score)
		if rating < 1 || rating > 10 {
			t.Fatalf("DisplayRating(%v) = %d, out of [1,10]", score, rating)
		}
		if rating < prev {
			t.Fatalf("DisplayRating(%v) = %d decreased from %d", score, rating, prev)
		}
		prev = rating
	}
}

func TestScoringService_ComputeScore(t *testing.T) {
	svc := NewScoringService(nil, nil, scoringConfig())

	tests := []struct {
		name string
		user models.User
		want float64
	}{
		{
			name: "Empty user scores zero",
			user: models.User{},
			want: 0,
		},
		{
			name: "Maxed user hits the cap",
			user: models.User{
				FullName:         "Max",
				Email:            "max@campus.edu",
				CollegeID:        "college-1",
				Interests:        []string{"chess"},
				Age:              22,
				Gender:           models.GenderMale,
				Bio:              "hi",
				EngagementPoints: 5000,
				SocialStreakDays: 90,
				ResponseRate:     1,
			},
			want: 100,
		},
		{
			name: "Engagement-only user",
			user: models.User{
				// Age alone fills 1/7 of completeness; 300/1000 engagement.
				Age:              20,
				EngagementPoints: 300,
			},
			// 100 * (0.40*(1/7) + 0.30*0.3), about 14.71
			want: 100 * (0.40/7 + 0.09),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.computeScore(&tt.user)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("computeScore() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("computeScore() = %v, outside [0,100]", got)
			}
		})
	}
}

func TestNextStreak(t *testing.T) {
	today := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 9, 23, 50, 0, 0, time.UTC)
	sameDayEarlier := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	threeDaysAgo := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		lastActive  *time.Time
		current     int
		wantStreak  int
		wantChanged bool
	}{
		{
			name:        "First ever activity",
			lastActive:  nil,
			current:     0,
			wantStreak:  1,
			wantChanged: true,
		},
		{
			name:        "Consecutive day increments",
			lastActive:  &yesterday,
			current:     4,
			wantStreak:  5,
			wantChanged: true,
		},
		{
			name:        "Same day is a no-op",
			lastActive:  &sameDayEarlier,
			current:     4,
			wantStreak:  4,
			wantChanged: false,
		},
		{
			name:        "Gap resets to one",
			lastActive:  &threeDaysAgo,
			current:     12,
			wantStreak:  1,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, changed := nextStreak(tt.lastActive, today, tt.current)
			if streak != tt.wantStreak || changed != tt.wantChanged {
				t.Errorf("nextStreak() = (%d, %v), want (%d, %v)",
					streak, changed, tt.wantStreak, tt.wantChanged)
			}
		})
	}
}

func TestNextStreak_DayBoundaryNotTimeOfDay(t *testing.T) {
	// 23:59 yesterday to 00:01 today is two minutes apart but still a
	// consecutive calendar day.
	lastActive := time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, 6, 10, 0, 1, 0, 0, time.UTC)

	streak, changed := nextStreak(&lastActive, today, 7)
	if streak != 8 || !changed {
		t.Errorf("nextStreak() = (%d, %v), want (8, true)", streak, changed)
	}
}

func TestScoringService_LogEngagement_StampsActivity(t *testing.T) {
	users := &fakeUserScoreStore{user: &models.User{ID: "u1"}}
	engagement := &fakeEngagementStore{}
	svc := NewScoringService(users, engagement, scoringConfig())

	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if err := svc.LogEngagement("u1", models.ActionEventJoin, 5, ""); err != nil {
		t.Fatalf("LogEngagement() error = %v", err)
	}

	entries := engagement.logged()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if entries[0].ActionType != models.ActionEventJoin || entries[0].Points != 5 {
		t.Errorf("logged entry = %+v, want %s worth 5", entries[0], models.ActionEventJoin)
	}

	got := users.lastActiveAt()
	if got == nil || !got.Equal(now) {
		t.Errorf("last active date = %v, want %v", got, now)
	}
}

func TestScoringService_UpdateStreak(t *testing.T) {
	yesterday := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	users := &fakeUserScoreStore{user: &models.User{
		ID:               "u1",
		SocialStreakDays: 3,
		LastActiveDate:   &yesterday,
	}}
	engagement := &fakeEngagementStore{}
	svc := NewScoringService(users, engagement, scoringConfig())
	svc.now = func() time.Time { return now }

	streak, err := svc.UpdateStreak("u1")
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if streak != 4 {
		t.Errorf("UpdateStreak() = %d, want 4", streak)
	}

	if writes := users.streakWrites(); len(writes) != 1 || writes[0] != 4 {
		t.Errorf("streak writes = %v, want [4]", writes)
	}

	entries := engagement.logged()
	if len(entries) != 1 || entries[0].ActionType != models.ActionDailyLogin || entries[0].Points != 0 {
		t.Errorf("logged entries = %+v, want one zero-point %s", entries, models.ActionDailyLogin)
	}
}

func TestScoringService_UpdateStreak_SameDayNoOp(t *testing.T) {
	earlier := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	users := &fakeUserScoreStore{user: &models.User{
		ID:               "u1",
		SocialStreakDays: 3,
		LastActiveDate:   &earlier,
	}}
	engagement := &fakeEngagementStore{}
	svc := NewScoringService(users, engagement, scoringConfig())
	svc.now = func() time.Time { return now }

	streak, err := svc.UpdateStreak("u1")
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if streak != 3 {
		t.Errorf("UpdateStreak() = %d, want 3", streak)
	}

	if writes := users.streakWrites(); len(writes) != 0 {
		t.Errorf("streak writes = %v, want none", writes)
	}
	if entries := engagement.logged(); len(entries) != 0 {
		t.Errorf("logged entries = %+v, want none", entries)
	}
}

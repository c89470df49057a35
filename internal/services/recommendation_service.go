package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/campuspulse/campuspulse/internal/cache"
	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/repositories"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

// Suggestion is one ranked candidate. Score is a request-time ranking value,
// not the persisted attractiveness score.
type Suggestion struct {
	User            models.User `json:"user"`
	Score           float64     `json:"score"`
	MutualFriends   int         `json:"mutual_friends"`
	SharedInterests int         `json:"shared_interests"`
}

type RecommendationService struct {
	users       *repositories.UserRepository
	friendships *repositories.FriendshipRepository
	suggestions *cache.SuggestionCache
	cfg         *config.Config

	now func() time.Time
}

func NewRecommendationService(users *repositories.UserRepository, friendships *repositories.FriendshipRepository, suggestions *cache.SuggestionCache, cfg *config.Config) *RecommendationService {
	return &RecommendationService{
		users:       users,
		friendships: friendships,
		suggestions: suggestions,
		cfg:         cfg,
		now:         time.Now,
	}
}

// GetSmartSuggestions ranks a bounded candidate pool for the viewer using
// capped additive signals and returns the top candidates.
func (s *RecommendationService) GetSmartSuggestions(ctx context.Context, viewerID string, filters *models.CandidateFilters, limit int) ([]Suggestion, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}

	fingerprint := filterFingerprint(filters, limit)
	var cached []Suggestion
	if s.suggestions.Get(ctx, viewerID, fingerprint, &cached) {
		return cached, nil
	}

	viewer, err := s.users.GetUserByID(viewerID)
	if err != nil {
		return nil, err
	}

	pool, err := s.users.FindCandidates(viewerID, filters, s.cfg.CandidatePoolCap)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []Suggestion{}, nil
	}

	friendIDs, err := s.friendships.ActiveFriendIDs(viewerID)
	if err != nil {
		return nil, err
	}

	candidateIDs := make([]string, len(pool))
	for i, candidate := range pool {
		candidateIDs[i] = candidate.ID
	}

	mutualCounts, err := s.friendships.MutualCounts(friendIDs, candidateIDs)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	weights := s.cfg.SignalWeights

	ranked := make([]Suggestion, 0, len(pool))
	for _, candidate := range pool {
		mutual := mutualCounts[candidate.ID]
		score, mutualSignal, shared := scoreCandidate(viewer, &candidate, mutual, today, weights)

		// The mutual-friends filter drops candidates below the threshold of
		// the mutual signal alone, not of the total score.
		if filters != nil && filters.HasMutualFriends && mutualSignal < weights.MutualFilterThreshold {
			continue
		}

		ranked = append(ranked, Suggestion{
			User:            candidate,
			Score:           score,
			MutualFriends:   mutual,
			SharedInterests: shared,
		})
	}

	// Ties break on ascending user id for reproducible orderings.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].User.ID < ranked[j].User.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	s.suggestions.Set(ctx, viewerID, fingerprint, ranked)

	return ranked, nil
}

// scoreCandidate sums the independent, individually capped signal
// contributions for one candidate. Returns the total, the mutual-friend
// contribution on its own, and the shared-interest count.
func scoreCandidate(viewer, candidate *models.User, mutualCount int, today time.Time, w config.SignalWeights) (float64, float64, int) {
	score := 0.0

	// Flat college affinity, only when both sides actually have a college.
	if viewer.CollegeID != "" && candidate.CollegeID != "" && viewer.CollegeID == candidate.CollegeID {
		score += w.SameCollege
	}

	mutualSignal := math.Min(float64(mutualCount)*w.PerMutualFriend, w.MutualFriendCap)
	score += mutualSignal

	shared := viewer.SharedInterests(candidate)
	score += math.Min(float64(shared)*w.PerSharedInterest, w.SharedInterestCap)

	// Binary proximity bonus, not a gradient.
	if math.Abs(viewer.AttractivenessScore-candidate.AttractivenessScore) <= w.ScoreProximityRange {
		score += w.ScoreProximity
	}

	if candidate.ActiveOn(today) {
		score += w.ActiveToday
	}

	// Data-completeness signal: both genders recorded, regardless of values.
	if viewer.Gender != "" && candidate.Gender != "" {
		score += w.GenderComplete
	}

	return score, mutualSignal, shared
}

// GetFilteredUsers is browse mode: the same candidate predicate, ordered by
// attractiveness score with no recommendation scoring.
func (s *RecommendationService) GetFilteredUsers(viewerID string, filters *models.CandidateFilters, page, limit int) ([]models.User, int64, error) {
	if err := validateFilters(filters); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}

	return s.users.BrowseByScore(viewerID, filters, page, limit)
}

// validateFilters rejects malformed filter values before any query runs, so
// an inverted range surfaces as a validation error instead of a silently
// empty result set.
func validateFilters(filters *models.CandidateFilters) error {
	if filters == nil {
		return nil
	}

	if filters.MinAge != nil && *filters.MinAge < 0 {
		return errors.New(errors.ErrCodeValidation, "minimum age cannot be negative")
	}
	if filters.MaxAge != nil && *filters.MaxAge < 0 {
		return errors.New(errors.ErrCodeValidation, "maximum age cannot be negative")
	}
	if filters.MinAge != nil && filters.MaxAge != nil && *filters.MinAge > *filters.MaxAge {
		return errors.New(errors.ErrCodeValidation, "minimum age cannot exceed maximum age")
	}
	if filters.MinScore != nil && filters.MaxScore != nil && *filters.MinScore > *filters.MaxScore {
		return errors.New(errors.ErrCodeValidation, "minimum score cannot exceed maximum score")
	}

	return nil
}

// filterFingerprint derives a stable cache key component from the filter set
// and limit, so cached feeds never leak across differing queries.
func filterFingerprint(filters *models.CandidateFilters, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "limit=%d", limit)

	if filters != nil {
		fmt.Fprintf(&b, "|g=%s|c=%s", filters.Gender, filters.CollegeID)
		if filters.MinAge != nil {
			fmt.Fprintf(&b, "|amin=%d", *filters.MinAge)
		}
		if filters.MaxAge != nil {
			fmt.Fprintf(&b, "|amax=%d", *filters.MaxAge)
		}
		if filters.MinScore != nil {
			fmt.Fprintf(&b, "|smin=%g", *filters.MinScore)
		}
		if filters.MaxScore != nil {
			fmt.Fprintf(&b, "|smax=%g", *filters.MaxScore)
		}
		if len(filters.Interests) > 0 {
			fmt.Fprintf(&b, "|i=%s", strings.Join(filters.Interests, ","))
		}
		fmt.Fprintf(&b, "|mf=%t", filters.HasMutualFriends)
	}

	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return fmt.Sprintf("%x", h.Sum64())
}

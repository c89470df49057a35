package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/repositories"
	"github.com/campuspulse/campuspulse/pkg/errors"
	"github.com/campuspulse/campuspulse/pkg/logger"
)

// FriendSummary is one entry of a user's friends list: the other user plus
// when the friendship completed.
type FriendSummary struct {
	Friend           models.User
	Since            *time.Time
	ConnectionMethod string
}

// PendingRequest annotates a pending friendship from one side's point of
// view, so a client can tell "I'm waiting on them" from "they're waiting
// on me".
type PendingRequest struct {
	OtherUser      models.User
	SentByMe       bool
	MyPulseSent    *time.Time
	TheirPulseSent *time.Time
	ExpiresAt      time.Time
}

type FriendshipService struct {
	friendships *repositories.FriendshipRepository
	engagement  EngagementLogger
	cfg         *config.Config

	now func() time.Time
}

func NewFriendshipService(friendships *repositories.FriendshipRepository, engagement EngagementLogger, cfg *config.Config) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		engagement:  engagement,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SendPulse records one side of the double-opt-in handshake. The friendship
// activates only when both sides pulse within the same rolling window; the
// window check happens at the moment of the second pulse.
func (s *FriendshipService) SendPulse(fromUserID, toUserID string) (*models.Friendship, error) {
	if fromUserID == toUserID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot send a pulse to yourself")
	}

	pair, err := models.CanonicalPair(fromUserID, toUserID)
	if err != nil {
		return nil, errors.New(errors.ErrCodeValidation, "invalid user pair")
	}

	now := s.now().UTC()
	friendship, activated, err := s.friendships.ApplyPulse(pair, fromUserID, s.cfg.GetPulseWindow(), now)
	if err != nil {
		return nil, err
	}

	if activated {
		s.awardActivation(fromUserID, toUserID)
	}

	return friendship, nil
}

// awardActivation grants both sides the completion reward. Failures are
// logged and swallowed: the activation itself is already committed.
func (s *FriendshipService) awardActivation(userA, userB string) {
	reward := s.cfg.ActivationReward

	for _, pair := range [][2]string{{userA, userB}, {userB, userA}} {
		metadata := fmt.Sprintf(`{"with":%q}`, pair[1])
		if err := s.engagement.LogEngagement(pair[0], models.ActionPulseExchange, reward, metadata); err != nil {
			logger.Error("failed to log pulse activation engagement",
				"user_id", pair[0], "with", pair[1], "error", err)
		}
	}
}

// GetFriends lists a page of the user's active friendships, most recently
// completed first, each resolved to the other user.
func (s *FriendshipService) GetFriends(userID string, page, limit int) ([]FriendSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	friendships, err := s.friendships.ListActive(userID, page, limit)
	if err != nil {
		return nil, err
	}

	friends := make([]FriendSummary, 0, len(friendships))
	for _, f := range friendships {
		other := f.User2
		if f.User2ID == userID {
			other = f.User1
		}
		friends = append(friends, FriendSummary{
			Friend:           other,
			Since:            f.CompletedAt,
			ConnectionMethod: f.ConnectionMethod,
		})
	}

	return friends, nil
}

// GetPendingRequests lists the user's open handshakes with pulse-state
// annotations.
func (s *FriendshipService) GetPendingRequests(userID string) ([]PendingRequest, error) {
	friendships, err := s.friendships.ListPending(userID)
	if err != nil {
		return nil, err
	}

	requests := make([]PendingRequest, 0, len(friendships))
	for _, f := range friendships {
		other := f.User2
		otherID := f.User2ID
		if f.User2ID == userID {
			other = f.User1
			otherID = f.User1ID
		}

		requests = append(requests, PendingRequest{
			OtherUser:      other,
			SentByMe:       f.InitiatedBy == userID,
			MyPulseSent:    f.PulseSentBy(userID),
			TheirPulseSent: f.PulseSentBy(otherID),
			ExpiresAt:      f.PulseExpiresAt,
		})
	}

	return requests, nil
}

// RemoveFriend hard-deletes the relationship row.
func (s *FriendshipService) RemoveFriend(userID, friendID string) error {
	if userID == friendID {
		return errors.New(errors.ErrCodeValidation, "cannot unfriend yourself")
	}

	pair, err := models.CanonicalPair(userID, friendID)
	if err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid user pair")
	}

	return s.friendships.DeletePair(pair)
}

// AreFriends reports whether the two users have an active friendship.
func (s *FriendshipService) AreFriends(user1ID, user2ID string) (bool, error) {
	pair, err := models.CanonicalPair(user1ID, user2ID)
	if err != nil {
		return false, errors.New(errors.ErrCodeValidation, "invalid user pair")
	}

	return s.friendships.AreFriends(pair)
}

// GetMutualFriends intersects both users' active-friend id sets. The result
// is sorted for reproducibility.
func (s *FriendshipService) GetMutualFriends(user1ID, user2ID string) ([]string, error) {
	firstIDs, err := s.friendships.ActiveFriendIDs(user1ID)
	if err != nil {
		return nil, err
	}

	secondIDs, err := s.friendships.ActiveFriendIDs(user2ID)
	if err != nil {
		return nil, err
	}

	firstSet := make(map[string]bool, len(firstIDs))
	for _, id := range firstIDs {
		firstSet[id] = true
	}

	mutual := make([]string, 0)
	for _, id := range secondIDs {
		if firstSet[id] {
			mutual = append(mutual, id)
		}
	}
	sort.Strings(mutual)

	return mutual, nil
}

// CleanupExpiredFriendships sweeps lapsed pending handshakes to expired and
// returns how many rows transitioned. Idempotent: re-running with no new
// pulses transitions nothing.
func (s *FriendshipService) CleanupExpiredFriendships() (int64, error) {
	count, err := s.friendships.ExpireStale(s.now().UTC())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		logger.Info("expired stale pending friendships", "count", count)
	}

	return count, nil
}

package services

import (
	"time"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/security"
	"github.com/campuspulse/campuspulse/pkg/errors"
	"github.com/campuspulse/campuspulse/pkg/logger"
)

// BulkInviteResult reports what a bulk invite actually did. Skipped counts
// users already invited and candidates whose write failed; duplicate ids in
// the input are collapsed before counting.
type BulkInviteResult struct {
	Created     int
	Skipped     int
	Invitations []models.EventInvitation
}

// InvitationStore is the invitation persistence surface the service needs.
type InvitationStore interface {
	ExistingInviteeIDs(eventID string, inviteeIDs []string) (map[string]bool, error)
	CreateWithHistory(eventID, hostID, inviteeID, message string, now time.Time) (*models.EventInvitation, error)
	GetEventInvitations(eventID string, page, limit int) ([]models.EventInvitation, error)
	UpdateInvitationStatus(eventID, inviteeID, status string) error
	ListInviteeHistory(ownerID string, page, limit int) ([]models.UserInvitee, error)
}

// EventStore resolves events for host checks.
type EventStore interface {
	GetEventByID(id string) (*models.Event, error)
}

type InvitationService struct {
	invitations InvitationStore
	events      EventStore
	engagement  EngagementLogger
	rewardPer   int64

	now func() time.Time
}

func NewInvitationService(invitations InvitationStore, events EventStore, engagement EngagementLogger, rewardPerInvite int64) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		events:      events,
		engagement:  engagement,
		rewardPer:   rewardPerInvite,
		now:         time.Now,
	}
}

// BulkInvite invites a list of candidates to the host's event. Candidates are
// deduplicated, already-invited users are skipped, and each remaining
// candidate gets one invitation plus an invitee-history update in its own
// transaction, so one bad candidate never aborts the rest.
func (s *InvitationService) BulkInvite(hostID, eventID string, candidateIDs []string, message string) (*BulkInviteResult, error) {
	event, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != hostID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the event host can send invitations")
	}

	message = security.SanitizeText(message)

	candidates := dedupeCandidates(candidateIDs, hostID)
	if len(candidates) == 0 {
		return &BulkInviteResult{Invitations: []models.EventInvitation{}}, nil
	}

	existing, err := s.invitations.ExistingInviteeIDs(eventID, candidates)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result := &BulkInviteResult{Invitations: make([]models.EventInvitation, 0, len(candidates))}

	for _, candidateID := range candidates {
		if existing[candidateID] {
			result.Skipped++
			continue
		}

		invitation, err := s.invitations.CreateWithHistory(eventID, hostID, candidateID, message, now)
		if err != nil {
			// Count the failure as skipped and keep going; the batch must
			// not abort on one bad candidate.
			logger.Warn("bulk invite candidate failed",
				"event_id", eventID, "invitee_id", candidateID, "error", err)
			result.Skipped++
			continue
		}

		result.Created++
		result.Invitations = append(result.Invitations, *invitation)
	}

	if result.Created > 0 {
		s.awardInvites(hostID, eventID, result.Created)
	}

	return result, nil
}

// dedupeCandidates applies set semantics to the input and drops the host's
// own id, preserving first-seen order.
func dedupeCandidates(candidateIDs []string, hostID string) []string {
	seen := make(map[string]bool, len(candidateIDs))
	out := make([]string, 0, len(candidateIDs))

	for _, id := range candidateIDs {
		if id == "" || id == hostID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	return out
}

func (s *InvitationService) awardInvites(hostID, eventID string, created int) {
	points := s.rewardPer * int64(created)
	if points <= 0 {
		return
	}

	metadata := `{"event":"` + eventID + `"}`
	if err := s.engagement.LogEngagement(hostID, models.ActionInviteSent, points, metadata); err != nil {
		logger.Error("failed to log invite engagement",
			"user_id", hostID, "event_id", eventID, "error", err)
	}
}

// RespondToInvitation records the invitee's going/declined answer.
func (s *InvitationService) RespondToInvitation(inviteeID, eventID, status string) error {
	if status != models.InvitationStatusGoing && status != models.InvitationStatusDeclined {
		return errors.New(errors.ErrCodeValidation, "response must be going or declined")
	}

	return s.invitations.UpdateInvitationStatus(eventID, inviteeID, status)
}

// GetEventInvitations lists an event's invitations for its host.
func (s *InvitationService) GetEventInvitations(hostID, eventID string, page, limit int) ([]models.EventInvitation, error) {
	event, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != hostID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the event host can list invitations")
	}

	if limit <= 0 {
		limit = 50
	}

	return s.invitations.GetEventInvitations(eventID, page, limit)
}

// GetInviteeHistory pages through everyone the owner has invited.
func (s *InvitationService) GetInviteeHistory(ownerID string, page, limit int) ([]models.UserInvitee, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.invitations.ListInviteeHistory(ownerID, page, limit)
}

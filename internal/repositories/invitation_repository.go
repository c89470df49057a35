package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// ExistingInviteeIDs returns which of the given users already hold an
// invitation to the event.
func (r *InvitationRepository) ExistingInviteeIDs(eventID string, inviteeIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(inviteeIDs))
	if len(inviteeIDs) == 0 {
		return existing, nil
	}

	var invitations []models.EventInvitation
	err := r.db.Select("invitee_id").
		Where("event_id = ? AND invitee_id IN ?", eventID, inviteeIDs).
		Find(&invitations).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check existing invitations")
	}

	for _, inv := range invitations {
		existing[inv.InviteeID] = true
	}

	return existing, nil
}

// CreateWithHistory creates one invitation and applies the inviter's history
// update in a single transaction, so an invitation never exists without its
// matching history entry. One transaction per candidate keeps one bad
// candidate from aborting the rest of a bulk call.
func (r *InvitationRepository) CreateWithHistory(eventID, hostID, inviteeID, message string, now time.Time) (*models.EventInvitation, error) {
	invitation := &models.EventInvitation{
		EventID:   eventID,
		InviteeID: inviteeID,
		InvitedBy: hostID,
		Message:   message,
		Status:    models.InvitationStatusPending,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invitation).Error; err != nil {
			if isDuplicateKey(err) {
				return errors.Wrap(err, errors.ErrCodeAlreadyExists, "invitation already exists")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create invitation")
		}

		var history models.UserInvitee
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ? AND invitee_id = ?", hostID, inviteeID).
			First(&history)

		if result.Error == gorm.ErrRecordNotFound {
			history = models.UserInvitee{
				OwnerID:          hostID,
				InviteeID:        inviteeID,
				FirstInvitedAt:   now,
				LastInvitedAt:    now,
				TotalInvitations: 1,
				EventsInvitedTo:  []string{eventID},
			}
			if err := tx.Create(&history).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create invitee history")
			}
			return nil
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load invitee history")
		}

		history.TotalInvitations++
		history.LastInvitedAt = now
		history.EventsInvitedTo = append(history.EventsInvitedTo, eventID)
		if err := tx.Save(&history).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update invitee history")
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return invitation, nil
}

// GetEventInvitations lists invitations for an event, newest first.
func (r *InvitationRepository) GetEventInvitations(eventID string, page, limit int) ([]models.EventInvitation, error) {
	if page < 1 {
		page = 1
	}

	var invitations []models.EventInvitation
	err := r.db.Where("event_id = ?", eventID).
		Preload("Invitee").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&invitations).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get event invitations")
	}

	return invitations, nil
}

// UpdateInvitationStatus records the invitee's response.
func (r *InvitationRepository) UpdateInvitationStatus(eventID, inviteeID, status string) error {
	result := r.db.Model(&models.EventInvitation{}).
		Where("event_id = ? AND invitee_id = ?", eventID, inviteeID).
		Update("status", status)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update invitation")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "invitation not found")
	}

	return nil
}

// GetInviteeHistory retrieves the aggregate history row for one invitee.
func (r *InvitationRepository) GetInviteeHistory(ownerID, inviteeID string) (*models.UserInvitee, error) {
	var history models.UserInvitee
	result := r.db.Where("owner_id = ? AND invitee_id = ?", ownerID, inviteeID).
		First(&history)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "invitee history not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get invitee history")
	}

	return &history, nil
}

// ListInviteeHistory pages through everyone the owner has ever invited,
// most recently invited first.
func (r *InvitationRepository) ListInviteeHistory(ownerID string, page, limit int) ([]models.UserInvitee, error) {
	if page < 1 {
		page = 1
	}

	var history []models.UserInvitee
	err := r.db.Where("owner_id = ?", ownerID).
		Order("last_invited_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&history).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list invitee history")
	}

	return history, nil
}

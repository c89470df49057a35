package services

import (
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/repositories"
	"github.com/campuspulse/campuspulse/internal/security"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type BookmarkService struct {
	saved *repositories.SavedUserRepository
	users *repositories.UserRepository
}

func NewBookmarkService(saved *repositories.SavedUserRepository, users *repositories.UserRepository) *BookmarkService {
	return &BookmarkService{saved: saved, users: users}
}

// SaveUser bookmarks another user's profile for the owner.
func (s *BookmarkService) SaveUser(ownerID, targetID, context, notes string) (*models.SavedUser, error) {
	if ownerID == targetID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot save yourself")
	}

	if _, err := s.users.GetUserByID(targetID); err != nil {
		return nil, err
	}

	saved := &models.SavedUser{
		OwnerID:     ownerID,
		SavedUserID: targetID,
		Context:     context,
		Notes:       security.SanitizeText(notes),
	}

	if err := s.saved.Save(saved); err != nil {
		return nil, err
	}

	return saved, nil
}

// RemoveSavedUser deletes the owner's bookmark.
func (s *BookmarkService) RemoveSavedUser(ownerID, targetID string) error {
	return s.saved.Remove(ownerID, targetID)
}

// GetSavedUsers pages through the owner's bookmarks.
func (s *BookmarkService) GetSavedUsers(ownerID string, page, limit int) ([]models.SavedUser, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.saved.ListByOwner(ownerID, page, limit)
}

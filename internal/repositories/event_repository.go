package repositories

import (
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/pkg/errors"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent creates a new event
func (r *EventRepository) CreateEvent(event *models.Event) error {
	if err := r.db.Create(event).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create event")
	}
	return nil
}

// GetEventByID retrieves an event by ID
func (r *EventRepository) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	result := r.db.Where("id = ?", id).First(&event)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "event not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get event")
	}

	return &event, nil
}

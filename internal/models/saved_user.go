package models

import (
	"time"
)

// SavedUser is a directed bookmark edge: the owner saved another user's
// profile, typically to invite them to an event later.
type SavedUser struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     string    `gorm:"type:uuid;not null;index:idx_owner_saved,unique"`
	SavedUserID string    `gorm:"type:uuid;not null;index:idx_owner_saved,unique"`
	Saved       User      `gorm:"foreignKey:SavedUserID;constraint:OnDelete:CASCADE"`
	Context     string    `gorm:"type:varchar(40)"`
	Notes       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Saved-user context constants
const (
	SavedContextSuggestion = "suggestion"
	SavedContextBrowse     = "browse"
	SavedContextEvent      = "event"
)

func (SavedUser) TableName() string {
	return "saved_users"
}

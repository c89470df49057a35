package models

import (
	"time"

	"github.com/lib/pq"
)

type EventInvitation struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"type:uuid;not null;index:idx_event_invitee,unique"`
	Event     Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	InviteeID string    `gorm:"type:uuid;not null;index:idx_event_invitee,unique"`
	Invitee   User      `gorm:"foreignKey:InviteeID;constraint:OnDelete:CASCADE"`
	InvitedBy string    `gorm:"type:uuid;not null;index"`
	Message   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Invitation status constants
const (
	InvitationStatusPending  = "pending"
	InvitationStatusGoing    = "going"
	InvitationStatusDeclined = "declined"
)

func (EventInvitation) TableName() string {
	return "event_invitations"
}

// UserInvitee is the aggregate, append-only invitation history of one host
// toward one invitee. Counters only grow; EventsInvitedTo is append-only.
type UserInvitee struct {
	ID               uint           `gorm:"primaryKey"`
	OwnerID          string         `gorm:"type:uuid;not null;index:idx_owner_invitee,unique"`
	InviteeID        string         `gorm:"type:uuid;not null;index:idx_owner_invitee,unique"`
	FirstInvitedAt   time.Time      `gorm:"not null"`
	LastInvitedAt    time.Time      `gorm:"not null"`
	TotalInvitations int            `gorm:"default:1;not null"`
	EventsInvitedTo  pq.StringArray `gorm:"type:text[]"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (UserInvitee) TableName() string {
	return "user_invitees"
}

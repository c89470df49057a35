package models

import (
	"time"
)

// EngagementLog is an append-only audit record of user engagement. Points
// accumulate onto User.EngagementPoints; the log itself is never rewritten.
type EngagementLog struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"type:uuid;not null;index"`
	ActionType string    `gorm:"type:varchar(40);not null"`
	Points     int64     `gorm:"not null"`
	Metadata   string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Engagement action types
const (
	ActionPulseExchange = "pulse_exchange"
	ActionProfileUpdate = "profile_update"
	ActionEventJoin     = "event_join"
	ActionInviteSent    = "invite_sent"
	ActionDailyLogin    = "daily_login"
)

func (EngagementLog) TableName() string {
	return "engagement_logs"
}

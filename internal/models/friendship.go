package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Pair is the canonical ordered form of an unordered user pair:
// User1ID sorts lexicographically before User2ID. Every friendship read and
// write goes through this type so each pair maps to exactly one row no matter
// which side initiated.
type Pair struct {
	User1ID string
	User2ID string
}

// CanonicalPair orders two distinct user ids into a Pair.
func CanonicalPair(a, b string) (Pair, error) {
	if a == "" || b == "" {
		return Pair{}, gorm.ErrInvalidData
	}
	if a == b {
		return Pair{}, gorm.ErrInvalidData
	}
	if strings.Compare(a, b) < 0 {
		return Pair{User1ID: a, User2ID: b}, nil
	}
	return Pair{User1ID: b, User2ID: a}, nil
}

// Contains reports whether the pair involves the given user.
func (p Pair) Contains(userID string) bool {
	return p.User1ID == userID || p.User2ID == userID
}

// Other returns the counterpart of userID in the pair.
func (p Pair) Other(userID string) string {
	if p.User1ID == userID {
		return p.User2ID
	}
	return p.User1ID
}

type Friendship struct {
	ID               uint   `gorm:"primaryKey"`
	User1ID          string `gorm:"type:uuid;not null;index:idx_friendship_pair,unique"`
	User1            User   `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2ID          string `gorm:"type:uuid;not null;index:idx_friendship_pair,unique"`
	User2            User   `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	Status           string `gorm:"type:varchar(20);default:'pending';index"`
	InitiatedBy      string `gorm:"type:uuid;not null"`
	ConnectionMethod string `gorm:"type:varchar(30);default:'pulse'"`
	PulseSentByUser1 *time.Time
	PulseSentByUser2 *time.Time
	PulseExpiresAt   time.Time `gorm:"index"`
	CompletedAt      *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// Friendship status constants. Transitions are pending -> active or
// pending -> expired only; active rows leave the table via hard delete.
const (
	FriendshipStatusPending = "pending"
	FriendshipStatusActive  = "active"
	FriendshipStatusExpired = "expired"
)

// Connection method constants
const (
	ConnectionMethodPulse      = "pulse"
	ConnectionMethodSuggestion = "suggestion"
	ConnectionMethodEvent      = "event"
)

// BeforeSave enforces the canonical ordering and the status enum.
func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.User1ID == "" || f.User2ID == "" || f.User1ID == f.User2ID {
		return gorm.ErrInvalidData
	}
	if strings.Compare(f.User1ID, f.User2ID) >= 0 {
		return gorm.ErrInvalidData
	}

	validStatuses := map[string]bool{
		FriendshipStatusPending: true,
		FriendshipStatusActive:  true,
		FriendshipStatusExpired: true,
	}
	if !validStatuses[f.Status] {
		return gorm.ErrInvalidData
	}

	return nil
}

// Pair returns the canonical pair for this row.
func (f *Friendship) Pair() Pair {
	return Pair{User1ID: f.User1ID, User2ID: f.User2ID}
}

// OtherUserID returns the counterpart of userID.
func (f *Friendship) OtherUserID(userID string) string {
	return f.Pair().Other(userID)
}

// PulseSentBy returns the pulse timestamp recorded for the given user.
func (f *Friendship) PulseSentBy(userID string) *time.Time {
	if f.User1ID == userID {
		return f.PulseSentByUser1
	}
	if f.User2ID == userID {
		return f.PulseSentByUser2
	}
	return nil
}

// SetPulse stamps the slot belonging to userID.
func (f *Friendship) SetPulse(userID string, at time.Time) {
	if f.User1ID == userID {
		f.PulseSentByUser1 = &at
	} else if f.User2ID == userID {
		f.PulseSentByUser2 = &at
	}
}

// BothPulsed reports whether both sides have a pulse recorded.
func (f *Friendship) BothPulsed() bool {
	return f.PulseSentByUser1 != nil && f.PulseSentByUser2 != nil
}

// WindowLapsed reports whether the rolling pulse window has passed at the
// given instant.
func (f *Friendship) WindowLapsed(now time.Time) bool {
	return now.After(f.PulseExpiresAt)
}

func (Friendship) TableName() string {
	return "friendships"
}

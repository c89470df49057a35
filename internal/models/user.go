package models

import (
	"time"

	"github.com/campuspulse/campuspulse/internal/security"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	ID                  string         `gorm:"type:uuid;primaryKey"`
	FullName            string         `gorm:"type:varchar(255);not null"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	CollegeID           string         `gorm:"type:varchar(64);index"`
	CollegeName         string         `gorm:"type:varchar(255)"`
	Interests           pq.StringArray `gorm:"type:text[]"`
	Age                 int            `gorm:"not null"`
	Gender              string         `gorm:"type:varchar(10)"`
	Bio                 string         `gorm:"type:text"`
	ProfileCompleted    bool           `gorm:"default:false;index"`
	AttractivenessScore float64        `gorm:"default:0;index"`
	EngagementPoints    int64          `gorm:"default:0;not null"`
	SocialStreakDays    int            `gorm:"default:0;not null"`
	ResponseRate        float64        `gorm:"default:0"`
	LastActiveDate      *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

const (
	MinUserAge = 16
	MaxUserAge = 100
)

// BeforeCreate assigns a UUID primary key. Lexicographic ordering of these ids
// is what canonical friendship pairs sort by.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave validates profile attributes and sanitizes free text
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Bio = security.SanitizeText(u.Bio)

	if u.Age < MinUserAge || u.Age > MaxUserAge {
		return gorm.ErrInvalidData
	}

	if u.Gender != "" {
		validGenders := map[string]bool{
			GenderMale:   true,
			GenderFemale: true,
			GenderOther:  true,
		}
		if !validGenders[u.Gender] {
			return gorm.ErrInvalidData
		}
	}

	return nil
}

// CompletenessRatio returns the filled fraction of the profile signals the
// scoring model cares about.
func (u *User) CompletenessRatio() float64 {
	const total = 7
	filled := 0

	if u.FullName != "" {
		filled++
	}
	if u.Email != "" {
		filled++
	}
	if u.CollegeID != "" {
		filled++
	}
	if len(u.Interests) > 0 {
		filled++
	}
	if u.Age > 0 {
		filled++
	}
	if u.Gender != "" {
		filled++
	}
	if u.Bio != "" {
		filled++
	}

	return float64(filled) / float64(total)
}

// ActiveOn reports whether the user's last activity falls on the given UTC
// calendar date.
func (u *User) ActiveOn(day time.Time) bool {
	if u.LastActiveDate == nil {
		return false
	}
	y1, m1, d1 := u.LastActiveDate.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SharedInterests counts interests present in both users' sets.
func (u *User) SharedInterests(other *User) int {
	if len(u.Interests) == 0 || len(other.Interests) == 0 {
		return 0
	}

	mine := make(map[string]bool, len(u.Interests))
	for _, interest := range u.Interests {
		mine[interest] = true
	}

	shared := 0
	for _, interest := range other.Interests {
		if mine[interest] {
			shared++
		}
	}
	return shared
}

func (User) TableName() string {
	return "users"
}

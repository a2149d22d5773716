// File: internal/profile/model.go
package profile

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// SocialLinks maps a platform key to a handle. An absent key means the
// platform is not configured; handles are never stored empty.
type SocialLinks map[string]string

// Value implements the driver.Valuer interface for SocialLinks.
func (l SocialLinks) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for SocialLinks.
func (l *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*l = SocialLinks{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("failed to scan SocialLinks: invalid type")
	}
	if len(b) == 0 {
		*l = SocialLinks{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Profile represents the creator profile row. The primary key is the auth
// provider's UID, so there is exactly one row per authenticated identity.
type Profile struct {
	ID             string         `gorm:"type:varchar(128);primaryKey"`
	Username       string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_profiles_username"`
	Email          string         `gorm:"type:varchar(255);not null"`
	Name           string         `gorm:"type:varchar(150)"`
	ProfilePicture *string        `gorm:"column:profile_picture;type:text"`
	Bio            *string        `gorm:"type:text"`
	SocialLinks    SocialLinks    `gorm:"column:social_links;type:jsonb;not null;default:'{}'"`
	Categories     pq.StringArray `gorm:"type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;default:current_timestamp"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null;default:current_timestamp"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// --- DTOs for API requests ---

// UpdateProfileRequest defines the structure for a partial profile update.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=150"`
	Bio            *string  `json:"bio" binding:"omitempty,max=2000"`
	ProfilePicture *string  `json:"profile_picture"`
	Categories     []string `json:"categories" binding:"omitempty,max=20,dive,max=50"`
}

// SetLinkRequest carries the handle for a social-link entry.
type SetLinkRequest struct {
	Handle string `json:"handle" binding:"required,max=255"`
}

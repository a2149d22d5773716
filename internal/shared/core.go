package shared

import (
	"context"
	"time"
)

// Identity is the auth provider's notion of a signed-in principal.
// ID is the provider-issued UID and doubles as the profile primary key.
type Identity struct {
	ID    string
	Email string
}

// Profile is the creator's account record as seen outside the profile package.
type Profile struct {
	ID             string
	Username       string
	Email          string
	Name           string
	ProfilePicture *string
	Bio            *string
	SocialLinks    map[string]string
	Categories     []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileService is the profile surface other packages depend on.
// Resolve materializes the profile row for an identity, creating it on first
// sign-in; resolution is idempotent under concurrent invocation.
type ProfileService interface {
	Resolve(ctx context.Context, identity Identity) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
}

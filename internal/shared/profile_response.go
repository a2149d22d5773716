package shared

import "time"

// ProfileResponse defines the structure for profile data sent in API responses.
// The snake_case field names are the wire-side counterparts of the in-memory
// model; every persisted field must appear here and vice versa.
type ProfileResponse struct {
	ID             string            `json:"id"`
	Username       string            `json:"username"`
	Email          string            `json:"email"`
	Name           string            `json:"name,omitempty"`
	ProfilePicture *string           `json:"profile_picture,omitempty"`
	Bio            *string           `json:"bio,omitempty"`
	SocialLinks    map[string]string `json:"social_links"`
	Categories     []string          `json:"categories,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToProfileResponse converts a Profile to a ProfileResponse DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	links := p.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		Name:           p.Name,
		ProfilePicture: p.ProfilePicture,
		Bio:            p.Bio,
		SocialLinks:    links,
		Categories:     p.Categories,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

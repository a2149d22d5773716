package profile

import (
	"linkfolio_backend/internal/shared"
)

// DBToShared converts a GORM Profile model to a shared.Profile.
func DBToShared(p *Profile) *shared.Profile {
	if p == nil {
		return nil
	}
	links := make(map[string]string, len(p.SocialLinks))
	for k, v := range p.SocialLinks {
		links[k] = v
	}
	return &shared.Profile{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		Name:           p.Name,
		ProfilePicture: p.ProfilePicture,
		Bio:            p.Bio,
		SocialLinks:    links,
		Categories:     append([]string(nil), p.Categories...),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

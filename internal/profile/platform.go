package profile

// PlatformMeta is presentation metadata for a known social platform.
type PlatformMeta struct {
	Label   string
	BaseURL string
}

// KnownPlatforms is the closed set of platforms the dashboard renders with
// first-class icons. Keys outside this table are accepted as free-form links.
var KnownPlatforms = map[string]PlatformMeta{
	"instagram": {Label: "Instagram", BaseURL: "https://instagram.com/"},
	"tiktok":    {Label: "TikTok", BaseURL: "https://tiktok.com/@"},
	"youtube":   {Label: "YouTube", BaseURL: "https://youtube.com/@"},
	"twitter":   {Label: "Twitter", BaseURL: "https://twitter.com/"},
	"facebook":  {Label: "Facebook", BaseURL: "https://facebook.com/"},
	"whatsapp":  {Label: "WhatsApp", BaseURL: "https://wa.me/"},
	"email":     {Label: "Email", BaseURL: "mailto:"},
}

// IsKnownPlatform reports whether key is in the first-class platform set.
func IsKnownPlatform(key string) bool {
	_, ok := KnownPlatforms[key]
	return ok
}

package models

import "strings"

// Platform identifies the source site a media URL belongs to
type Platform int

const (
	PlatformUnsupported Platform = iota
	PlatformYouTube
	PlatformInstagram
)

// String returns the string representation of the platform
func (p Platform) String() string {
	switch p {
	case PlatformYouTube:
		return "youtube"
	case PlatformInstagram:
		return "instagram"
	default:
		return "unsupported"
	}
}

// DisplayName returns the capitalized, user-facing platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformInstagram:
		return "Instagram"
	default:
		return "Unsupported"
	}
}

// ParsePlatform converts a platform string to the Platform enum
func ParsePlatform(platformStr string) Platform {
	switch strings.ToLower(platformStr) {
	case "youtube":
		return PlatformYouTube
	case "instagram":
		return PlatformInstagram
	default:
		return PlatformUnsupported
	}
}

// MarshalJSON implements json.Marshaler interface
func (p Platform) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (p *Platform) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*p = ParsePlatform(str)
	return nil
}

package models

import "strings"

// Format is the output format requested by the caller
type Format int

const (
	FormatMP4 Format = iota
	FormatMP3
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatMP3 {
		return "mp3"
	}
	return "mp4"
}

// ParseFormat converts a format string to the Format enum.
// An empty string defaults to mp4; anything else is rejected.
func ParseFormat(formatStr string) (Format, bool) {
	switch strings.ToLower(formatStr) {
	case "", "mp4":
		return FormatMP4, true
	case "mp3":
		return FormatMP3, true
	default:
		return FormatMP4, false
	}
}

// MarshalJSON implements json.Marshaler interface
func (f Format) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (f *Format) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	parsed, _ := ParseFormat(str)
	*f = parsed
	return nil
}

package models

import (
	"encoding/json"
	"testing"
)

func TestPlatform_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		platform Platform
		expected string
	}{
		{PlatformYouTube, "youtube"},
		{PlatformInstagram, "instagram"},
		{PlatformUnsupported, "unsupported"},
		{Platform(99), "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			if got := tt.platform.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPlatform_DisplayName(t *testing.T) {
	t.Parallel()
	if got := PlatformYouTube.DisplayName(); got != "YouTube" {
		t.Errorf("DisplayName() = %q, want %q", got, "YouTube")
	}
	if got := PlatformInstagram.DisplayName(); got != "Instagram" {
		t.Errorf("DisplayName() = %q, want %q", got, "Instagram")
	}
}

func TestParsePlatform(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected Platform
	}{
		{"youtube", PlatformYouTube},
		{"YouTube", PlatformYouTube},
		{"instagram", PlatformInstagram},
		{"INSTAGRAM", PlatformInstagram},
		{"tiktok", PlatformUnsupported},
		{"", PlatformUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParsePlatform(tt.input); got != tt.expected {
				t.Errorf("ParsePlatform(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPlatform_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	for _, p := range []Platform{PlatformYouTube, PlatformInstagram, PlatformUnsupported} {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", p, err)
		}

		var decoded Platform
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if decoded != p {
			t.Errorf("round trip of %v yielded %v", p, decoded)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected Format
		ok       bool
	}{
		{"", FormatMP4, true},
		{"mp4", FormatMP4, true},
		{"MP4", FormatMP4, true},
		{"mp3", FormatMP3, true},
		{"Mp3", FormatMP3, true},
		{"avi", FormatMP4, false},
		{"webm", FormatMP4, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseFormat(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseFormat(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

package domain

import "testing"

func TestNewSong_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		artist   string
		album    string
		url      string
		expected Song
	}{
		{
			name:   "all fields present",
			title:  "Imagine",
			artist: "John Lennon",
			album:  "Imagine",
			url:    "https://genius.com/John-lennon-imagine-lyrics",
			expected: Song{
				Title:  "Imagine",
				Artist: "John Lennon",
				Album:  "Imagine",
				URL:    "https://genius.com/John-lennon-imagine-lyrics",
			},
		},
		{
			name:     "missing album",
			title:    "Imagine",
			artist:   "John Lennon",
			expected: Song{Title: "Imagine", Artist: "John Lennon", Album: UnknownField},
		},
		{
			name:     "everything missing",
			album:    "   ",
			expected: Song{Title: UnknownField, Artist: UnknownField, Album: UnknownField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSong(tt.title, tt.artist, tt.album, tt.url)
			if got != tt.expected {
				t.Errorf("NewSong() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSong_HasURL(t *testing.T) {
	if (Song{}).HasURL() {
		t.Error("HasURL() = true for empty URL")
	}
	if !(Song{URL: "https://genius.com/x"}).HasURL() {
		t.Error("HasURL() = false for non-empty URL")
	}
}

func TestSong_Describe(t *testing.T) {
	song := NewSong("Imagine", "John Lennon", "", "")

	if got := song.Describe(); got != "Imagine by John Lennon" {
		t.Errorf("Describe() = %q, want %q", got, "Imagine by John Lennon")
	}
}

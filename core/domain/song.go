// ABOUTME: Song domain model represents one lyric search hit from the metadata provider
// ABOUTME: Applies the "Unknown" defaults for fields the provider leaves out

package domain

import "strings"

// UnknownField is substituted for title, artist or album when the provider omits them
const UnknownField = "Unknown"

// Song represents a song matched by a lyric search
type Song struct {
	// Title is the song title
	Title string `json:"title"`

	// Artist is the primary artist name
	Artist string `json:"artist"`

	// Album is the album name
	Album string `json:"album"`

	// URL is the provider page for the song, may be empty
	URL string `json:"url"`
}

// NewSong creates a Song, replacing blank title, artist and album with UnknownField
func NewSong(title, artist, album, url string) Song {
	return Song{
		Title:  orUnknown(title),
		Artist: orUnknown(artist),
		Album:  orUnknown(album),
		URL:    url,
	}
}

// HasURL reports whether the song links to a provider page
func (s Song) HasURL() bool {
	return s.URL != ""
}

// Describe returns a short "Title by Artist" line
func (s Song) Describe() string {
	return s.Title + " by " + s.Artist
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return UnknownField
	}
	return v
}

// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for lyric search and the speech collaborators around it

package interfaces

import (
	"context"

	"songfinder-bot/core/domain"
)

// LyricsSearcher finds songs matching a lyric fragment.
// A nil error always comes with at least one song.
type LyricsSearcher interface {
	SearchByLyrics(ctx context.Context, query string) ([]domain.Song, error)
}

// Transcriber converts recorded speech to text
type Transcriber interface {
	// Transcribe returns the recognized text for an encoded audio clip.
	// An empty transcript with a nil error means nothing was recognized.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)

	// Name returns the engine name for logging
	Name() string
}

// SpeechSynthesizer converts text to an encoded audio clip
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

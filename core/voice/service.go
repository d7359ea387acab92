// ABOUTME: Voice service turns a recorded voice message into a lyric query
// ABOUTME: Wraps the external transcriber with a timeout and a typed error classification

package voice

import (
	"context"
	"errors"
	"strings"
	"time"

	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/core/interfaces"
)

// DefaultTimeout bounds a single transcription
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured is returned when no transcriber is wired
var ErrNotConfigured = errors.New("speech recognition is not configured")

// VoiceService transcribes voice messages
type VoiceService struct {
	transcriber interfaces.Transcriber
	logger      interfaces.Logger
	timeout     time.Duration
}

// NewVoiceService creates a voice service around a transcriber, which may be nil
func NewVoiceService(transcriber interfaces.Transcriber, logger interfaces.Logger) *VoiceService {
	return &VoiceService{
		transcriber: transcriber,
		logger:      logger,
		timeout:     DefaultTimeout,
	}
}

// WithTimeout overrides the per-transcription timeout; non-positive values are ignored
func (s *VoiceService) WithTimeout(timeout time.Duration) *VoiceService {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Available reports whether a transcriber is wired
func (s *VoiceService) Available() bool {
	return s.transcriber != nil
}

// Transcribe returns the text spoken in audio.
// Every failure is a *errors.SpeechError.
func (s *VoiceService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.transcriber == nil {
		return "", &coreerrors.SpeechError{Kind: coreerrors.SpeechService, Err: ErrNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		speechErr := ClassifyRecognitionError(err)
		if s.logger != nil {
			s.logger.Warn("Speech recognition failed", map[string]interface{}{
				"engine": s.transcriber.Name(),
				"kind":   speechErr.Kind.String(),
				"bytes":  len(audio),
				"error":  err.Error(),
			})
		}
		return "", speechErr
	}

	text = strings.TrimSpace(text)
	if text == "" {
		if s.logger != nil {
			s.logger.Info("Speech recognition returned no transcript", map[string]interface{}{
				"engine": s.transcriber.Name(),
				"bytes":  len(audio),
			})
		}
		return "", &coreerrors.SpeechError{Kind: coreerrors.SpeechUnintelligible}
	}

	if s.logger != nil {
		s.logger.Debug("Speech recognized", map[string]interface{}{
			"engine":      s.transcriber.Name(),
			"text":        text,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
	return text, nil
}

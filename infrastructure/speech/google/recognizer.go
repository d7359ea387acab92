// ABOUTME: Google Cloud Speech-to-Text adapter implementing the core Transcriber
// ABOUTME: Sends voice notes inline with a synchronous Recognize call

package google

import (
	"context"
	"errors"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// MaxInlineAudioBytes is the largest payload accepted by synchronous recognition
const MaxInlineAudioBytes = 10 * 1024 * 1024

// ErrAudioTooLarge is returned for payloads over MaxInlineAudioBytes
var ErrAudioTooLarge = errors.New("audio exceeds the inline recognition limit")

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// Recognizer transcribes audio with Google Cloud Speech-to-Text
type Recognizer struct {
	recognize    recognizeFunc
	languageCode string
	close        func() error
}

// NewRecognizer creates a recognizer using application default credentials
func NewRecognizer(ctx context.Context, languageCode string) (*Recognizer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	r := newRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}, languageCode)
	r.close = client.Close
	return r, nil
}

func newRecognizer(fn recognizeFunc, languageCode string) *Recognizer {
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &Recognizer{
		recognize:    fn,
		languageCode: languageCode,
		close:        func() error { return nil },
	}
}

// Name identifies the engine in logs
func (r *Recognizer) Name() string {
	return "google-speech"
}

// Transcribe returns the best transcript for audio, or "" when nothing was recognized
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) > MaxInlineAudioBytes {
		return "", ErrAudioTooLarge
	}

	resp, err := r.recognize(ctx, &speechpb.RecognizeRequest{
		Config: recognitionConfig(mimeType, r.languageCode),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(alternatives[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying client
func (r *Recognizer) Close() error {
	return r.close()
}

// recognitionConfig maps a chat attachment MIME type to a recognition config.
// Chat voice notes are Ogg Opus at 48 kHz; other formats are left for the
// service to detect from their headers.
func recognitionConfig(mimeType, languageCode string) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		LanguageCode: languageCode,
	}

	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "audio/ogg", "audio/opus", "audio/ogg; codecs=opus":
		cfg.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		cfg.SampleRateHertz = 48000
	case "audio/flac", "audio/x-flac":
		cfg.Encoding = speechpb.RecognitionConfig_FLAC
	case "audio/mpeg", "audio/mp3":
		cfg.Encoding = speechpb.RecognitionConfig_MP3
	}
	return cfg
}

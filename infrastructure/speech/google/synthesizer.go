// ABOUTME: Google Cloud Text-to-Speech adapter implementing the core SpeechSynthesizer
// ABOUTME: Produces Ogg Opus audio that chat clients play as a voice note

package google

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// maxSynthesisBytes is the request input limit of the synthesis API
const maxSynthesisBytes = 5000

// ErrEmptyText is returned when there is nothing to speak
var ErrEmptyText = errors.New("nothing to synthesize")

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// Synthesizer speaks text with Google Cloud Text-to-Speech
type Synthesizer struct {
	synthesize   synthesizeFunc
	languageCode string
	voiceName    string
	close        func() error
}

// NewSynthesizer creates a synthesizer using application default credentials
func NewSynthesizer(ctx context.Context, languageCode, voiceName string) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	s := newSynthesizer(func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return client.SynthesizeSpeech(ctx, req)
	}, languageCode, voiceName)
	s.close = client.Close
	return s, nil
}

func newSynthesizer(fn synthesizeFunc, languageCode, voiceName string) *Synthesizer {
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &Synthesizer{
		synthesize:   fn,
		languageCode: languageCode,
		voiceName:    voiceName,
		close:        func() error { return nil },
	}
}

// Synthesize returns Ogg Opus audio for text
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = truncateUTF8(strings.TrimSpace(text), maxSynthesisBytes)
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := s.synthesize(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.languageCode,
			Name:         s.voiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_OGG_OPUS,
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.GetAudioContent(), nil
}

// Close releases the underlying client
func (s *Synthesizer) Close() error {
	return s.close()
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

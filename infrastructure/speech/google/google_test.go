package google

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizer_Transcribe(t *testing.T) {
	var captured *speechpb.RecognizeRequest
	r := newRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		captured = req
		return &speechpb.RecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "imagine all"}, {Transcript: "imagine fall"}}},
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " the people "}}},
				{},
			},
		}, nil
	}, "")

	text, err := r.Transcribe(context.Background(), []byte("ogg-bytes"), "audio/ogg")

	require.NoError(t, err)
	assert.Equal(t, "imagine all the people", text)
	assert.Equal(t, "en-US", captured.GetConfig().GetLanguageCode())
	assert.Equal(t, speechpb.RecognitionConfig_OGG_OPUS, captured.GetConfig().GetEncoding())
	assert.Equal(t, int32(48000), captured.GetConfig().GetSampleRateHertz())
	assert.Equal(t, []byte("ogg-bytes"), captured.GetAudio().GetContent())
	assert.Equal(t, "google-speech", r.Name())
}

func TestRecognizer_NoResults(t *testing.T) {
	r := newRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return &speechpb.RecognizeResponse{}, nil
	}, "en-GB")

	text, err := r.Transcribe(context.Background(), []byte("x"), "audio/ogg")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRecognizer_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	r := newRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return nil, boom
	}, "")

	_, err := r.Transcribe(context.Background(), []byte("x"), "audio/ogg")

	assert.ErrorIs(t, err, boom)
}

func TestRecognizer_RejectsOversizedAudio(t *testing.T) {
	called := false
	r := newRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		called = true
		return nil, nil
	}, "")

	_, err := r.Transcribe(context.Background(), make([]byte, MaxInlineAudioBytes+1), "audio/ogg")

	assert.ErrorIs(t, err, ErrAudioTooLarge)
	assert.False(t, called)
}

func TestRecognitionConfig_Encodings(t *testing.T) {
	assert.Equal(t, speechpb.RecognitionConfig_FLAC, recognitionConfig("audio/flac", "en-US").GetEncoding())
	assert.Equal(t, speechpb.RecognitionConfig_MP3, recognitionConfig("audio/mpeg", "en-US").GetEncoding())
	assert.Equal(t, speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, recognitionConfig("audio/wav", "en-US").GetEncoding())
}

func TestSynthesizer_Synthesize(t *testing.T) {
	var captured *texttospeechpb.SynthesizeSpeechRequest
	s := newSynthesizer(func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		captured = req
		return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte("opus")}, nil
	}, "en-US", "en-US-Neural2-J")

	audio, err := s.Synthesize(context.Background(), " Imagine by John Lennon ")

	require.NoError(t, err)
	assert.Equal(t, []byte("opus"), audio)
	assert.Equal(t, "Imagine by John Lennon", captured.GetInput().GetText())
	assert.Equal(t, "en-US-Neural2-J", captured.GetVoice().GetName())
	assert.Equal(t, texttospeechpb.AudioEncoding_OGG_OPUS, captured.GetAudioConfig().GetAudioEncoding())
}

func TestSynthesizer_EmptyText(t *testing.T) {
	s := newSynthesizer(nil, "", "")

	_, err := s.Synthesize(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTruncateUTF8(t *testing.T) {
	long := strings.Repeat("é", 3000)

	cut := truncateUTF8(long, maxSynthesisBytes)

	assert.LessOrEqual(t, len(cut), maxSynthesisBytes)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "short", truncateUTF8("short", 10))
}

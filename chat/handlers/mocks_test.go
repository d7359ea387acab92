package handlers

import (
	"context"
	"sync"

	"songfinder-bot/core/domain"
	coreerrors "songfinder-bot/core/errors"
)

// fakeMessenger records everything the handler sends
type fakeMessenger struct {
	mu       sync.Mutex
	messages []OutgoingMessage
	voices   [][]byte
	sendErr  error
}

func (f *fakeMessenger) Send(ctx context.Context, msg OutgoingMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.sendErr
}

func (f *fakeMessenger) SendVoice(ctx context.Context, chatID int64, audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = append(f.voices, audio)
	return nil
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeMessenger) last() OutgoingMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1]
}

// stubSearcher answers from a table, everything else finds nothing
type stubSearcher struct {
	mu      sync.Mutex
	answers map[string][]domain.Song
	calls   []string
}

func (s *stubSearcher) SearchByLyrics(ctx context.Context, query string) ([]domain.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
	if songs, ok := s.answers[query]; ok {
		return songs, nil
	}
	return nil, coreerrors.NewNoResultsError("Genius")
}

// mockDownloader is a mock implementation of the Downloader interface
type mockDownloader struct {
	downloadFunc func(ctx context.Context, fileID string) ([]byte, error)
}

func (m *mockDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, fileID)
	}
	return []byte("ogg"), nil
}

// mockVoice is a mock implementation of the VoiceTranscriber interface
type mockVoice struct {
	available      bool
	transcribeFunc func(ctx context.Context, audio []byte, mimeType string) (string, error)
}

func (m *mockVoice) Available() bool {
	return m.available
}

func (m *mockVoice) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if m.transcribeFunc != nil {
		return m.transcribeFunc(ctx, audio, mimeType)
	}
	return "", nil
}

// mockSynthesizer is a mock implementation of the SpeechSynthesizer interface
type mockSynthesizer struct {
	texts []string
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.texts = append(m.texts, text)
	return []byte("opus"), nil
}

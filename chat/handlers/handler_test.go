package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"songfinder-bot/core/domain"
	"songfinder-bot/core/finder"
	"songfinder-bot/pkg/featureflags"
	"songfinder-bot/pkg/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatID int64 = 1001

var imagine = []domain.Song{
	domain.NewSong("Imagine", "John Lennon", "Imagine", "https://genius.com/John-lennon-imagine-lyrics"),
}

type fixture struct {
	handler   *Handler
	messenger *fakeMessenger
	searcher  *stubSearcher
}

func newFixture(t *testing.T, mutate func(cfg *Config)) *fixture {
	t.Helper()
	messenger := &fakeMessenger{}
	searcher := &stubSearcher{answers: map[string][]domain.Song{
		"imagine all the people": imagine,
	}}
	cfg := Config{
		Finder:    finder.NewFinder(searcher),
		Messenger: messenger,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return &fixture{handler: NewHandler(cfg), messenger: messenger, searcher: searcher}
}

func (f *fixture) send(text string) {
	f.handler.Handle(context.Background(), Update{ChatID: chatID, Text: text})
}

func TestHandle_Start(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/start")

	msg := f.messenger.last()
	assert.Equal(t, welcomeText, msg.Text)
	assert.Equal(t, []string{SearchButton}, msg.Keyboard)
	assert.Empty(t, f.searcher.calls)
}

func TestHandle_Help(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/help@SongFinderBot")

	assert.Equal(t, []string{helpText}, f.messenger.texts())
}

func TestHandle_SearchCommandWithoutArgs(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/search")
	f.send("/search    ")

	assert.Equal(t, []string{searchUsageText, searchUsageText}, f.messenger.texts())
	assert.Empty(t, f.searcher.calls)
}

func TestHandle_SearchCommand(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/search imagine all the people")

	assert.Equal(t, []string{"imagine all the people"}, f.searcher.calls)
	texts := f.messenger.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "🔍 Searching for: 'imagine all the people'...", texts[0])
	assert.True(t, f.messenger.last().HTML)
}

func TestHandle_PlainTextRetriesWithNormalizedQuery(t *testing.T) {
	f := newFixture(t, nil)

	f.send("Imagine all the people!!")

	assert.Equal(t, []string{"Imagine all the people!!", "imagine all the people"}, f.searcher.calls)
	texts := f.messenger.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "🔍 Searching for: 'Imagine all the people!!'...", texts[0])
	assert.Equal(t, retryingText, texts[1])
	assert.Contains(t, texts[2], "1. <b>Imagine</b>")
}

func TestHandle_NoResultsShowsTips(t *testing.T) {
	f := newFixture(t, nil)

	f.send("!!!2023!!!")

	assert.Len(t, f.searcher.calls, 1)
	assert.Equal(t, []string{"🔍 Searching for: '!!!2023!!!'...", noResultsText}, f.messenger.texts())
}

func TestHandle_SearchButtonTakesNextMessageAsQuery(t *testing.T) {
	f := newFixture(t, nil)

	f.send(SearchButton)
	f.send("/help")

	texts := f.messenger.texts()
	assert.Equal(t, searchPromptText, texts[0])
	assert.Equal(t, []string{"/help", "help"}, f.searcher.calls, "the next message is searched verbatim, then normalized")
	assert.NotContains(t, f.messenger.texts(), helpText)

	f.send("/help")
	assert.Equal(t, helpText, f.messenger.last().Text, "the prompt only applies once")
}

func TestHandle_UnknownCommandIsSearched(t *testing.T) {
	f := newFixture(t, nil)

	f.send("/imagine")

	assert.Equal(t, []string{"/imagine", "imagine"}, f.searcher.calls)
}

func TestHandle_EmptyTextIgnored(t *testing.T) {
	f := newFixture(t, nil)

	f.send("")

	assert.Empty(t, f.messenger.texts())
}

func TestHandle_RateLimited(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Limiter = ratelimit.NewPerMinute(1, 1, time.Minute)
	})

	f.send("/help")
	f.send("/help")

	assert.Equal(t, []string{helpText, slowDownText}, f.messenger.texts())
}

func TestHandle_StrictRetryFlagReachesFinder(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Flags = featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
			featureflags.StrictRetry: true,
		})
	})

	f.send("Imagine all the people!!")

	assert.Len(t, f.searcher.calls, 2, "no-results still retries under the strict policy")
}

func TestHandle_SendFailuresDoNotStopTheFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.messenger.sendErr = errors.New("chat unreachable")

	f.send("Imagine all the people!!")

	assert.Len(t, f.searcher.calls, 2)
	assert.Len(t, f.messenger.messages, 3)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		args    string
	}{
		{"/start", "start", ""},
		{"/search hello world", "search", "hello world"},
		{"/search@SongFinderBot  hello ", "search", "hello"},
		{"/Search\nhello", "search", "hello"},
		{"hello", "", ""},
		{"/", "", ""},
	}

	for _, tt := range tests {
		command, args := parseCommand(tt.text)
		assert.Equal(t, tt.command, command, tt.text)
		assert.Equal(t, tt.args, args, tt.text)
	}
}

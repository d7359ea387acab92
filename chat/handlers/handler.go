// ABOUTME: Chat handler routes incoming messages to commands, searches and voice queries
// ABOUTME: Transport-agnostic; the chat adapter supplies a Messenger and a Downloader

package handlers

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"songfinder-bot/core/finder"
	"songfinder-bot/core/interfaces"
	"songfinder-bot/pkg/featureflags"
	"songfinder-bot/pkg/ratelimit"
)

// VoiceNote references an audio attachment held by the chat platform
type VoiceNote struct {
	FileID      string
	MimeType    string
	DurationSec int
}

// Update is one incoming chat message
type Update struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
	Voice    *VoiceNote
}

// OutgoingMessage is a message for the chat
type OutgoingMessage struct {
	ChatID int64
	Text   string

	// HTML enables HTML parse mode and disables link previews
	HTML bool

	// Keyboard, when set, is shown as a one-column reply keyboard
	Keyboard []string
}

// Messenger delivers messages to a chat
type Messenger interface {
	Send(ctx context.Context, msg OutgoingMessage) error
	SendVoice(ctx context.Context, chatID int64, audio []byte) error
}

// Downloader fetches voice attachments
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// SongFinder runs the lyric retry workflow
type SongFinder interface {
	Find(ctx context.Context, query string, progress finder.ProgressFunc) *finder.Result
}

// VoiceTranscriber turns a voice note into a query
type VoiceTranscriber interface {
	Available() bool
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Config wires the handler's collaborators. Voice, Synthesizer, Downloader,
// Limiter, Flags and Logger are optional.
type Config struct {
	Finder      SongFinder
	Messenger   Messenger
	Downloader  Downloader
	Voice       VoiceTranscriber
	Synthesizer interfaces.SpeechSynthesizer
	Limiter     *ratelimit.KeyedLimiter
	Flags       featureflags.Manager
	Logger      interfaces.Logger
}

// Handler processes chat updates
type Handler struct {
	finder      SongFinder
	messenger   Messenger
	downloader  Downloader
	voice       VoiceTranscriber
	synthesizer interfaces.SpeechSynthesizer
	limiter     *ratelimit.KeyedLimiter
	flags       featureflags.Manager
	logger      interfaces.Logger

	mu      sync.Mutex
	pending map[int64]bool
}

// NewHandler creates a chat handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		finder:      cfg.Finder,
		messenger:   cfg.Messenger,
		downloader:  cfg.Downloader,
		voice:       cfg.Voice,
		synthesizer: cfg.Synthesizer,
		limiter:     cfg.Limiter,
		flags:       cfg.Flags,
		logger:      cfg.Logger,
		pending:     make(map[int64]bool),
	}
}

// Handle processes one update to completion. Callers serialize updates per chat.
func (h *Handler) Handle(ctx context.Context, upd Update) {
	if h.flags != nil {
		ctx = featureflags.WithManager(ctx, h.flags)
	}

	if h.limiter != nil && !h.limiter.Allow(strconv.FormatInt(upd.ChatID, 10)) {
		h.logDebug("Chat message throttled", upd, nil)
		h.sendText(ctx, upd.ChatID, slowDownText)
		return
	}

	if upd.Voice != nil {
		h.takePending(upd.ChatID)
		h.handleVoice(ctx, upd)
		return
	}

	text := upd.Text
	if text == "" {
		return
	}

	// The message after the search button is the query, whatever it says
	if h.takePending(upd.ChatID) {
		h.runSearch(ctx, upd, text, false)
		return
	}

	command, args := parseCommand(text)
	switch command {
	case "start":
		h.logDebug("Start command", upd, nil)
		h.send(ctx, OutgoingMessage{ChatID: upd.ChatID, Text: welcomeText, Keyboard: []string{SearchButton}})
	case "help":
		h.sendText(ctx, upd.ChatID, helpText)
	case "search":
		if args == "" {
			h.sendText(ctx, upd.ChatID, searchUsageText)
			return
		}
		h.runSearch(ctx, upd, args, false)
	default:
		if text == SearchButton {
			h.setPending(upd.ChatID)
			h.sendText(ctx, upd.ChatID, searchPromptText)
			return
		}
		h.runSearch(ctx, upd, text, false)
	}
}

// runSearch announces the search, runs the retry workflow and renders the outcome
func (h *Handler) runSearch(ctx context.Context, upd Update, query string, fromVoice bool) {
	progress := func(state finder.State, q string) {
		switch state {
		case finder.StateSearching:
			h.sendText(ctx, upd.ChatID, searchingText(q))
		case finder.StateRetrying:
			h.sendText(ctx, upd.ChatID, retryingText)
		}
	}

	result := h.finder.Find(ctx, query, progress)
	if !result.Succeeded() {
		h.logDebug("Search found nothing", upd, map[string]interface{}{
			"attempts": result.Attempts,
			"error":    errString(result.Err),
		})
		h.sendText(ctx, upd.ChatID, noResultsText)
		return
	}

	h.send(ctx, OutgoingMessage{ChatID: upd.ChatID, Text: RenderResults(result.Songs), HTML: true})

	if fromVoice {
		h.replyWithVoice(ctx, upd, result)
	}
}

// replyWithVoice speaks the best match; failures are only logged
func (h *Handler) replyWithVoice(ctx context.Context, upd Update, result *finder.Result) {
	if h.synthesizer == nil || !featureflags.IsEnabled(ctx, featureflags.VoiceReplies) {
		return
	}

	audio, err := h.synthesizer.Synthesize(ctx, spokenSummary(result.Songs))
	if err != nil {
		h.logWarn("Voice reply synthesis failed", upd, err)
		return
	}
	if err := h.messenger.SendVoice(ctx, upd.ChatID, audio); err != nil {
		h.logWarn("Voice reply delivery failed", upd, err)
	}
}

func (h *Handler) sendText(ctx context.Context, chatID int64, text string) {
	h.send(ctx, OutgoingMessage{ChatID: chatID, Text: text})
}

func (h *Handler) send(ctx context.Context, msg OutgoingMessage) {
	if err := h.messenger.Send(ctx, msg); err != nil && h.logger != nil {
		h.logger.Error("Failed to send chat message", map[string]interface{}{
			"chat_id": msg.ChatID,
			"error":   err.Error(),
		})
	}
}

func (h *Handler) setPending(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[chatID] = true
}

// takePending clears and returns the chat's awaiting-lyrics state
func (h *Handler) takePending(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	was := h.pending[chatID]
	delete(h.pending, chatID)
	return was
}

// parseCommand splits "/search@SongBot some words" into ("search", "some words").
// Non-command text yields an empty command.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	body := text[1:]
	head, args := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		head, args = body[:i], strings.TrimSpace(body[i:])
	}
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), args
}

func (h *Handler) logDebug(msg string, upd Update, extra map[string]interface{}) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"chat_id": upd.ChatID,
		"user_id": upd.UserID,
	}
	for k, v := range extra {
		fields[k] = v
	}
	h.logger.Debug(msg, fields)
}

func (h *Handler) logWarn(msg string, upd Update, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Warn(msg, map[string]interface{}{
		"chat_id": upd.ChatID,
		"error":   err.Error(),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ABOUTME: Telegram adapter delivers chat messages and voice files through the Bot API
// ABOUTME: Converts incoming updates and hands them to the chat worker pool keyed by chat

package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"songfinder-bot/chat/handlers"
	"songfinder-bot/core/interfaces"
	"songfinder-bot/core/workers"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	// MaxVoiceBytes is the largest voice file the bot downloads
	MaxVoiceBytes = 20 * 1024 * 1024

	downloadTimeout = 30 * time.Second
	voiceFilename   = "reply.ogg"
)

// ErrVoiceTooLarge is returned for voice files above MaxVoiceBytes
var ErrVoiceTooLarge = errors.New("voice file is too large")

// UpdateHandler processes one converted update
type UpdateHandler interface {
	Handle(ctx context.Context, upd handlers.Update)
}

// Submitter queues work for a chat
type Submitter interface {
	Submit(job *workers.Job) error
}

// Option configures the client
type Option func(*options)

type options struct {
	serverURL  string
	httpClient *http.Client
}

// WithServerURL points the client at a different Bot API server
func WithServerURL(url string) Option {
	return func(o *options) {
		o.serverURL = url
	}
}

// WithDownloadClient sets the HTTP client used for file downloads
func WithDownloadClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// Client wraps the Bot API. It implements handlers.Messenger and handlers.Downloader.
type Client struct {
	api        *bot.Bot
	httpClient *http.Client
	logger     interfaces.Logger

	handler UpdateHandler
	pool    Submitter
}

// NewClient creates a Bot API client for token
func NewClient(token string, logger interfaces.Logger, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: downloadTimeout}
	}

	c := &Client{
		httpClient: o.httpClient,
		logger:     logger,
	}

	// Updates reach onUpdate one at a time in polling order; the pool keeps
	// that order per chat, so handlers must not run on their own goroutines
	botOpts := []bot.Option{
		bot.WithDefaultHandler(c.onUpdate),
		bot.WithNotAsyncHandlers(),
		bot.WithSkipGetMe(),
	}
	if o.serverURL != "" {
		botOpts = append(botOpts, bot.WithServerURL(o.serverURL))
	}

	api, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	c.api = api
	return c, nil
}

// Run registers the bot commands and polls for updates until ctx is done.
// Every update is submitted to pool and processed by handler.
func (c *Client) Run(ctx context.Context, handler UpdateHandler, pool Submitter) {
	c.handler = handler
	c.pool = pool

	_, err := c.api.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "Start the bot"},
			{Command: "help", Description: "How to use the bot"},
			{Command: "search", Description: "Search for a song by lyrics"},
		},
	})
	if err != nil && c.logger != nil {
		c.logger.Warn("Failed to register bot commands", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if c.logger != nil {
		c.logger.Info("Telegram bot polling started", nil)
	}
	c.api.Start(ctx)
}

// onUpdate is the bot's default handler
func (c *Client) onUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	upd, ok := convertUpdate(update)
	if !ok || c.handler == nil {
		return
	}
	c.dispatch(upd)
}

func (c *Client) dispatch(upd handlers.Update) {
	handler := c.handler
	job := &workers.Job{
		ChatID: upd.ChatID,
		Name:   "chat_update",
		Run: func(ctx context.Context) {
			handler.Handle(ctx, upd)
		},
	}

	if c.pool == nil {
		job.Run(context.Background())
		return
	}
	if err := c.pool.Submit(job); err != nil && c.logger != nil {
		c.logger.Warn("Dropped chat update", map[string]interface{}{
			"chat_id": upd.ChatID,
			"error":   err.Error(),
		})
	}
}

// convertUpdate extracts the fields the handler needs; non-message updates are skipped
func convertUpdate(update *models.Update) (handlers.Update, bool) {
	if update == nil || update.Message == nil {
		return handlers.Update{}, false
	}
	msg := update.Message

	upd := handlers.Update{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		upd.UserID = msg.From.ID
		upd.Username = msg.From.Username
	}
	if msg.Voice != nil {
		upd.Voice = &handlers.VoiceNote{
			FileID:      msg.Voice.FileID,
			MimeType:    msg.Voice.MimeType,
			DurationSec: msg.Voice.Duration,
		}
	}
	if upd.Text == "" && upd.Voice == nil {
		return handlers.Update{}, false
	}
	return upd, true
}

// Send delivers a text message
func (c *Client) Send(ctx context.Context, msg handlers.OutgoingMessage) error {
	params := &bot.SendMessageParams{
		ChatID: msg.ChatID,
		Text:   msg.Text,
	}
	if msg.HTML {
		params.ParseMode = models.ParseModeHTML
		params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: bot.True()}
	}
	if len(msg.Keyboard) > 0 {
		rows := make([][]models.KeyboardButton, 0, len(msg.Keyboard))
		for _, label := range msg.Keyboard {
			rows = append(rows, []models.KeyboardButton{{Text: label}})
		}
		params.ReplyMarkup = &models.ReplyKeyboardMarkup{
			Keyboard:       rows,
			ResizeKeyboard: true,
		}
	}

	if _, err := c.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendVoice uploads an OGG/Opus voice message
func (c *Client) SendVoice(ctx context.Context, chatID int64, audio []byte) error {
	_, err := c.api.SendVoice(ctx, &bot.SendVoiceParams{
		ChatID: chatID,
		Voice: &models.InputFileUpload{
			Filename: voiceFilename,
			Data:     bytes.NewReader(audio),
		},
	})
	if err != nil {
		return fmt.Errorf("send voice: %w", err)
	}
	return nil
}

// Download fetches the file behind fileID
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file == nil || file.FilePath == "" {
		return nil, errors.New("file path not available")
	}
	if file.FileSize > MaxVoiceBytes {
		return nil, ErrVoiceTooLarge
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxVoiceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > MaxVoiceBytes {
		return nil, ErrVoiceTooLarge
	}
	return data, nil
}

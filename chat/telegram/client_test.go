package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"songfinder-bot/chat/handlers"
	"songfinder-bot/core/workers"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:test-token"

// recordingHandler collects handled updates
type recordingHandler struct {
	mu      sync.Mutex
	updates []handlers.Update
}

func (r *recordingHandler) Handle(ctx context.Context, upd handlers.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, upd)
}

// mockSubmitter is a mock implementation of the Submitter interface
type mockSubmitter struct {
	submitFunc func(job *workers.Job) error
	jobs       []*workers.Job
}

func (m *mockSubmitter) Submit(job *workers.Job) error {
	m.jobs = append(m.jobs, job)
	if m.submitFunc != nil {
		return m.submitFunc(job)
	}
	job.Run(context.Background())
	return nil
}

// apiServer fakes the Bot API and records form values per method
type apiServer struct {
	mu    sync.Mutex
	forms map[string]map[string]string
	files map[string][]byte
}

func newAPIServer(t *testing.T) (*apiServer, *httptest.Server) {
	t.Helper()
	api := &apiServer{forms: map[string]map[string]string{}, files: map[string][]byte{}}
	server := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(server.Close)
	return api, server
}

func (a *apiServer) serve(w http.ResponseWriter, r *http.Request) {
	if path, ok := strings.CutPrefix(r.URL.Path, "/file/bot"+testToken+"/"); ok {
		data, found := a.files[path]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
		return
	}

	method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")
	_ = r.ParseMultipartForm(1 << 20)
	values := map[string]string{}
	for key := range r.Form {
		values[key] = r.FormValue(key)
	}
	a.mu.Lock()
	a.forms[method] = values
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage", "sendVoice":
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	case "getFile":
		switch values["file_id"] {
		case "voice-1":
			fmt.Fprint(w, `{"ok":true,"result":{"file_id":"voice-1","file_unique_id":"u1","file_size":3,"file_path":"voice/file_1.oga"}}`)
		case "huge":
			fmt.Fprint(w, `{"ok":true,"result":{"file_id":"huge","file_unique_id":"u2","file_size":52428800,"file_path":"voice/huge.oga"}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: invalid file_id"}`)
		}
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (a *apiServer) form(method string) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.forms[method]
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(testToken, nil, WithServerURL(server.URL), WithDownloadClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestConvertUpdate(t *testing.T) {
	tests := []struct {
		name     string
		update   *models.Update
		expected handlers.Update
		ok       bool
	}{
		{
			name:   "nil update",
			update: nil,
		},
		{
			name:   "no message",
			update: &models.Update{ID: 1},
		},
		{
			name: "text message",
			update: &models.Update{Message: &models.Message{
				Chat: models.Chat{ID: 42},
				From: &models.User{ID: 7, Username: "alice"},
				Text: "imagine all the people",
			}},
			expected: handlers.Update{ChatID: 42, UserID: 7, Username: "alice", Text: "imagine all the people"},
			ok:       true,
		},
		{
			name: "voice message",
			update: &models.Update{Message: &models.Message{
				Chat:  models.Chat{ID: 42},
				Voice: &models.Voice{FileID: "voice-1", MimeType: "audio/ogg", Duration: 4},
			}},
			expected: handlers.Update{ChatID: 42, Voice: &handlers.VoiceNote{FileID: "voice-1", MimeType: "audio/ogg", DurationSec: 4}},
			ok:       true,
		},
		{
			name: "sticker is skipped",
			update: &models.Update{Message: &models.Message{
				Chat:    models.Chat{ID: 42},
				Sticker: &models.Sticker{FileID: "s"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertUpdate(tt.update)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOnUpdate_SubmitsJobPerChat(t *testing.T) {
	_, server := newAPIServer(t)
	client := newTestClient(t, server)
	handler := &recordingHandler{}
	pool := &mockSubmitter{}
	client.handler, client.pool = handler, pool

	client.onUpdate(context.Background(), nil, &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: -100},
		Text: "/help",
	}})

	require.Len(t, pool.jobs, 1)
	assert.Equal(t, int64(-100), pool.jobs[0].ChatID)
	require.Len(t, handler.updates, 1)
	assert.Equal(t, "/help", handler.updates[0].Text)
}

func TestProcessUpdate_KeepsSameChatOrder(t *testing.T) {
	_, server := newAPIServer(t)
	client := newTestClient(t, server)

	for i := 0; i < 200; i++ {
		handler := &recordingHandler{}
		client.handler, client.pool = handler, &mockSubmitter{}

		client.api.ProcessUpdate(context.Background(), &models.Update{Message: &models.Message{
			Chat: models.Chat{ID: 7},
			Text: handlers.SearchButton,
		}})
		client.api.ProcessUpdate(context.Background(), &models.Update{Message: &models.Message{
			Chat: models.Chat{ID: 7},
			Text: "imagine all the people",
		}})

		handler.mu.Lock()
		texts := make([]string, 0, len(handler.updates))
		for _, upd := range handler.updates {
			texts = append(texts, upd.Text)
		}
		handler.mu.Unlock()
		require.Equal(t, []string{handlers.SearchButton, "imagine all the people"}, texts, "iteration %d", i)
	}
}

func TestOnUpdate_QueueFullDropsUpdate(t *testing.T) {
	_, server := newAPIServer(t)
	client := newTestClient(t, server)
	handler := &recordingHandler{}
	client.handler = handler
	client.pool = &mockSubmitter{submitFunc: func(job *workers.Job) error {
		return workers.ErrQueueFull
	}}

	client.onUpdate(context.Background(), nil, &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: 1},
		Text: "hello",
	}})

	assert.Empty(t, handler.updates)
}

func TestSend_PlainText(t *testing.T) {
	api, server := newAPIServer(t)
	client := newTestClient(t, server)

	err := client.Send(context.Background(), handlers.OutgoingMessage{ChatID: 42, Text: "hello"})

	require.NoError(t, err)
	form := api.form("sendMessage")
	assert.Equal(t, "42", form["chat_id"])
	assert.Equal(t, "hello", form["text"])
	assert.Empty(t, form["parse_mode"])
}

func TestSend_HTMLWithKeyboard(t *testing.T) {
	api, server := newAPIServer(t)
	client := newTestClient(t, server)

	err := client.Send(context.Background(), handlers.OutgoingMessage{
		ChatID:   42,
		Text:     "<b>hi</b>",
		HTML:     true,
		Keyboard: []string{handlers.SearchButton},
	})

	require.NoError(t, err)
	form := api.form("sendMessage")
	assert.Equal(t, "HTML", form["parse_mode"])
	assert.Contains(t, form["reply_markup"], handlers.SearchButton)
	assert.Contains(t, form["reply_markup"], `"resize_keyboard":true`)
	assert.Contains(t, form["link_preview_options"], `"is_disabled":true`)
}

func TestDownload(t *testing.T) {
	api, server := newAPIServer(t)
	api.files["voice/file_1.oga"] = []byte("ogg")
	client := newTestClient(t, server)

	data, err := client.Download(context.Background(), "voice-1")

	require.NoError(t, err)
	assert.Equal(t, []byte("ogg"), data)
}

func TestDownload_Errors(t *testing.T) {
	_, server := newAPIServer(t)
	client := newTestClient(t, server)

	_, err := client.Download(context.Background(), "missing")
	assert.Error(t, err)

	_, err = client.Download(context.Background(), "huge")
	assert.True(t, errors.Is(err, ErrVoiceTooLarge))

	_, err = client.Download(context.Background(), "voice-1")
	assert.Error(t, err, "file body is not served")
}

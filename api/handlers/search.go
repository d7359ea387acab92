// ABOUTME: Lyrics search handler for the Huma API
// ABOUTME: Runs the same retry workflow as the chat bot and returns the outcome as JSON

package handlers

import (
	"context"
	"net/http"
	"strings"

	"songfinder-bot/api/dto/mappers"
	"songfinder-bot/api/dto/responses"
	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/core/finder"

	"github.com/danielgtaylor/huma/v2"
)

// SongFinder runs the lyric retry workflow
type SongFinder interface {
	Find(ctx context.Context, query string, progress finder.ProgressFunc) *finder.Result
}

// SearchHandler handles lyric search HTTP requests
type SearchHandler struct {
	finder SongFinder
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(finder SongFinder) *SearchHandler {
	return &SearchHandler{finder: finder}
}

// RegisterRoutes registers all search-related routes
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchLyrics",
		Method:      http.MethodGet,
		Path:        "/v1/search",
		Summary:     "Find songs by lyrics",
		Description: "Searches for songs matching a lyric fragment. When the raw fragment finds nothing, one retry is made with a normalized version.",
		Tags:        []string{"Search"},
	}, h.SearchLyrics)
}

// SearchLyricsInput defines the input for the SearchLyrics operation
type SearchLyricsInput struct {
	Q string `query:"q" required:"true" minLength:"1" maxLength:"500" example:"imagine all the people" doc:"Lyric fragment to search for"`
}

// SearchLyricsOutput defines the output for the SearchLyrics operation
type SearchLyricsOutput struct {
	Body responses.SearchLyricsResponse
}

// SearchLyrics handles the GET /v1/search endpoint
func (h *SearchHandler) SearchLyrics(ctx context.Context, input *SearchLyricsInput) (*SearchLyricsOutput, error) {
	if strings.TrimSpace(input.Q) == "" {
		return nil, toHumaError(&coreerrors.ValidationError{Field: "q", Message: "query cannot be empty"})
	}

	result := h.finder.Find(ctx, input.Q, nil)
	if !result.Succeeded() {
		return nil, toHumaError(result.Err)
	}

	return &SearchLyricsOutput{Body: mappers.ToSearchLyricsResponse(result)}, nil
}

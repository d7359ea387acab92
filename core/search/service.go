// ABOUTME: Search service looks up songs by lyric fragment through the Genius search API
// ABOUTME: Issues exactly one provider request per call and classifies every failure

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"songfinder-bot/core/domain"
	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/core/interfaces"
	"songfinder-bot/pkg/utils/text"
)

const (
	// DefaultBaseURL is the Genius API endpoint
	DefaultBaseURL = "https://api.genius.com"

	// DefaultPerPage caps the number of hits requested per search
	DefaultPerPage = 5

	// DefaultTimeout bounds a single provider request
	DefaultTimeout = 10 * time.Second

	// DefaultCacheTTL is how long successful responses stay cached
	DefaultCacheTTL = 24 * time.Hour

	providerName   = "Genius"
	cacheKeyPrefix = "search:lyrics:"
)

// Config holds provider settings for the search service
type Config struct {
	// BaseURL is the provider API root, "/search" is appended
	BaseURL string

	// APIKey is the bearer credential; empty means every search fails
	APIKey string

	// PerPage is the result-count cap sent to the provider
	PerPage int

	// Timeout bounds each provider request
	Timeout time.Duration

	// CacheTTL is the lifetime of cached responses, 0 disables caching
	CacheTTL time.Duration
}

// DefaultConfig returns the provider settings used when none are given
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		PerPage:  DefaultPerPage,
		Timeout:  DefaultTimeout,
		CacheTTL: DefaultCacheTTL,
	}
}

// LyricsSearchService searches the provider for songs by lyrics
type LyricsSearchService struct {
	deps interfaces.Dependencies
	cfg  Config
}

// NewLyricsSearchService creates a new search service instance
func NewLyricsSearchService(deps interfaces.Dependencies, cfg Config) *LyricsSearchService {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaults.PerPage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &LyricsSearchService{
		deps: deps,
		cfg:  cfg,
	}
}

// geniusSearchResponse mirrors the subset of the Genius /search payload we read
type geniusSearchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist *struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
				Album *struct {
					Name string `json:"name"`
				} `json:"album"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// SearchByLyrics looks up songs whose lyrics match query.
// On success the returned slice is non-empty and in provider order. Failures
// are *errors.ProviderError values of kind CredentialMissing, Transport or NoResults.
func (s *LyricsSearchService) SearchByLyrics(ctx context.Context, query string) ([]domain.Song, error) {
	if s.cfg.APIKey == "" {
		return nil, coreerrors.NewCredentialMissingError(providerName)
	}

	if songs := s.getCached(ctx, query); len(songs) > 0 {
		return songs, nil
	}

	if s.deps.HTTPClient == nil {
		return nil, coreerrors.NewTransportError(providerName, fmt.Errorf("HTTP client not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(s.cfg.PerPage))
	apiURL := s.cfg.BaseURL + "/search?" + params.Encode()

	start := time.Now()
	resp, err := s.deps.HTTPClient.Get(ctx, apiURL, map[string]string{
		"Authorization": "Bearer " + s.cfg.APIKey,
		"Accept":        "application/json",
	})
	if err != nil {
		s.logFailure(query, err)
		return nil, coreerrors.NewTransportError(providerName, err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body(), 512))
		apiErr := &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(string(body)),
			API:        "genius",
		}
		s.logFailure(query, apiErr)
		return nil, coreerrors.NewTransportError(providerName, apiErr)
	}

	var payload geniusSearchResponse
	if err := json.NewDecoder(resp.Body()).Decode(&payload); err != nil {
		err = fmt.Errorf("failed to parse search results: %w", err)
		s.logFailure(query, err)
		return nil, coreerrors.NewTransportError(providerName, err)
	}

	hits := payload.Response.Hits
	if s.deps.Logger != nil {
		s.deps.Logger.Debug("Lyrics search completed", map[string]interface{}{
			"query":       query,
			"hits":        len(hits),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
	if len(hits) == 0 {
		return nil, coreerrors.NewNoResultsError(providerName)
	}
	if len(hits) > s.cfg.PerPage {
		hits = hits[:s.cfg.PerPage]
	}

	songs := make([]domain.Song, 0, len(hits))
	for _, hit := range hits {
		var artist, album string
		if hit.Result.PrimaryArtist != nil {
			artist = hit.Result.PrimaryArtist.Name
		}
		if hit.Result.Album != nil {
			album = hit.Result.Album.Name
		}
		songs = append(songs, domain.NewSong(
			text.CleanField(hit.Result.Title),
			text.CleanField(artist),
			text.CleanField(album),
			hit.Result.URL,
		))
	}

	s.setCached(ctx, query, songs)

	return songs, nil
}

// getCached returns cached songs for query, or nil on any miss
func (s *LyricsSearchService) getCached(ctx context.Context, query string) []domain.Song {
	if s.deps.Cache == nil || s.cfg.CacheTTL <= 0 {
		return nil
	}

	data, err := s.deps.Cache.Get(ctx, cacheKeyPrefix+query)
	if err != nil || data == nil {
		return nil
	}

	var songs []domain.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Debug("Lyrics search served from cache", map[string]interface{}{
			"query": query,
			"songs": len(songs),
		})
	}
	return songs
}

// setCached stores a successful search, failures are only logged
func (s *LyricsSearchService) setCached(ctx context.Context, query string, songs []domain.Song) {
	if s.deps.Cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return
	}

	if err := s.deps.Cache.Set(ctx, cacheKeyPrefix+query, data, s.cfg.CacheTTL); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Warn("Failed to cache lyrics search", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
}

func (s *LyricsSearchService) logFailure(query string, err error) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.Error("Lyrics search request failed", map[string]interface{}{
		"query": query,
		"error": err.Error(),
	})
}

// ABOUTME: Response DTOs for the lyrics search API endpoints
// ABOUTME: Defines the JSON shape of search results and health checks

package responses

// SongResponse is one matching song
type SongResponse struct {
	Title  string `json:"title" example:"Imagine" doc:"Song title"`
	Artist string `json:"artist" example:"John Lennon" doc:"Primary artist, Unknown when missing"`
	Album  string `json:"album" example:"Imagine" doc:"Album name, Unknown when missing"`
	URL    string `json:"url" example:"https://genius.com/John-lennon-imagine-lyrics" doc:"Lyrics page"`
}

// SearchLyricsResponse is the outcome of a lyric search
type SearchLyricsResponse struct {
	Query           string         `json:"query" doc:"The query as received"`
	NormalizedQuery string         `json:"normalized_query,omitempty" doc:"Normalized query, set when the raw query found nothing"`
	Attempts        int            `json:"attempts" minimum:"1" maximum:"2" doc:"Provider calls made"`
	Retried         bool           `json:"retried" doc:"Whether the normalized query was searched"`
	Songs           []SongResponse `json:"songs" doc:"Matches in provider order"`
	DurationMS      int64          `json:"duration_ms" doc:"Wall time of the search"`
}

// HealthResponse reports the state of the service and its dependencies
type HealthResponse struct {
	Status string            `json:"status" enum:"ok,degraded" doc:"Overall status"`
	Checks map[string]string `json:"checks,omitempty" doc:"Per-dependency status, ok or the error"`
}

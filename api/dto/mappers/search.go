// ABOUTME: Mappers from workflow results to API response DTOs
// ABOUTME: Keeps JSON concerns out of the core packages

package mappers

import (
	"songfinder-bot/api/dto/responses"
	"songfinder-bot/core/domain"
	"songfinder-bot/core/finder"
)

// ToSongResponse converts a domain song
func ToSongResponse(song domain.Song) responses.SongResponse {
	return responses.SongResponse{
		Title:  song.Title,
		Artist: song.Artist,
		Album:  song.Album,
		URL:    song.URL,
	}
}

// ToSearchLyricsResponse converts a successful workflow result
func ToSearchLyricsResponse(result *finder.Result) responses.SearchLyricsResponse {
	songs := make([]responses.SongResponse, 0, len(result.Songs))
	for _, song := range result.Songs {
		songs = append(songs, ToSongResponse(song))
	}

	resp := responses.SearchLyricsResponse{
		Query:      result.Query,
		Attempts:   result.Attempts,
		Retried:    result.Retried,
		Songs:      songs,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Retried {
		resp.NormalizedQuery = result.NormalizedQuery
	}
	return resp
}

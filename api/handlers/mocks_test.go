package handlers

import (
	"context"
	"errors"

	"songfinder-bot/core/finder"
)

// mockFinder is a mock implementation of the SongFinder interface
type mockFinder struct {
	findFunc func(ctx context.Context, query string) *finder.Result
	queries  []string
}

func (m *mockFinder) Find(ctx context.Context, query string, progress finder.ProgressFunc) *finder.Result {
	m.queries = append(m.queries, query)
	if m.findFunc != nil {
		return m.findFunc(ctx, query)
	}
	return &finder.Result{Query: query, Attempts: 1, Err: errors.New("not stubbed")}
}

// mockPinger is a mock implementation of the Pinger interface
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

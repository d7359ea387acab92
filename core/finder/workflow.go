// ABOUTME: Finder runs the lyric retry workflow: raw search, then one normalized retry
// ABOUTME: A small state machine (Searching, Retrying, Done) bounded to two provider calls

package finder

import (
	"context"
	"time"

	"songfinder-bot/core/domain"
	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/core/interfaces"
	"songfinder-bot/core/lyrics"
	"songfinder-bot/pkg/featureflags"
)

// MaxAttempts is the upper bound of provider calls per request
const MaxAttempts = 2

// State is a step of the retry workflow
type State int

const (
	// StateSearching runs the raw query
	StateSearching State = iota
	// StateRetrying runs the normalized query
	StateRetrying
	// StateDone is terminal
	StateDone
)

// String returns the state name used in logs
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateRetrying:
		return "retrying"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// RetryPolicy decides which first-attempt failures trigger the normalized retry
type RetryPolicy int

const (
	// RetryPolicyFromFlags resolves to RetryOnNoResults when the strict_retry
	// flag is enabled in the request context, RetryOnAnyFailure otherwise
	RetryPolicyFromFlags RetryPolicy = iota
	// RetryOnAnyFailure retries after any failure, including a missing
	// credential or a transport error
	RetryOnAnyFailure
	// RetryOnNoResults retries only after a successful zero-hit search
	RetryOnNoResults
)

// ProgressFunc is told when the workflow enters Searching or Retrying.
// query is the string about to be sent to the provider.
type ProgressFunc func(state State, query string)

// Result is the outcome of one workflow run.
// Exactly one of Songs (non-empty) and Err is set.
type Result struct {
	// Query is the raw user input
	Query string `json:"query"`

	// NormalizedQuery is set when the first attempt failed
	NormalizedQuery string `json:"normalized_query,omitempty"`

	// Songs are the matches of the successful attempt
	Songs []domain.Song `json:"songs,omitempty"`

	// Err is the failure of the last attempt made
	Err error `json:"-"`

	// Attempts is the number of provider calls made, at most MaxAttempts
	Attempts int `json:"attempts"`

	// Retried reports whether the normalized query was searched
	Retried bool `json:"retried"`

	// State is always StateDone for a returned result
	State State `json:"-"`

	// Duration is the wall time of the whole run
	Duration time.Duration `json:"-"`
}

// Succeeded reports whether songs were found
func (r *Result) Succeeded() bool {
	return r.Err == nil && len(r.Songs) > 0
}

// Finder orchestrates searches for a single request
type Finder struct {
	searcher interfaces.LyricsSearcher
	logger   interfaces.Logger
	policy   RetryPolicy
}

// Option configures a Finder
type Option func(*Finder)

// WithLogger sets the logger
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithRetryPolicy fixes the retry policy instead of reading feature flags
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(f *Finder) {
		f.policy = policy
	}
}

// NewFinder creates a Finder around a lyrics searcher
func NewFinder(searcher interfaces.LyricsSearcher, opts ...Option) *Finder {
	f := &Finder{searcher: searcher}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find runs the retry workflow for query. progress may be nil.
func (f *Finder) Find(ctx context.Context, query string, progress ProgressFunc) *Result {
	start := time.Now()
	result := &Result{Query: query}
	policy := f.resolvePolicy(ctx)

	state := StateSearching
	for state != StateDone {
		switch state {
		case StateSearching:
			notify(progress, state, query)
			songs, err := f.attempt(ctx, result, query)
			if err == nil {
				result.Songs = songs
				state = StateDone
				continue
			}
			result.Err = err

			normalized, retry := lyrics.Retryable(query)
			result.NormalizedQuery = normalized
			if retry && policy == RetryOnNoResults && !coreerrors.IsNoResults(err) {
				retry = false
			}
			if retry {
				state = StateRetrying
			} else {
				state = StateDone
			}

		case StateRetrying:
			notify(progress, state, result.NormalizedQuery)
			result.Retried = true
			songs, err := f.attempt(ctx, result, result.NormalizedQuery)
			result.Songs, result.Err = songs, err
			state = StateDone
		}
	}

	result.State = StateDone
	result.Duration = time.Since(start)
	f.logResult(result, policy)
	return result
}

// attempt performs one provider call and enforces the success invariant
func (f *Finder) attempt(ctx context.Context, result *Result, query string) ([]domain.Song, error) {
	result.Attempts++
	songs, err := f.searcher.SearchByLyrics(ctx, query)
	if err == nil && len(songs) == 0 {
		err = coreerrors.NewNoResultsError("provider")
	}
	if err != nil {
		return nil, err
	}
	return songs, nil
}

func (f *Finder) resolvePolicy(ctx context.Context) RetryPolicy {
	if f.policy != RetryPolicyFromFlags {
		return f.policy
	}
	if featureflags.IsEnabled(ctx, featureflags.StrictRetry) {
		return RetryOnNoResults
	}
	return RetryOnAnyFailure
}

func (f *Finder) logResult(result *Result, policy RetryPolicy) {
	if f.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"query":       result.Query,
		"attempts":    result.Attempts,
		"retried":     result.Retried,
		"songs":       len(result.Songs),
		"strict":      policy == RetryOnNoResults,
		"duration_ms": result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
		if providerErr, ok := coreerrors.AsProviderError(result.Err); ok {
			fields["error_kind"] = providerErr.Kind.String()
		}
		f.logger.Info("Lyrics search found nothing", fields)
		return
	}
	f.logger.Info("Lyrics search succeeded", fields)
}

func notify(progress ProgressFunc, state State, query string) {
	if progress != nil {
		progress(state, query)
	}
}

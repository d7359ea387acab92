// Package core contains the business logic of the Song Finder bot.
// It is framework-agnostic and has no knowledge of Telegram, HTTP servers
// or speech vendors.
//
// The core package is organized into several sub-packages:
//
// - domain: the Song model
// - lyrics: query normalization for the fallback search
// - search: the Genius lyrics search service
// - finder: the retry workflow (raw search, then one normalized retry)
// - voice: transcription of voice queries with typed failures
// - workers: per-chat background processing
// - errors: custom error types for provider, speech and config failures
// - interfaces: contracts for external dependencies (cache, HTTP, logger, speech)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	import (
//	    "songfinder-bot/core/finder"
//	    "songfinder-bot/core/interfaces"
//	    "songfinder-bot/core/search"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache, may be nil
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	searcher := search.NewLyricsSearchService(deps, search.Config{APIKey: key})
//	result := finder.NewFinder(searcher).Find(ctx, "Imagine all the people!!", nil)
//	if result.Succeeded() {
//	    // result.Songs holds the matches in provider order
//	}
package core

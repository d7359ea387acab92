// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache stores successful search responses, may be nil
	Cache Cache

	// HTTPClient performs provider requests
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}

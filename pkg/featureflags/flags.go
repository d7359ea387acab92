// ABOUTME: Feature flag management for optional bot behaviour
// ABOUTME: Provides interface-based feature toggling with env and static backends

package featureflags

import (
	"context"
	"os"
	"strings"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// StrictRetry limits the normalized retry to genuine zero-hit searches
	StrictRetry FeatureFlag = "strict_retry"

	// VoiceEnabled enables transcription of voice messages
	VoiceEnabled FeatureFlag = "voice_enabled"

	// VoiceReplies answers voice queries with a spoken summary of the top match
	VoiceReplies FeatureFlag = "voice_replies"

	// HTTPAPIEnabled exposes the search workflow over HTTP
	HTTPAPIEnabled FeatureFlag = "http_api_enabled"

	// RateLimitEnabled enables per-chat and per-IP rate limiting
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"

	// CacheEnabled enables caching of provider responses
	CacheEnabled FeatureFlag = "cache_enabled"
)

// AllFlags lists every defined flag
var AllFlags = []FeatureFlag{
	StrictRetry,
	VoiceEnabled,
	VoiceReplies,
	HTTPAPIEnabled,
	RateLimitEnabled,
	CacheEnabled,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables
type EnvManager struct {
	defaults map[FeatureFlag]bool
	prefix   string
}

// NewEnvManager creates a new environment-based feature flag manager
func NewEnvManager(prefix string) *EnvManager {
	return NewEnvManagerWithDefaults(prefix, nil)
}

// NewEnvManagerWithDefaults creates an environment-based manager whose flags
// fall back to defaults when their variable is unset
func NewEnvManagerWithDefaults(prefix string, defaults map[FeatureFlag]bool) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		defaults: copyFlags(defaults),
		prefix:   prefix,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	envKey := m.prefix + strings.ToUpper(string(flag))
	value := os.Getenv(envKey)
	if value == "" {
		return m.defaults[flag]
	}

	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "enabled"
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(AllFlags))
	for _, flag := range AllFlags {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

// StaticManager implements Manager with a fixed set of flag states
type StaticManager struct {
	flags map[FeatureFlag]bool
}

// NewStaticManager creates a manager with predefined flag states.
// The map is copied; later changes to it have no effect.
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	return &StaticManager{
		flags: copyFlags(flags),
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	return m.flags[flag]
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	return copyFlags(m.flags)
}

func copyFlags(src map[FeatureFlag]bool) map[FeatureFlag]bool {
	dst := make(map[FeatureFlag]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ContextKey for storing feature flags in context
type contextKey struct{}

// WithManager adds a feature flag manager to the context
func WithManager(ctx context.Context, manager Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, manager)
}

// FromContext retrieves the feature flag manager from context
func FromContext(ctx context.Context) Manager {
	if manager, ok := ctx.Value(contextKey{}).(Manager); ok {
		return manager
	}
	// Return a default manager that disables all features
	return NewStaticManager(nil)
}

// IsEnabled is a convenience function to check if a feature is enabled
func IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	return FromContext(ctx).IsEnabled(ctx, flag)
}

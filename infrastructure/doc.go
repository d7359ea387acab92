// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, speech and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: in-process cache on patrickmn/go-cache
// - cache/redis: Redis cache shared between bot replicas
// - cache/sqlite: file-backed cache that survives restarts
// - http/standard: net/http client with a request-logging transport
// - logger/logrus: structured JSON logging with optional file rotation
// - speech/google: Google Cloud Speech-to-Text and Text-to-Speech adapters
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address:   "localhost:6379",
//	    KeyPrefix: "songfinder:",
//	})
//
// # HTTP Client
//
// The HTTP client performs exactly one request per call. Retrying is the
// search workflow's job, never the transport's:
//
//	client := standard.NewLoggingHTTPClient(10*time.Second, logger)
//	resp, err := client.Get(ctx, "https://api.genius.com/search?q=imagine", headers)
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger(logrus.Config{Level: "info"})
//	logger.Info("Processing update", map[string]interface{}{
//	    "chat_id": 42,
//	})
package infrastructure

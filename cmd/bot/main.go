// ABOUTME: Main entry point for the Song Finder bot
// ABOUTME: Wires search, voice, chat transport and the optional HTTP API, then runs until signalled

package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"songfinder-bot/api"
	apihandlers "songfinder-bot/api/handlers"
	chathandlers "songfinder-bot/chat/handlers"
	"songfinder-bot/chat/telegram"
	"songfinder-bot/core/finder"
	"songfinder-bot/core/interfaces"
	"songfinder-bot/core/search"
	"songfinder-bot/core/voice"
	"songfinder-bot/core/workers"
	"songfinder-bot/infrastructure/cache/memory"
	"songfinder-bot/infrastructure/cache/redis"
	"songfinder-bot/infrastructure/cache/sqlite"
	stdhttp "songfinder-bot/infrastructure/http/standard"
	logruslogger "songfinder-bot/infrastructure/logger/logrus"
	"songfinder-bot/infrastructure/speech/google"
	"songfinder-bot/pkg/config"
	"songfinder-bot/pkg/featureflags"
	"songfinder-bot/pkg/ratelimit"
)

const (
	shutdownTimeout = 30 * time.Second
	limiterIdleTTL  = 10 * time.Minute
)

// defaultFlags apply when no FEATURE_* variable overrides them
var defaultFlags = map[featureflags.FeatureFlag]bool{
	featureflags.StrictRetry:      false,
	featureflags.VoiceEnabled:     true,
	featureflags.VoiceReplies:     false,
	featureflags.HTTPAPIEnabled:   true,
	featureflags.RateLimitEnabled: true,
	featureflags.CacheEnabled:     true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogger(logruslogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flags := featureflags.NewEnvManagerWithDefaults("FEATURE_", defaultFlags)
	logger.Info("Starting Song Finder bot", map[string]interface{}{
		"cache_type": cfg.Cache.Type,
		"workers":    cfg.Worker.Count,
		"flags":      flags.GetAllFlags(),
	})
	if !cfg.HasGeniusKey() {
		logger.Warn("GENIUS_API_KEY is not set, every search will fail", nil)
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	// Cache
	var cache interfaces.Cache
	pingers := map[string]apihandlers.Pinger{}
	if flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		cache = buildCache(cfg, logger)
		if c, ok := cache.(io.Closer); ok {
			closers = append(closers, c)
		}
		if p, ok := cache.(apihandlers.Pinger); ok {
			pingers["cache"] = p
		}
	}

	// Search
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: stdhttp.NewLoggingHTTPClient(cfg.Search.Timeout, logger),
		Logger:     logger,
	}
	searchService := search.NewLyricsSearchService(deps, search.Config{
		BaseURL:  cfg.Genius.BaseURL,
		APIKey:   cfg.Genius.APIKey,
		PerPage:  cfg.Genius.PerPage,
		Timeout:  cfg.Search.Timeout,
		CacheTTL: cfg.Search.CacheTTL,
	})
	songFinder := finder.NewFinder(searchService, finder.WithLogger(logger))

	// Voice
	var transcriber interfaces.Transcriber
	if flags.IsEnabled(ctx, featureflags.VoiceEnabled) {
		recognizer, err := google.NewRecognizer(ctx, cfg.Speech.LanguageCode)
		if err != nil {
			logger.Warn("Speech recognition unavailable, voice search disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			transcriber = recognizer
			closers = append(closers, recognizer)
		}
	}
	voiceService := voice.NewVoiceService(transcriber, logger).WithTimeout(cfg.Speech.Timeout)

	var synthesizer interfaces.SpeechSynthesizer
	if flags.IsEnabled(ctx, featureflags.VoiceReplies) {
		synth, err := google.NewSynthesizer(ctx, cfg.Speech.LanguageCode, cfg.Speech.VoiceName)
		if err != nil {
			logger.Warn("Speech synthesis unavailable, voice replies disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			synthesizer = synth
			closers = append(closers, synth)
		}
	}

	// Rate limiting
	var chatLimiter, apiLimiter *ratelimit.KeyedLimiter
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		chatLimiter = ratelimit.NewPerMinute(cfg.RateLimit.ChatPerMinute, cfg.RateLimit.ChatBurst, limiterIdleTTL)
		apiLimiter = ratelimit.NewPerMinute(cfg.RateLimit.APIPerMinute, cfg.RateLimit.APIPerMinute, limiterIdleTTL)
		go chatLimiter.RunPruner(time.Minute, ctx.Done())
		go apiLimiter.RunPruner(time.Minute, ctx.Done())
	}

	// Chat
	pool := workers.NewChatPool(workers.WorkerConfig{
		MaxWorkers: cfg.Worker.Count,
		QueueSize:  cfg.Worker.QueueSize,
	}, logger)
	if err := pool.Start(); err != nil {
		log.Fatalf("Failed to start chat workers: %v", err)
	}

	bot, err := telegram.NewClient(cfg.Telegram.BotToken, logger)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}
	chatHandler := chathandlers.NewHandler(chathandlers.Config{
		Finder:      songFinder,
		Messenger:   bot,
		Downloader:  bot,
		Voice:       voiceService,
		Synthesizer: synthesizer,
		Limiter:     chatLimiter,
		Flags:       flags,
		Logger:      logger,
	})

	// HTTP API
	var srv *http.Server
	if flags.IsEnabled(ctx, featureflags.HTTPAPIEnabled) {
		humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
			Logger:  logger,
			Limiter: apiLimiter,
			Flags:   flags,
		})
		apihandlers.NewSearchHandler(songFinder).RegisterRoutes(humaAPI)
		apihandlers.NewHealthHandler(pingers).RegisterRoutes(humaAPI)

		srv = &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2*cfg.Search.Timeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("HTTP server starting", map[string]interface{}{
				"address": srv.Addr,
			})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", map[string]interface{}{
					"error": err.Error(),
				})
				stop()
			}
		}()
	}

	// Run blocks until a signal cancels ctx
	bot.Run(ctx, chatHandler, pool)

	logger.Info("Shutting down...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server forced to shutdown", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Warn("Chat workers did not drain in time", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Bot stopped", nil)
}

// buildCache selects the configured backend, falling back to memory when it cannot be reached
func buildCache(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return sqliteCache
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache()
	}
}

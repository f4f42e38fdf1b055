package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/config"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/effects"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/fileops"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/handler"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/llm"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/notify"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/pipeline"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/render"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/render/ffmpegcli"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/store"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/transcribe"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/version"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

func main() {
	// Initialize logger
	isDev := os.Getenv("ENV") != "production"
	logger.Init(isDev)
	defer logger.Sync()

	version.PrintBanner(nil)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	logger.Infof("📁 Loading config: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("❌ Config error: %v", err)
	}

	// Ensure required directories exist
	folders := config.Folders()
	for _, dir := range []string{folders.Uploads, folders.Processed} {
		if err := fileops.EnsureDir(dir); err != nil {
			logger.Fatalf("❌ Directory setup error: %v", err)
		}
	}

	// Wire the pipeline
	notifier := notify.New(cfg.Notify)
	if notifier != nil {
		logger.Infof("🔔 Notifications: enabled (key=%s)", cfg.Notify.Key)
	} else {
		logger.Info("🔔 Notifications: disabled")
	}

	engine := ffmpegcli.New(cfg.Render)
	sounds := effects.NewSoundLibrary(cfg.Render.SFXDir)
	compositor := render.New(engine, sounds)
	transcriber := transcribe.NewWhisper(cfg.Whisper)
	llmFactory := llm.NewFactory(cfg.LLM)

	jobStore := store.New()
	executor := pipeline.NewExecutor(
		jobStore, engine, transcriber, llmFactory, compositor,
		sounds, notifier, folders.Processed,
	)
	orch := pipeline.NewOrchestrator(jobStore, executor, cfg.Pipeline.MaxWorkers)

	// Initialize HTTP server
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.MaxMultipartMemory = 64 << 20

	h := handler.New(jobStore, orch, sounds, folders.Uploads)
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Minute, // uploads can be large
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("❌ Server error: %v", err)
		}
	}()

	// Print startup info
	logger.Info("")
	logger.Infof("📂 Data folders (mount these in Docker):")
	logger.Infof("   %s  → Uploaded videos", folders.Uploads)
	logger.Infof("   %s → Per-job artifacts and renders", folders.Processed)
	logger.Info("")
	logger.Infof("🎤 Whisper: %s (model: %s)", cfg.Whisper.Provider, cfg.Whisper.Model)
	logger.Infof("🤖 LLM default provider: %s", cfg.LLM.Provider)
	if cfg.LLM.RateLimitRPM > 0 {
		logger.Infof("🚦 Rate limit: %d RPM", cfg.LLM.RateLimitRPM)
	}
	logger.Infof("👷 Stage workers: max %d", cfg.Pipeline.MaxWorkers)
	logger.Info("")
	logger.Infof("🌐 API server: http://localhost:%d", cfg.Server.Port)
	logger.Infof("   POST /api/v1/videos             - upload and transcribe")
	logger.Infof("   POST /api/v1/videos/:id/script  - AI script revision")
	logger.Infof("   POST /api/v1/videos/:id/render  - final video render")
	logger.Infof("   GET  /api/v1/videos/:id/status  - poll job status")
	logger.Info("")
	logger.Info("────────────────────────────────────────────────────────────────")
	logger.Info("✅  Ready! Waiting for uploads...")
	logger.Info("────────────────────────────────────────────────────────────────")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("")
	logger.Info("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("❌ Shutdown error: %v", err)
	}

	logger.Info("👋 Goodbye!")
}

// requestLogger returns a gin middleware for logging HTTP requests
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		if path != "/api/v1/health" || status >= 400 {
			latency := time.Since(start)
			logger.Debugf("HTTP %s %s → %d (%v)", c.Request.Method, path, status, latency)
		}
	}
}

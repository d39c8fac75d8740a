package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shanehull/trendscan/internal/ai"
	"github.com/shanehull/trendscan/internal/config"
	"github.com/shanehull/trendscan/internal/logger"
	"github.com/shanehull/trendscan/internal/session"
	"github.com/shanehull/trendscan/internal/web"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New("error").Fatalw("failed to load configuration", "error", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	csrfKey := []byte(cfg.CSRFKey)
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			log.Fatalw("failed to generate csrf key", "error", err)
		}
		log.Warnw("CSRF_KEY is not set; using an ephemeral key, forms break on restart")
	}

	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.GeminiBaseURL,
	})
	analyzer := ai.NewAnalyzer(gemini, log)
	sessions := session.NewStore()

	srv, err := web.NewServer(analyzer, sessions, log, web.Options{
		AnalysisTimeout: cfg.AnalysisTimeout,
		CSRFKey:         csrfKey,
		CSRFSecure:      cfg.CSRFSecure,
	})
	if err != nil {
		log.Fatalw("failed to build server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, cfg.SessionMaxIdle, log)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Infow("server starting", "address", cfg.ServerAddress, "model", gemini.Model())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
	srv.Wait()
}

func sweepSessions(ctx context.Context, store *session.Store, maxIdle time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(maxIdle); n > 0 {
				log.Debugw("swept idle sessions", "removed", n, "remaining", store.Len())
			}
		}
	}
}

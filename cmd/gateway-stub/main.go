// Command gateway-stub runs the in-memory reference gateway with demo
// seed data. It exists for local development of the terminal client
// and for integration testing against a real HTTP surface.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-client/internal/config"
	"github.com/quizdeck/quizdeck-client/internal/logger"
	"github.com/quizdeck/quizdeck-client/internal/stubgw"
	"github.com/quizdeck/quizdeck-client/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.GatewayPort).
		Str("mode", cfg.GinMode).
		Msg("Starting QuizDeck reference gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Build Gateway ─────────────────────────────────────────────────
	gw := stubgw.New(cfg, log)
	examID := gw.Seed()
	log.Info().
		Str("exam_id", examID).
		Str("admin", "admin@quizdeck.local / admin123").
		Str("user", "demo@quizdeck.local / demo123").
		Msg("Seeded demo data")

	srv := &http.Server{
		Addr:    ":" + cfg.GatewayPort,
		Handler: gw.Router(),
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Gateway listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Gateway error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Gateway shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

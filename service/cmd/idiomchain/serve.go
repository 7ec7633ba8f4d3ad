package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jason-s-yu/idiomchain/service/internal/cache"
	"github.com/jason-s-yu/idiomchain/service/internal/database"
	"github.com/jason-s-yu/idiomchain/service/internal/handlers"
	"github.com/jason-s-yu/idiomchain/service/internal/llm"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lx, err := loadLexicon()
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}
	log.Infof("Loaded %d phrases from %s", lx.Len(), cfg.Storage.CorpusPath)

	store, err := database.Open(ctx, cfg.Storage.DatabaseURL, cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open battle store: %w", err)
	}
	defer store.Close()

	if cfg.Storage.RedisURL != "" {
		if err := cache.ConnectRedis(ctx, cfg.Storage.RedisURL); err != nil {
			log.Warnf("Redis unavailable, turn publishing disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}

	srv := &handlers.Server{
		Lexicon:              lx,
		Source:               llm.NewClient(cfg.Game.LLMTimeout),
		Store:                store,
		Rules:                cfg.Rules(),
		BenchmarkConcurrency: cfg.Benchmark.MaxConcurrency,
		JWTSecret:            cfg.Server.JWTSecret,
	}
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", cfg.Addr())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/uidraft/uidraft/internal/api"
	"github.com/uidraft/uidraft/internal/config"
	"github.com/uidraft/uidraft/internal/engine"
	"github.com/uidraft/uidraft/internal/export"
	"github.com/uidraft/uidraft/internal/session"
	"github.com/uidraft/uidraft/internal/store"
	"github.com/uidraft/uidraft/internal/web"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the uidraft server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg)

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	s, err := store.New(db)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	var modelClient engine.ModelClient
	var extractor engine.ReferenceExtractor
	if cfg.UseStubs() {
		slog.Warn("no API key configured, using stub model client", "provider", cfg.LLMProvider)
		modelClient = &engine.StubModelClient{}
		extractor = &engine.StubExtractor{}
	} else {
		switch cfg.LLMProvider {
		case "openai":
			modelClient = engine.NewOpenAIClient(cfg.OpenAIKey,
				engine.WithBaseURL(cfg.OpenAIBaseURL),
				engine.WithModel(cfg.OpenAIModel),
				engine.WithTimeout(cfg.HTTPTimeout),
			)
		default:
			modelClient = engine.NewGeminiClient(cfg.GeminiKey,
				engine.WithGeminiModel(cfg.GeminiModel),
				engine.WithGeminiSuggestModel(cfg.GeminiSuggestModel),
				engine.WithGeminiTimeout(cfg.HTTPTimeout),
			)
		}
		extractor = engine.NewHTTPExtractor(engine.WithMaxReferenceChars(cfg.ReferenceMaxChars))
	}

	github := export.NewClient()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := session.New(ctx, s, modelClient,
		session.WithExtractor(extractor),
		session.WithExporter(github),
	)

	mux := http.NewServeMux()
	srv := api.New(orch, github, s)
	mux.Handle("/api/", srv.Handler())
	web.NewPlaygroundHandler(web.DefaultPlaygroundConfig()).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("uidraft server listening",
			"addr", "http://localhost:"+cfg.Port,
			"db", cfg.DBPath,
			"provider", cfg.LLMProvider,
			"stubs", cfg.UseStubs(),
		)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

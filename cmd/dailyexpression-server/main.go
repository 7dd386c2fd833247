package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/dailyexpression/internal/bootstrap"
	"github.com/at-ishikawa/dailyexpression/internal/config"
	"github.com/at-ishikawa/dailyexpression/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "dailyexpression-server",
		Short:         "Daily expression HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	deps, err := app.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("app.Build() > %w", err)
	}

	mux, err := newMux(deps)
	if err != nil {
		_ = deps.Close()
		return err
	}

	return app.Serve(ctx, &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	})
}

func newMux(deps *bootstrap.Dependencies) (*http.ServeMux, error) {
	quizSettings, err := deps.Config.Quiz.QuizSettings()
	if err != nil {
		return nil, fmt.Errorf("QuizSettings() > %w", err)
	}
	handler, err := server.NewHandler(deps.Catalog, deps.Engine, deps.Tracker,
		server.WithQuizSettings(quizSettings),
		server.WithChallengeSize(deps.Config.Daily.ChallengeSize),
		server.WithSessionTTL(deps.Config.Server.QuizSessionTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("server.NewHandler() > %w", err)
	}
	path, h := server.NewServiceHandler(handler)

	mux := http.NewServeMux()
	mux.Handle(path, h)
	return mux, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

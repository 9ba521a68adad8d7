package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/originality"
	"github.com/w-h-a/originality/cmd/internal/providers"
	"github.com/w-h-a/originality/cmd/server/handler/discovery"
	"github.com/w-h-a/originality/server"
	httpserver "github.com/w-h-a/originality/server/http"
)

var (
	cfg struct {
		providers.Config `embed:""`

		// Server config
		Address    string        `help:"Address to listen on" default:":8080" env:"ADDRESS"`
		RunTimeout time.Duration `help:"Upper bound on a single run" default:"10m" env:"RUN_TIMEOUT"`
	}
)

func main() {
	_ = godotenv.Load()

	_ = kong.Parse(&cfg)

	opts, err := cfg.Config.Options()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	o := originality.New(opts...)

	h := discovery.NewHandler(o)

	srv := httpserver.NewServer(
		server.WithAddress(cfg.Address),
		httpserver.WithMiddleware(timeout(cfg.RunTimeout)),
	)

	srv.Handle(http.MethodPost, "/api/v1/discover", http.HandlerFunc(h.Discover))
	srv.Handle(http.MethodPost, "/api/v1/collect", http.HandlerFunc(h.Collect))
	srv.Handle(http.MethodPost, "/api/v1/comments", http.HandlerFunc(h.Comments))
	srv.Handle(http.MethodGet, "/healthz", http.HandlerFunc(h.Health))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("❌ server stopped: %v", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		if err := srv.Stop(context.Background()); err != nil {
			log.Fatalf("❌ failed to stop server: %v", err)
		}
	}
}

func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

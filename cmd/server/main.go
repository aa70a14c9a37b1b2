// cmd/server/main.go
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lyricloop/server/internal/config"
	"github.com/lyricloop/server/internal/handlers"
	"github.com/lyricloop/server/internal/lyrics"
	"github.com/lyricloop/server/internal/room"
	"github.com/lyricloop/server/internal/words"
)

func main() {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "lyricloop-server",
		Short:         "Room server for the lyricloop party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.BindFlags(cmd, cfg)

	cobra.CheckErr(cmd.Execute())
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logrus.New()
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	store := room.NewMemoryStore(words.Default(), logger)

	var cache lyrics.Cache
	if cfg.RedisAddr != "" {
		rc, err := lyrics.NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, falling back to in-memory lyrics cache")
		} else {
			logger.WithField("addr", cfg.RedisAddr).Info("using redis lyrics cache")
			cache = rc
		}
	}
	if cache == nil {
		cache = lyrics.NewMemoryCache(cfg.CacheTTL, cfg.CacheEntries)
	}

	verifier := lyrics.NewVerifier(lyrics.NewClient(cfg.LyricsBaseURL), cache, cfg.LyricsTimeout, logger)
	api := handlers.NewAPIServer(store, verifier, cfg.PublicURL, logger)

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go room.Sweep(sweepCtx, store, cfg.SweepInterval, cfg.RoomIdleTimeout, logger)

	srv := &http.Server{
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	l, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	logger.WithField("addr", l.Addr().String()).Info("listening")

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-sigs:
		logger.WithField("signal", sig.String()).Info("terminating")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

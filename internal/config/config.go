// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every runtime knob. Flags and LYRICLOOP_* environment
// variables map onto the same fields; flags win when both are set.
type Config struct {
	Bind      string
	Port      int
	PublicURL string

	LyricsBaseURL string
	LyricsTimeout time.Duration

	CacheTTL     time.Duration
	CacheEntries int
	RedisAddr    string
	RedisDB      int

	RoomIdleTimeout time.Duration
	SweepInterval   time.Duration

	Verbose bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.RoomIdleTimeout <= 0 || c.SweepInterval <= 0 {
		return fmt.Errorf("room-idle-timeout and sweep-interval must be positive")
	}
	if c.LyricsTimeout <= 0 {
		return fmt.Errorf("lyrics-timeout must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// BindFlags registers the flag set on cmd and wires each flag to its
// LYRICLOOP_* environment variable through viper.
func BindFlags(cmd *cobra.Command, cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("LYRICLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := cmd.Flags()

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: LYRICLOOP_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: LYRICLOOP_PORT)")
	fs.StringVar(&cfg.PublicURL, "public-url", "http://localhost:8080", "externally reachable base URL, used in QR join links (env: LYRICLOOP_PUBLIC_URL)")

	fs.StringVar(&cfg.LyricsBaseURL, "lyrics-url", "https://api.lyrics.ovh", "base URL of the lyrics lookup API (env: LYRICLOOP_LYRICS_URL)")
	fs.DurationVar(&cfg.LyricsTimeout, "lyrics-timeout", 1750*time.Millisecond, "per-variant lyrics lookup timeout (env: LYRICLOOP_LYRICS_TIMEOUT)")

	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", 10*time.Minute, "lyrics cache entry lifetime (env: LYRICLOOP_CACHE_TTL)")
	fs.IntVar(&cfg.CacheEntries, "cache-entries", 256, "max in-memory lyrics cache entries (env: LYRICLOOP_CACHE_ENTRIES)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "redis address for a shared lyrics cache; empty uses in-process memory (env: LYRICLOOP_REDIS_ADDR)")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "redis database index (env: LYRICLOOP_REDIS_DB)")

	fs.DurationVar(&cfg.RoomIdleTimeout, "room-idle-timeout", time.Hour, "time before idle rooms are evicted (env: LYRICLOOP_ROOM_IDLE_TIMEOUT)")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", 5*time.Minute, "how often to sweep for idle rooms (env: LYRICLOOP_SWEEP_INTERVAL)")

	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging (env: LYRICLOOP_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// internal/lyrics/verifier.go
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Reasons carried on a non-matching Result.
const (
	ReasonMissingInput   = "missing-input"
	ReasonLyricsNotFound = "lyrics-not-found"
	ReasonWordNotFound   = "word-not-found"
	ReasonNetworkError   = "network-error"
)

// Result is the outcome of one verification. Reason is empty when Matched.
type Result struct {
	Matched bool   `json:"matched"`
	Reason  string `json:"reason,omitempty"`
}

// DefaultLookupTimeout bounds each individual variant lookup.
const DefaultLookupTimeout = 1750 * time.Millisecond

// Verifier answers whether a song's lyrics contain a target word. Lookups
// fan out across artist-name variants in parallel; the first non-empty
// result wins and the losing attempts are cancelled. Identical concurrent
// verifications collapse onto one flight, and successful texts are cached.
type Verifier struct {
	fetcher Fetcher
	cache   Cache
	log     *logrus.Logger
	timeout time.Duration

	flights singleflight.Group
}

// NewVerifier wires a Verifier. cache may be nil to disable caching;
// timeout <= 0 uses DefaultLookupTimeout.
func NewVerifier(fetcher Fetcher, cache Cache, timeout time.Duration, log *logrus.Logger) *Verifier {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if log == nil {
		log = logrus.New()
	}
	return &Verifier{fetcher: fetcher, cache: cache, log: log, timeout: timeout}
}

// Verify reports whether the lyrics of (song, artist) contain word. It
// never returns an error: every failure mode folds into a Result with an
// explanatory reason.
func (v *Verifier) Verify(ctx context.Context, song, artist, word string) Result {
	song = strings.TrimSpace(song)
	artist = strings.TrimSpace(artist)
	if song == "" || artist == "" {
		return Result{Reason: ReasonMissingInput}
	}

	text, err := v.lookup(ctx, artist, song)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Result{Reason: ReasonLyricsNotFound}
		}
		v.log.WithError(err).WithFields(logrus.Fields{"artist": artist, "song": song}).
			Warn("lyrics lookup failed")
		return Result{Reason: ReasonNetworkError}
	}

	if !ContainsWord(text, word) {
		return Result{Reason: ReasonWordNotFound}
	}
	return Result{Matched: true}
}

// lookup resolves lyrics through the cache and singleflight group.
func (v *Verifier) lookup(ctx context.Context, artist, song string) (string, error) {
	key := CacheKey(artist, song)
	if v.cache != nil {
		if text, ok := v.cache.Get(ctx, key); ok {
			return text, nil
		}
	}

	shared, err, _ := v.flights.Do(key, func() (interface{}, error) {
		text, err := v.fetchRace(ctx, artist, song)
		if err != nil {
			return nil, err
		}
		if v.cache != nil {
			v.cache.Set(ctx, key, text)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return shared.(string), nil
}

// fetchRace issues one lookup per artist variant in parallel, each bounded
// by its own timeout, and returns the first non-empty result. A variant
// failing is swallowed as "no result for that variant"; only when every
// variant fails does the race report an error, distinguishing definitive
// not-found answers from outright transport failure.
func (v *Verifier) fetchRace(ctx context.Context, artist, song string) (string, error) {
	variants := ArtistVariants(artist)
	if len(variants) == 0 {
		return "", ErrNotFound
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // releases the losing attempts

	type attempt struct {
		text string
		err  error
	}
	results := make(chan attempt, len(variants))
	for _, name := range variants {
		go func(name string) {
			callCtx, callCancel := context.WithTimeout(ctx, v.timeout)
			defer callCancel()
			text, err := v.fetcher.Lyrics(callCtx, name, song)
			results <- attempt{text: text, err: err}
		}(name)
	}

	notFound := 0
	var lastErr error
	for range variants {
		r := <-results
		if r.err == nil && strings.TrimSpace(r.text) != "" {
			return r.text, nil
		}
		if errors.Is(r.err, ErrNotFound) || r.err == nil {
			notFound++
		} else {
			lastErr = r.err
		}
	}
	if notFound > 0 {
		return "", ErrNotFound
	}
	return "", fmt.Errorf("all variant lookups failed: %w", lastErr)
}

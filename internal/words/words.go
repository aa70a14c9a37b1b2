// internal/words/words.go
package words

import (
	_ "embed"
	"math/rand"
	"strings"
	"sync"
)

//go:embed words.txt
var defaultList string

// Pool is a fixed set of candidate target words. Draws are uniform and
// without replacement within a single game.
type Pool struct {
	mu    sync.Mutex
	words []string
	rng   *rand.Rand
}

// NewPool builds a pool from the given words. Blank entries are dropped and
// words are lowercased. A nil rng falls back to the shared global source.
func NewPool(list []string, rng *rand.Rand) *Pool {
	p := &Pool{rng: rng}
	seen := map[string]bool{}
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		p.words = append(p.words, w)
	}
	return p
}

// Default returns a pool backed by the embedded word list.
func Default() *Pool {
	return NewPool(strings.Split(defaultList, "\n"), nil)
}

// Len reports the number of distinct words in the pool.
func (p *Pool) Len() int {
	return len(p.words)
}

func (p *Pool) shuffle(s []string) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if p.rng != nil {
		p.rng.Shuffle(len(s), swap)
	} else {
		rand.Shuffle(len(s), swap)
	}
}

// Draw returns n unique words sampled uniformly from the pool. When the pool
// holds fewer than n words, every word is returned (shuffled).
func (p *Pool) Draw(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	drawn := append([]string(nil), p.words...)
	p.shuffle(drawn)
	if n < len(drawn) {
		drawn = drawn[:n]
	}
	return drawn
}

// Replacement picks a pool word not present in exclude. Returns ok=false
// when every pool word is excluded.
func (p *Pool) Replacement(exclude map[string]bool) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	eligible := make([]string, 0, len(p.words))
	for _, w := range p.words {
		if !exclude[w] {
			eligible = append(eligible, w)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	p.shuffle(eligible)
	return eligible[0], true
}

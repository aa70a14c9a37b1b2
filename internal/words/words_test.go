// internal/words/words_test.go
package words

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolNormalizes(t *testing.T) {
	p := NewPool([]string{" Love ", "love", "", "FIRE", "rain"}, nil)
	assert.Equal(t, 3, p.Len(), "blank and duplicate entries are dropped")
}

func TestDrawIsUniqueAndBounded(t *testing.T) {
	p := NewPool([]string{"a", "b", "c", "d", "e", "f"}, rand.New(rand.NewSource(1)))

	drawn := p.Draw(4)
	require.Len(t, drawn, 4)
	seen := map[string]bool{}
	for _, w := range drawn {
		assert.False(t, seen[w], "duplicate draw %q", w)
		seen[w] = true
	}

	all := p.Draw(100)
	assert.Len(t, all, 6, "asking for more than the pool holds returns everything once")
}

func TestReplacementHonorsExclusions(t *testing.T) {
	p := NewPool([]string{"a", "b", "c"}, rand.New(rand.NewSource(2)))

	w, ok := p.Replacement(map[string]bool{"a": true, "b": true})
	require.True(t, ok)
	assert.Equal(t, "c", w)

	_, ok = p.Replacement(map[string]bool{"a": true, "b": true, "c": true})
	assert.False(t, ok, "a fully excluded pool yields nothing")
}

func TestDefaultPoolIsLargeEnough(t *testing.T) {
	p := Default()
	assert.GreaterOrEqual(t, p.Len(), 40, "embedded list must comfortably cover a 10-round game with reshuffles")
}

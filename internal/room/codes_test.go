// internal/room/codes_test.go
package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := NewCode()
		require.Len(t, code, codeLength)
		for _, c := range code {
			assert.Contains(t, codeAlphabet, string(c), "code %q uses a character outside the unambiguous alphabet", code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190, "codes should essentially never collide in a small sample")
}

func TestNormalizeCode(t *testing.T) {
	code, err := NormalizeCode("  abc123 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", code)

	for _, bad := range []string{"", "With Space", strings.Repeat("A", 13), "abc-12"} {
		_, err := NormalizeCode(bad)
		assert.ErrorIs(t, err, ErrBadRoomCode, "input %q", bad)
	}
}

package photo_test

import (
	"testing"

	"orderflow/internal/adapters/out/photo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestMatcher_Match(t *testing.T) {
	matcher := photo.NewDigestMatcher()

	t.Run("equal digests match", func(t *testing.T) {
		ok, err := matcher.Match("a3f91c0d", "a3f91c0d")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("case and whitespace are ignored", func(t *testing.T) {
		ok, err := matcher.Match("A3F91C0D", "  a3f91c0d\n")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("different digests do not match", func(t *testing.T) {
		ok, err := matcher.Match("a3f91c0d", "deadbeef")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

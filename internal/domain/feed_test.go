package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentFits(t *testing.T) {
	assert.True(t, ContentFits(""))
	assert.True(t, ContentFits(strings.Repeat("a", MaxRootPostLength)))
	assert.False(t, ContentFits(strings.Repeat("a", MaxRootPostLength+1)))

	t.Run("counts runes not bytes", func(t *testing.T) {
		// 287 multibyte runes, well over 287 bytes
		s := strings.Repeat("ü", MaxRootPostLength)
		assert.Greater(t, len(s), MaxRootPostLength)
		assert.True(t, ContentFits(s))
		assert.False(t, ContentFits(s+"ü"))
	})
}

func TestSplitIntoTrails(t *testing.T) {
	t.Run("fitting content returns no trails", func(t *testing.T) {
		root, trails := SplitIntoTrails("short post")
		assert.Equal(t, "short post", root)
		assert.Nil(t, trails)
	})

	t.Run("exactly at limit returns no trails", func(t *testing.T) {
		content := strings.Repeat("a", MaxRootPostLength)
		root, trails := SplitIntoTrails(content)
		assert.Equal(t, content, root)
		assert.Nil(t, trails)
	})

	t.Run("one rune over produces one trail", func(t *testing.T) {
		content := strings.Repeat("a", MaxRootPostLength) + "b"
		root, trails := SplitIntoTrails(content)
		assert.Equal(t, strings.Repeat("a", MaxRootPostLength), root)
		require.Len(t, trails, 1)
		assert.Equal(t, "b", trails[0])
	})

	t.Run("chunks reassemble in order", func(t *testing.T) {
		content := strings.Repeat("x", MaxRootPostLength*3+10)
		root, trails := SplitIntoTrails(content)
		require.Len(t, trails, 3)
		assert.Equal(t, content, root+strings.Join(trails, ""))
		for i, chunk := range trails {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), MaxRootPostLength, "trail %d", i)
		}
	})

	t.Run("multibyte content splits on rune boundaries", func(t *testing.T) {
		content := strings.Repeat("ü", MaxRootPostLength*2+5)
		root, trails := SplitIntoTrails(content)
		require.Len(t, trails, 2)
		assert.Equal(t, content, root+strings.Join(trails, ""))
		assert.True(t, utf8.ValidString(root))
		assert.Equal(t, MaxRootPostLength, utf8.RuneCountInString(root))
		for _, chunk := range trails {
			assert.True(t, utf8.ValidString(chunk))
		}
	})
}

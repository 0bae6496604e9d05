package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID { return TestID{Path: path} }

func TestRegexFilters(t *testing.T) {
	t.Run("no patterns matches everything", func(t *testing.T) {
		var f RegexFilters
		assert.True(t, f.AsFilter(id("index", "returns envelope")))
	})

	t.Run("must match", func(t *testing.T) {
		var f RegexFilters
		require.NoError(t, f.MustMatch.Set("^stock movement/creates"))
		assert.True(t, f.AsFilter(id("stock movement")), "parent group must be entered")
		assert.True(t, f.AsFilter(id("stock movement", "creates a stock movement")))
		assert.False(t, f.AsFilter(id("stock movement", "rejects invalid item")))
		assert.False(t, f.AsFilter(id("index")))
	})

	t.Run("must not match wins", func(t *testing.T) {
		var f RegexFilters
		require.NoError(t, f.MustMatch.Set("index"))
		require.NoError(t, f.MustNotMatch.Set("index/metadata"))
		assert.True(t, f.AsFilter(id("index")), "a skip pattern only applies at its full depth")
		assert.True(t, f.AsFilter(id("index", "returns envelope")))
		assert.False(t, f.AsFilter(id("index", "envelope metadata")))
	})

	t.Run("leading slash matches any group", func(t *testing.T) {
		var f RegexFilters
		require.NoError(t, f.MustMatch.Set("/creates"))
		assert.True(t, f.AsFilter(id("stock movement")))
		assert.True(t, f.AsFilter(id("stock movement", "creates a stock movement")))
		assert.False(t, f.AsFilter(id("index", "returns envelope")))
	})

	t.Run("slash inside brackets does not split", func(t *testing.T) {
		var f RegexFilters
		require.NoError(t, f.MustMatch.Set("^a[/]b$"))
		assert.True(t, f.AsFilter(id("a/b")))
		assert.False(t, f.AsFilter(id("a", "b")))
	})

	t.Run("invalid regex", func(t *testing.T) {
		var l RegexList
		assert.Error(t, l.Set("("))
		assert.Error(t, l.Set("ok/("))
		assert.False(t, l.IsDefined())
	})
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("a"))
	require.NoError(t, f.MustNotMatch.Set("b"))
	PrintFilterDescription(&buf, f)
	assert.Contains(t, buf.String(), `skip any not matching "a"`)
	assert.Contains(t, buf.String(), `skip any matching "b"`)
	assert.Equal(t, []string{"a"}, f.MustMatch.Patterns())
}

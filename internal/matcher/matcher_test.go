package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineECMAScript, false},
		{"ecmascript", EngineECMAScript, false},
		{" Perl ", EnginePerl, false},
		{"RE2", EngineRE2, false},
		{"pcre", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCompilerMatchesAnywhere(t *testing.T) {
	for _, engine := range []Engine{EngineECMAScript, EnginePerl, EngineRE2} {
		t.Run(string(engine), func(t *testing.T) {
			c, err := NewCompiler(Config{Engine: engine}, zap.NewNop())
			require.NoError(t, err)

			m, err := c.Compile("an")
			require.NoError(t, err)

			ok, err := m.MatchString("banana")
			require.NoError(t, err)
			assert.True(t, ok, "unanchored match inside the string")

			ok, err = m.MatchString("apple")
			require.NoError(t, err)
			assert.False(t, ok)

			anchored, err := c.Compile("^a")
			require.NoError(t, err)
			ok, _ = anchored.MatchString("banana")
			assert.False(t, ok)
			ok, _ = anchored.MatchString("avocado")
			assert.True(t, ok)
		})
	}
}

func TestCompilerDialects(t *testing.T) {
	t.Run("lookahead accepted by regexp2", func(t *testing.T) {
		c, err := NewCompiler(Config{Engine: EngineECMAScript}, zap.NewNop())
		require.NoError(t, err)

		m, err := c.Compile(`^a(?=p)`)
		require.NoError(t, err)
		ok, err := m.MatchString("apple")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = m.MatchString("avocado")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backreference rejected by re2", func(t *testing.T) {
		c, err := NewCompiler(Config{Engine: EngineRE2}, zap.NewNop())
		require.NoError(t, err)

		_, err = c.Compile(`(a)\1`)
		assert.Error(t, err)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		c, err := NewCompiler(Config{}, zap.NewNop())
		require.NoError(t, err)

		_, err = c.Compile("(unclosed")
		assert.Error(t, err)
		assert.Equal(t, EngineECMAScript, c.Engine())
	})
}

func TestCompilerCache(t *testing.T) {
	c, err := NewCompiler(Config{Engine: EngineECMAScript, CacheSize: 2}, zap.NewNop())
	require.NoError(t, err)

	first, err := c.Compile("^a")
	require.NoError(t, err)
	second, err := c.Compile("^a")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.Compile("[")
	require.Error(t, err)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 1, stats.Size, "failed patterns are not cached")

	_, _ = c.Compile("b")
	_, _ = c.Compile("c")
	assert.Equal(t, 2, c.Stats().Size)
}

func TestCompilerWithoutCache(t *testing.T) {
	c, err := NewCompiler(Config{Engine: EngineRE2}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Compile("x")
	require.NoError(t, err)
	_, err = c.Compile("x")
	require.NoError(t, err)

	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestNewCompilerRejectsUnknownEngine(t *testing.T) {
	_, err := NewCompiler(Config{Engine: "awk"}, zap.NewNop())
	assert.Error(t, err)
}

package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Engine selects the regular expression dialect
type Engine string

const (
	// EngineECMAScript follows the JavaScript RegExp dialect the datasets are produced with
	EngineECMAScript Engine = "ecmascript"
	// EnginePerl is the regexp2 default (.NET / Perl style) dialect
	EnginePerl Engine = "perl"
	// EngineRE2 is the standard library regexp package
	EngineRE2 Engine = "re2"
)

// ParseEngine converts a configuration value into an Engine
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(name))); e {
	case EngineECMAScript, EnginePerl, EngineRE2:
		return e, nil
	case "":
		return EngineECMAScript, nil
	default:
		return "", fmt.Errorf("unknown regex engine: %s (must be ecmascript, perl, or re2)", name)
	}
}

// Matcher reports whether a pattern matches anywhere within s
type Matcher interface {
	MatchString(s string) (bool, error)
}

// Config contains compiler configuration
type Config struct {
	Engine       Engine
	MatchTimeout time.Duration // regexp2 engines only, 0 = no timeout
	CacheSize    int           // 0 disables caching
}

// CacheStats reports pattern cache usage
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// Compiler compiles patterns with the configured engine and caches the results
type Compiler struct {
	config Config
	cache  *lru.Cache[string, Matcher]
	logger *zap.Logger
	hits   int64
	misses int64
}

// NewCompiler creates a new pattern compiler
func NewCompiler(config Config, logger *zap.Logger) (*Compiler, error) {
	engine, err := ParseEngine(string(config.Engine))
	if err != nil {
		return nil, err
	}
	config.Engine = engine

	c := &Compiler{
		config: config,
		logger: logger,
	}

	if config.CacheSize > 0 {
		cache, err := lru.New[string, Matcher](config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create pattern cache: %w", err)
		}
		c.cache = cache
	}

	logger.Debug("Pattern compiler ready",
		zap.String("engine", string(config.Engine)),
		zap.Duration("match_timeout", config.MatchTimeout),
		zap.Int("cache_size", config.CacheSize))

	return c, nil
}

// Engine returns the dialect patterns are compiled with
func (c *Compiler) Engine() Engine {
	return c.config.Engine
}

// Compile compiles pattern, serving repeated patterns from the cache.
// Patterns that fail to compile are not cached.
func (c *Compiler) Compile(pattern string) (Matcher, error) {
	if c.cache != nil {
		if m, ok := c.cache.Get(pattern); ok {
			c.hits++
			return m, nil
		}
		c.misses++
	}

	m, err := c.compile(pattern)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(pattern, m)
	}
	return m, nil
}

// Stats returns pattern cache statistics
func (c *Compiler) Stats() CacheStats {
	stats := CacheStats{Hits: c.hits, Misses: c.misses}
	if c.cache != nil {
		stats.Size = c.cache.Len()
	}
	return stats
}

func (c *Compiler) compile(pattern string) (Matcher, error) {
	switch c.config.Engine {
	case EngineRE2:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		return re2Matcher{re: re}, nil
	case EnginePerl:
		return c.compileRegexp2(pattern, regexp2.None)
	default:
		return c.compileRegexp2(pattern, regexp2.ECMAScript)
	}
}

func (c *Compiler) compileRegexp2(pattern string, opts regexp2.RegexOptions) (Matcher, error) {
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if c.config.MatchTimeout > 0 {
		re.MatchTimeout = c.config.MatchTimeout
	}
	return re, nil
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m re2Matcher) MatchString(s string) (bool, error) {
	return m.re.MatchString(s), nil
}

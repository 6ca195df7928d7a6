// CLAUDE:SUMMARY Per-goroutine transliteration context with lazy engine build, ASCII fast path and '?' fallback.
package translit

import (
	"fmt"
	"time"
)

// Transliterator converts text to ASCII and never fails.
type Transliterator interface {
	ASCII(text string) string
}

// Option configures a Context.
type Option func(*Context)

// WithFallbackHook is called whenever the engine rejects a string and the
// placeholder rendering is returned instead.
func WithFallbackHook(fn func(text string, err error)) Option {
	return func(c *Context) { c.onFallback = fn }
}

// WithBuildHook is called once with the time taken to build the engine.
func WithBuildHook(fn func(time.Duration)) Option {
	return func(c *Context) { c.onBuild = fn }
}

// Context owns at most one Engine, built on first use. A Context is meant
// for a single goroutine: an importer run, a CLI invocation, or a request
// checked out of a Pool.
type Context struct {
	engine     *Engine
	onFallback func(string, error)
	onBuild    func(time.Duration)
}

// NewContext returns a Context with no engine built yet.
func NewContext(opts ...Option) *Context {
	c := &Context{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Warm builds the engine now so a broken rule table is reported at startup
// rather than on the first request.
func (c *Context) Warm() error {
	if c.engine != nil {
		return nil
	}
	start := time.Now()
	e, err := NewEngine()
	if err != nil {
		return fmt.Errorf("build transliteration engine: %w", err)
	}
	c.engine = e
	if c.onBuild != nil {
		c.onBuild(time.Since(start))
	}
	return nil
}

// ASCII transliterates text. ASCII input is returned unchanged without
// touching the engine. If the engine fails on text, Placeholder(text) is
// returned. ASCII panics if the engine cannot be built at all; call Warm
// first to handle that as an error.
func (c *Context) ASCII(text string) string {
	if isASCII(text) {
		return text
	}
	if err := c.Warm(); err != nil {
		panic(err)
	}
	out, err := c.engine.Transliterate(text)
	if err == nil && !isASCII(out) {
		err = fmt.Errorf("translit: non-ASCII output %q", out)
	}
	if err != nil {
		if c.onFallback != nil {
			c.onFallback(text, err)
		}
		return Placeholder(text)
	}
	return out
}

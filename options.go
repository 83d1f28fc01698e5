package wabbit

import (
	"github.com/hupe1980/wabbit/cache"
	"github.com/hupe1980/wabbit/label"
)

type options struct {
	logger      *Logger
	parser      label.Parser
	cachePath   string
	compression cache.Compression
	strict      bool
}

// Option configures Session behavior.
type Option func(*options)

// WithLogger configures the session logger. If nil is passed, the default
// stderr text logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithParser configures the label parser for the dataset. The default is
// label.SimpleParser for scalar targets.
func WithParser(p label.Parser) Option {
	return func(o *options) {
		if p == nil {
			p = label.SimpleParser{}
		}
		o.parser = p
	}
}

// WithCachePath configures a binary example cache. The first text pass
// writes it; later passes replay it instead of re-parsing text. Empty
// disables caching.
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithCacheCompression configures the compression of the cache record
// stream. The default is no compression; zstd trades CPU for the smallest
// files, lz4 for the fastest replay.
func WithCacheCompression(c cache.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithStrict makes malformed input lines abort the pass instead of being
// skipped with a warning.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

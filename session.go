package wabbit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/wabbit/cache"
	"github.com/hupe1980/wabbit/example"
	"github.com/hupe1980/wabbit/label"
	"github.com/hupe1980/wabbit/stats"
	"github.com/hupe1980/wabbit/textparse"
)

// Handler processes one example per call: typically predict, optionally
// train, and set Prediction/Loss on the example. The example is only valid
// for the duration of the call; it goes back to the pool afterwards.
type Handler func(ec *example.Example) error

// Session drives passes over one dataset. It owns the dataset statistics
// and the label parser; examples flow through the configured Handler.
//
// A Session is single-threaded by design: the statistics context has one
// writer at a time.
type Session struct {
	opts options
	sd   *stats.Stats
	pass int
}

// New creates a Session.
func New(optFns ...Option) *Session {
	opts := options{
		logger: NewLogger(nil),
		parser: label.SimpleParser{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Session{opts: opts, sd: stats.New()}
}

// Stats returns the shared dataset statistics.
func (s *Session) Stats() *stats.Stats { return s.sd }

// Parser returns the label parser the session was configured with.
func (s *Session) Parser() label.Parser { return s.opts.parser }

// Run performs the given number of passes over the text file at path. When
// a cache path is configured, a pre-existing cache is replayed from the
// first pass on; otherwise the first pass parses text and writes the cache
// for the passes after it. A corrupt or unreadable cache demotes the pass
// to text parsing - which rebuilds the cache - with a warning.
func (s *Session) Run(ctx context.Context, path string, passes int, handle Handler) error {
	for i := 0; i < passes; i++ {
		if s.opts.cachePath == "" {
			if err := s.textPass(ctx, path, false, handle); err != nil {
				return err
			}
			continue
		}

		tryCache := i > 0
		if !tryCache {
			_, statErr := os.Stat(s.opts.cachePath)
			tryCache = statErr == nil
		}
		if tryCache {
			err := s.CachePass(ctx, handle)
			if err == nil {
				continue
			}
			if !replayFailed(err) {
				return err
			}
			s.opts.logger.LogCacheFallback(s.pass, err)
		}

		if err := s.textPass(ctx, path, true, handle); err != nil {
			return err
		}
	}
	return nil
}

// replayFailed reports whether a cache pass failed because of the cache
// itself, as opposed to the handler or the context.
func replayFailed(err error) bool {
	return errors.Is(err, label.ErrCacheCorrupt) ||
		errors.Is(err, cache.ErrInvalidHeader) ||
		errors.Is(err, cache.ErrIncompatibleVersion) ||
		errors.Is(err, cache.ErrUnknownParser) ||
		errors.Is(err, cache.ErrUnknownCompression) ||
		errors.Is(err, os.ErrNotExist)
}

func (s *Session) textPass(ctx context.Context, path string, writeCache bool, handle Handler) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if writeCache {
		return s.parsePassCached(ctx, f, handle)
	}
	return s.parsePassPlain(ctx, f, handle)
}

// ParsePass streams examples from r through the handler. When the session
// has a cache path configured, ParsePass also writes the cache as a side
// effect; the cache writer runs concurrently so parsing is not stalled by
// compression.
func (s *Session) ParsePass(ctx context.Context, r io.Reader, handle Handler) error {
	if s.opts.cachePath != "" {
		return s.parsePassCached(ctx, r, handle)
	}
	return s.parsePassPlain(ctx, r, handle)
}

func (s *Session) parsePassPlain(ctx context.Context, r io.Reader, handle Handler) error {
	s.pass++
	before := s.sd.Examples()
	skipped, err := s.parse(ctx, r, handle, func(ec *example.Example) error {
		example.Return(ec, nil)
		return nil
	})
	s.opts.logger.LogPass(s.pass, "text", s.sd.Examples()-before, skipped, err)
	return err
}

func (s *Session) parsePassCached(ctx context.Context, r io.Reader, handle Handler) error {
	s.pass++
	before := s.sd.Examples()

	w, err := cache.Create(s.opts.cachePath, func(o *cache.Options) {
		o.Compression = s.opts.compression
		o.Parser = s.opts.parser
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan *example.Example, 64)

	g.Go(func() error {
		for ec := range ch {
			_, err := w.Append(ec)
			example.Put(ec)
			if err != nil {
				return err
			}
		}
		return nil
	})

	var skipped int
	g.Go(func() error {
		defer close(ch)
		var err error
		skipped, err = s.parse(gctx, r, handle, func(ec *example.Example) error {
			select {
			case ch <- ec:
				return nil
			case <-gctx.Done():
				example.Put(ec)
				return gctx.Err()
			}
		})
		return err
	})

	err = g.Wait()
	cerr := w.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		// A partial cache must not survive; later passes would replay a
		// truncated dataset.
		os.Remove(s.opts.cachePath)
	}

	s.opts.logger.LogPass(s.pass, "text+cache", s.sd.Examples()-before, skipped, err)
	return err
}

// parse is the shared text-parsing loop. release takes ownership of each
// finished example after it has been handled and accounted.
func (s *Session) parse(ctx context.Context, r io.Reader, handle Handler, release func(*example.Example) error) (int, error) {
	tr := textparse.NewReader(r, s.opts.parser, s.sd)

	var skipped int
	for {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		ec, err := tr.Next()
		if err == io.EOF {
			return skipped, nil
		}
		var ml *textparse.ErrMalformedLine
		if errors.As(err, &ml) {
			if s.opts.strict {
				return skipped, err
			}
			s.opts.logger.Warn("skipping malformed line", "line", ml.Line, "error", err)
			skipped++
			continue
		}
		if err != nil {
			return skipped, err
		}

		s.warnSemantics(ec)
		if err := handle(ec); err != nil {
			example.Put(ec)
			return skipped, fmt.Errorf("handler: %w", err)
		}
		s.sd.ObserveExample(ec.Label.GetWeight(), ec.Loss)

		if err := release(ec); err != nil {
			return skipped, err
		}
	}
}

// CachePass replays the configured cache through the handler. Label-range
// bookkeeping is maintained exactly as in a text pass, so a cache-only
// session sees the same statistics.
func (s *Session) CachePass(ctx context.Context, handle Handler) error {
	s.pass++
	before := s.sd.Examples()

	err := s.cachePass(ctx, handle)
	s.opts.logger.LogPass(s.pass, "cache", s.sd.Examples()-before, 0, err)
	return err
}

func (s *Session) cachePass(ctx context.Context, handle Handler) error {
	r, err := cache.Open(s.opts.cachePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ec := example.Get()
		if _, err := r.Next(ec); err != nil {
			example.Put(ec)
			if err == io.EOF {
				return nil
			}
			return err
		}

		if ec.Label.Known() && !s.sd.InRange(ec.Label.Label) {
			s.opts.logger.Warn("cached label outside seen range", "label", ec.Label.Label)
		}
		s.sd.ObserveLabel(ec.Label.Label)
		s.warnSemantics(ec)

		if err := handle(ec); err != nil {
			example.Put(ec)
			return fmt.Errorf("handler: %w", err)
		}
		example.Return(ec, s.sd)
	}
}

func (s *Session) warnSemantics(ec *example.Example) {
	if w := ec.Label.GetWeight(); w <= 0 {
		s.opts.logger.Warn("non-positive example weight", "weight", w, "tag", ec.Tag)
	}
}

package label

import (
	"io"

	"github.com/hupe1980/wabbit/stats"
)

// Parser bundles the conversions for one label kind. The reading pipeline
// selects a parser once per dataset and invokes it for every example, so the
// set of implementations is closed and dispatch cost stays off the per-token
// path.
//
// Implementations are stateless and safe for concurrent use; all mutable
// state lives in the record and the stats context.
type Parser interface {
	// Name identifies the parser in self-describing cache headers.
	Name() string

	// Default overwrites l with the canonical no-label record.
	Default(l *Simple)

	// Parse populates l from the tokens of one text label specification.
	Parse(sd *stats.Stats, tokens []string, l *Simple) error

	// WriteCache appends the compact binary encoding of l to w and returns
	// the number of bytes written.
	WriteCache(w io.Writer, l *Simple) (int, error)

	// ReadCache decodes one record from r into l and returns the number of
	// bytes consumed. io.EOF signals a clean end of stream.
	ReadCache(r io.Reader, l *Simple) (int, error)

	// GetWeight returns the importance weight of a populated record.
	GetWeight(l *Simple) float32

	// GetInitial returns the initial prediction of a populated record.
	GetInitial(l *Simple) float32

	// RecordSize returns the largest encoded size of one cache record.
	RecordSize() int
}

// SimpleParser is the Parser for scalar Simple labels.
type SimpleParser struct{}

func (SimpleParser) Name() string { return "simple" }

func (SimpleParser) Default(l *Simple) { l.Reset() }

func (SimpleParser) Parse(sd *stats.Stats, tokens []string, l *Simple) error {
	return parseSimple(sd, tokens, l)
}

func (SimpleParser) WriteCache(w io.Writer, l *Simple) (int, error) {
	return writeCacheSimple(w, l)
}

func (SimpleParser) ReadCache(r io.Reader, l *Simple) (int, error) {
	return readCacheSimple(r, l)
}

func (SimpleParser) GetWeight(l *Simple) float32 { return l.GetWeight() }

func (SimpleParser) GetInitial(l *Simple) float32 { return l.GetInitial() }

func (SimpleParser) RecordSize() int { return MaxRecordSize }

// ByName returns a built-in parser by its stable name.
//
// This is used by the cache file header, which stores the parser name so a
// cache is readable without external knowledge of the label type.
func ByName(name string) (Parser, bool) {
	switch name {
	case "simple":
		return SimpleParser{}, true
	default:
		return nil, false
	}
}

// Package textparse turns whitespace-tokenized example lines into pooled
// examples.
//
// Line format:
//
//	[label [weight [initial]]] ['tag] | feature feature ...
//
// Everything before the first '|' is the label section; an optional tag is
// the final token of that section, marked with a leading apostrophe. Feature
// tokens are "index:value" or a bare "index" meaning value 1.
package textparse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/wabbit/example"
	"github.com/hupe1980/wabbit/label"
	"github.com/hupe1980/wabbit/stats"
)

// ErrMalformedLine indicates an input line that cannot be parsed. The line
// is fatal for its example only; the reader keeps its position and the
// caller decides whether to skip or abort.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedLine struct {
	Line  int
	cause error
}

func (e *ErrMalformedLine) Error() string {
	return fmt.Sprintf("malformed example line %d: %v", e.Line, e.cause)
}

func (e *ErrMalformedLine) Unwrap() error { return e.cause }

// Reader streams examples from a text source. It is not safe for concurrent
// use; run one Reader per input stream.
type Reader struct {
	scanner *bufio.Scanner
	parser  label.Parser
	sd      *stats.Stats
	line    int
}

// NewReader returns a Reader that parses labels with parser and records
// label-range bookkeeping in sd.
func NewReader(r io.Reader, parser label.Parser, sd *stats.Stats) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner, parser: parser, sd: sd}
}

// Next parses the next non-blank line into a pooled example. It returns
// io.EOF at the end of input. On a malformed line it returns
// *ErrMalformedLine and no example; the reader stays usable for the
// following lines.
func (tr *Reader) Next() (*example.Example, error) {
	for tr.scanner.Scan() {
		tr.line++
		line := strings.TrimSpace(tr.scanner.Text())
		if line == "" {
			continue
		}

		ec := example.Get()
		if err := tr.parseLine(line, ec); err != nil {
			example.Put(ec)
			return nil, &ErrMalformedLine{Line: tr.line, cause: err}
		}
		return ec, nil
	}
	if err := tr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Line returns the number of lines consumed so far.
func (tr *Reader) Line() int {
	return tr.line
}

func (tr *Reader) parseLine(line string, ec *example.Example) error {
	labelPart, featurePart, _ := strings.Cut(line, "|")

	tokens := strings.Fields(labelPart)
	if n := len(tokens); n > 0 && strings.HasPrefix(tokens[n-1], "'") {
		ec.Tag = tokens[n-1][1:]
		tokens = tokens[:n-1]
	}
	if err := tr.parser.Parse(tr.sd, tokens, &ec.Label); err != nil {
		return err
	}

	// Additional '|' separators open further feature sections; all of them
	// share one flat feature space.
	for _, section := range strings.Split(featurePart, "|") {
		for _, tok := range strings.Fields(section) {
			ft, err := parseFeature(tok)
			if err != nil {
				return err
			}
			ec.Features = append(ec.Features, ft)
		}
	}
	return nil
}

func parseFeature(tok string) (example.Feature, error) {
	idx, value, hasValue := strings.Cut(tok, ":")

	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return example.Feature{}, fmt.Errorf("bad feature index %q: %w", tok, err)
	}

	v := float32(1)
	if hasValue {
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return example.Feature{}, fmt.Errorf("bad feature value %q: %w", tok, err)
		}
		v = float32(f)
	}
	return example.Feature{Index: uint32(i), Value: v}, nil
}

package label

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/wabbit/internal/math32"
	"github.com/hupe1980/wabbit/stats"
)

var errTooManyTokens = errors.New("at most 3 tokens allowed (label [weight [initial]])")

// parseSimple populates l from the whitespace-split tokens of one label
// specification:
//
//	0 tokens: defaults (unknown label, weight 1, initial 0)
//	1 token:  label
//	2 tokens: label weight
//	3 tokens: label weight initial
//
// Known labels widen the label range tracked in sd. More than 3 tokens or an
// unparseable token yields *ErrMalformedLabel; l is left in the defaulted
// state in that case.
func parseSimple(sd *stats.Stats, tokens []string, l *Simple) error {
	l.Reset()

	if len(tokens) > 3 {
		return &ErrMalformedLabel{Tokens: tokens, cause: errTooManyTokens}
	}

	dst := [3]*float32{&l.Label, &l.Weight, &l.Initial}
	for i, tok := range tokens {
		v, err := parseFloat32(tok)
		if err != nil {
			l.Reset()
			return &ErrMalformedLabel{Tokens: tokens, cause: err}
		}
		*dst[i] = v
	}

	if sd != nil && l.Known() {
		sd.ObserveLabel(l.Label)
	}
	return nil
}

// parseFloat32 is the strict token parser: the whole token must be a float,
// and the value must be finite or NaN. NaN is a valid unknown-label
// spelling, infinity is not.
func parseFloat32(tok string) (float32, error) {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, err
	}
	f := float32(v)
	if !math32.Finite(f) && !math32.NaNPattern(f) {
		return 0, fmt.Errorf("non-finite value %q", tok)
	}
	return f, nil
}

package label

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheCorrupt is returned when a cached label record declares more
	// bytes than the stream can deliver, or carries an invalid presence
	// marker. The cache session is unusable; callers should fall back to
	// re-parsing the text source.
	ErrCacheCorrupt = errors.New("corrupt label cache record")
)

// ErrMalformedLabel indicates a label specification that does not follow the
// text format: too many tokens, or a token that is not a parseable float.
// The example carrying it must be dropped; the process keeps running.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedLabel struct {
	Tokens []string
	cause  error
}

func (e *ErrMalformedLabel) Error() string {
	return fmt.Sprintf("malformed label %v: %v", e.Tokens, e.cause)
}

func (e *ErrMalformedLabel) Unwrap() error { return e.cause }

// Package cache persists parsed examples to a binary cache file so repeated
// passes over a dataset skip text parsing.
//
// A cache file is self-describing: the header carries a magic string, a
// format version, the compression used for the record stream, and the name
// of the label parser that produced the records. A reader needs no external
// knowledge to replay it.
package cache

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/wabbit/label"
)

const (
	cacheMagic      = "WABCACHE" // 8 bytes
	cacheVersion    = 1          // 4 bytes
	cacheHeaderSize = 8 + 4 + 1 + 1
)

// Compression selects the codec applied to the record stream. The header
// stores the choice, so readers pick it up automatically.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

var (
	ErrInvalidHeader       = errors.New("invalid cache header")
	ErrIncompatibleVersion = errors.New("incompatible cache version")
	ErrUnknownParser       = errors.New("unknown label parser in cache header")
	ErrUnknownCompression  = errors.New("unknown compression in cache header")
)

// Options configure cache creation.
type Options struct {
	Compression Compression
	Parser      label.Parser
}

// DefaultOptions returns the default cache options: no compression, simple
// labels.
func DefaultOptions() Options {
	return Options{
		Compression: CompressionNone,
		Parser:      label.SimpleParser{},
	}
}

func encodeHeader(opts Options) []byte {
	name := opts.Parser.Name()
	header := make([]byte, cacheHeaderSize, cacheHeaderSize+len(name))
	copy(header[0:8], cacheMagic)
	binary.LittleEndian.PutUint32(header[8:12], uint32(cacheVersion))
	header[12] = byte(opts.Compression)
	header[13] = byte(len(name))
	return append(header, name...)
}

func decodeHeader(header []byte, name []byte) (Compression, label.Parser, error) {
	if string(header[0:8]) != cacheMagic {
		return 0, nil, fmt.Errorf("%w: invalid magic %q", ErrInvalidHeader, header[0:8])
	}
	ver := binary.LittleEndian.Uint32(header[8:12])
	if ver != cacheVersion {
		return 0, nil, fmt.Errorf("%w: version %d (expected %d)", ErrIncompatibleVersion, ver, cacheVersion)
	}

	compression := Compression(header[12])
	switch compression {
	case CompressionNone, CompressionZstd, CompressionLZ4:
	default:
		return 0, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownCompression, header[12])
	}

	parser, ok := label.ByName(string(name))
	if !ok {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return compression, parser, nil
}

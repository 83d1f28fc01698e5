package cache

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/wabbit/example"
	"github.com/hupe1980/wabbit/label"
)

// Reader replays examples from a cache file in write order.
type Reader struct {
	file   *os.File
	zdec   *zstd.Decoder
	br     *bufio.Reader
	parser label.Parser
	offset int64
}

// Open opens a cache file and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}

	fr := bufio.NewReader(f)

	header := make([]byte, cacheHeaderSize)
	if _, err := io.ReadFull(fr, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	name := make([]byte, header[13])
	if _, err := io.ReadFull(fr, name); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	compression, parser, err := decodeHeader(header, name)
	if err != nil {
		f.Close()
		return nil, err
	}

	r := &Reader{file: f, parser: parser}

	var stream io.Reader = fr
	switch compression {
	case CompressionZstd:
		r.zdec, err = zstd.NewReader(fr)
		if err != nil {
			f.Close()
			return nil, err
		}
		stream = r.zdec
	case CompressionLZ4:
		stream = lz4.NewReader(fr)
	}
	r.br = bufio.NewReader(stream)

	return r, nil
}

// Parser returns the label parser named in the cache header.
func (r *Reader) Parser() label.Parser {
	return r.parser
}

// Next decodes the next example into ec and returns the end offset of its
// record in the uncompressed record stream. It returns io.EOF at a clean end
// of stream and an error wrapping label.ErrCacheCorrupt when the stream ends
// inside a record.
func (r *Reader) Next(ec *example.Example) (int64, error) {
	n, err := r.parser.ReadCache(r.br, &ec.Label)
	if err != nil {
		if err == io.EOF {
			return r.offset, io.EOF
		}
		return r.offset, err
	}
	r.offset += int64(n)

	tagLen, err := binary.ReadUvarint(r.br)
	if err != nil {
		return r.offset, corrupt("tag length", err)
	}
	tag := make([]byte, tagLen)
	if _, err := io.ReadFull(r.br, tag); err != nil {
		return r.offset, corrupt("tag", err)
	}
	ec.Tag = string(tag)

	count, err := binary.ReadUvarint(r.br)
	if err != nil {
		return r.offset, corrupt("feature count", err)
	}

	var value [4]byte
	for i := uint64(0); i < count; i++ {
		idx, err := binary.ReadUvarint(r.br)
		if err != nil {
			return r.offset, corrupt("feature index", err)
		}
		if _, err := io.ReadFull(r.br, value[:]); err != nil {
			return r.offset, corrupt("feature value", err)
		}
		ec.Features = append(ec.Features, example.Feature{
			Index: uint32(idx),
			Value: math.Float32frombits(binary.LittleEndian.Uint32(value[:])),
		})
	}

	// Everything past the label record is accounted once the example is
	// complete; partial records never advance the offset past the label.
	r.offset += int64(uvarintLen(tagLen)) + int64(tagLen) + int64(uvarintLen(count))
	for _, ft := range ec.Features {
		r.offset += int64(uvarintLen(uint64(ft.Index))) + 4
	}

	return r.offset, nil
}

// Offset returns the current offset in the uncompressed record stream.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Close closes the reader.
func (r *Reader) Close() error {
	if r.zdec != nil {
		r.zdec.Close()
	}
	return r.file.Close()
}

func corrupt(what string, err error) error {
	return fmt.Errorf("%w: reading %s: %v", label.ErrCacheCorrupt, what, err)
}

func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

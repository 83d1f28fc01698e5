package label

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Cache record layout, little-endian:
//
//	[marker: 1 byte] [label: 4 bytes] [weight: 4 bytes]? [initial: 4 bytes]?
//
// The marker says which optional fields follow, so consecutive records are
// self-delimiting. Weight is only written when != 1, initial only when != 0,
// which keeps cache files minimal for the common case.
const (
	markerWeight  = 1 << 0
	markerInitial = 1 << 1
	markerMask    = markerWeight | markerInitial

	// MinRecordSize and MaxRecordSize bound one encoded record.
	MinRecordSize = 1 + 4
	MaxRecordSize = 1 + 4 + 4 + 4
)

// writeCacheSimple appends the compact encoding of l to w and returns the
// number of bytes written.
func writeCacheSimple(w io.Writer, l *Simple) (int, error) {
	var buf [MaxRecordSize]byte

	var marker byte
	n := 1
	binary.LittleEndian.PutUint32(buf[n:], math.Float32bits(l.Label))
	n += 4
	if l.Weight != 1 {
		marker |= markerWeight
		binary.LittleEndian.PutUint32(buf[n:], math.Float32bits(l.Weight))
		n += 4
	}
	if l.Initial != 0 {
		marker |= markerInitial
		binary.LittleEndian.PutUint32(buf[n:], math.Float32bits(l.Initial))
		n += 4
	}
	buf[0] = marker

	return w.Write(buf[:n])
}

// readCacheSimple decodes one record from r into l and returns the number of
// bytes consumed. A clean end of stream before the marker returns io.EOF
// with l untouched. A stream that ends inside a declared record returns
// ErrCacheCorrupt, also with l untouched - a truncated cache must never leak
// garbage into a record.
func readCacheSimple(r io.Reader, l *Simple) (int, error) {
	var buf [MaxRecordSize]byte

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w: reading marker: %v", ErrCacheCorrupt, err)
	}

	marker := buf[0]
	if marker&^byte(markerMask) != 0 {
		return 1, fmt.Errorf("%w: invalid marker 0x%02x", ErrCacheCorrupt, marker)
	}

	size := 4
	if marker&markerWeight != 0 {
		size += 4
	}
	if marker&markerInitial != 0 {
		size += 4
	}
	if _, err := io.ReadFull(r, buf[1:1+size]); err != nil {
		return 1, fmt.Errorf("%w: record declares %d bytes: %v", ErrCacheCorrupt, size, err)
	}

	l.Label = math.Float32frombits(binary.LittleEndian.Uint32(buf[1:]))
	off := 5
	if marker&markerWeight != 0 {
		l.Weight = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
	} else {
		l.Weight = 1
	}
	if marker&markerInitial != 0 {
		l.Initial = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	} else {
		l.Initial = 0
	}

	return 1 + size, nil
}

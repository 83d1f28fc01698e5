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
)

// Writer appends examples to a cache file.
//
// Record layout in the (possibly compressed) stream, little-endian:
//
//	[label record]            self-delimiting, see the label package
//	[tag length: uvarint] [tag bytes]
//	[feature count: uvarint]
//	per feature: [index: uvarint] [value: 4 bytes]
type Writer struct {
	file   *os.File
	bw     *bufio.Writer
	zenc   *zstd.Encoder
	lzw    *lz4.Writer
	cw     *countingWriter
	opts   Options
	closed bool
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Create creates or truncates a cache file at path.
func Create(path string, optFns ...func(o *Options)) (*Writer, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if _, err := bw.Write(encodeHeader(opts)); err != nil {
		f.Close()
		return nil, err
	}

	w := &Writer{file: f, bw: bw, opts: opts}

	// The record stream sits on top of the buffered file writer.
	var stream io.Writer = bw
	switch opts.Compression {
	case CompressionZstd:
		w.zenc, err = zstd.NewWriter(bw)
		if err != nil {
			f.Close()
			return nil, err
		}
		stream = w.zenc
	case CompressionLZ4:
		w.lzw = lz4.NewWriter(bw)
		stream = w.lzw
	}
	w.cw = &countingWriter{w: stream}

	return w, nil
}

// Append writes one example and returns the end offset of its record in the
// uncompressed record stream.
func (w *Writer) Append(ec *example.Example) (int64, error) {
	if w.closed {
		return 0, os.ErrClosed
	}

	if _, err := w.opts.Parser.WriteCache(w.cw, &ec.Label); err != nil {
		return 0, err
	}

	var scratch [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scratch[:], uint64(len(ec.Tag)))
	if _, err := w.cw.Write(scratch[:n]); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w.cw, ec.Tag); err != nil {
		return 0, err
	}

	n = binary.PutUvarint(scratch[:], uint64(len(ec.Features)))
	if _, err := w.cw.Write(scratch[:n]); err != nil {
		return 0, err
	}
	for _, ft := range ec.Features {
		n = binary.PutUvarint(scratch[:], uint64(ft.Index))
		binary.LittleEndian.PutUint32(scratch[n:], math.Float32bits(ft.Value))
		if _, err := w.cw.Write(scratch[:n+4]); err != nil {
			return 0, err
		}
	}

	return w.cw.n, nil
}

// Size returns the number of record-stream bytes written so far.
func (w *Writer) Size() int64 {
	return w.cw.n
}

// Close flushes all layers and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true

	if w.zenc != nil {
		if err := w.zenc.Close(); err != nil {
			w.file.Close()
			return err
		}
	}
	if w.lzw != nil {
		if err := w.lzw.Close(); err != nil {
			w.file.Close()
			return err
		}
	}
	if err := w.bw.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

package label

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record Simple
		size   int
	}{
		{"Defaults elided", Simple{Label: 0.5, Weight: 1, Initial: 0}, MinRecordSize},
		{"Weight present", Simple{Label: 0.5, Weight: 2, Initial: 0}, MinRecordSize + 4},
		{"Initial present", Simple{Label: 0.5, Weight: 1, Initial: 0.1}, MinRecordSize + 4},
		{"All present", Simple{Label: -3, Weight: 0.25, Initial: -1}, MaxRecordSize},
		{"Zero weight kept", Simple{Label: 1, Weight: 0, Initial: 0}, MinRecordSize + 4},
	}

	p := SimpleParser{}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := p.WriteCache(&buf, &tc.record)
			require.NoError(t, err)
			assert.Equal(t, tc.size, n)
			assert.Equal(t, tc.size, buf.Len())

			var got Simple
			m, err := p.ReadCache(&buf, &got)
			require.NoError(t, err)
			assert.Equal(t, tc.size, m)
			assert.Equal(t, tc.record, got)
		})
	}
}

func TestCacheUnknownLabelRoundTrip(t *testing.T) {
	var l Simple
	l.Reset()

	var buf bytes.Buffer
	p := SimpleParser{}
	n, err := p.WriteCache(&buf, &l)
	require.NoError(t, err)
	// The default record takes the minimal encoding.
	assert.Equal(t, MinRecordSize, n)

	var got Simple
	_, err = p.ReadCache(&buf, &got)
	require.NoError(t, err)
	assert.False(t, got.Known())
	assert.Equal(t, float32(1), got.Weight)
	assert.Equal(t, float32(0), got.Initial)
}

func TestCacheConsecutiveRecords(t *testing.T) {
	recs := []Simple{
		{Label: 1, Weight: 1, Initial: 0},
		{Label: 2, Weight: 0.5, Initial: 0},
		{Label: 3, Weight: 1, Initial: 7},
		{Label: 4, Weight: 2, Initial: 2},
	}

	p := SimpleParser{}
	var buf bytes.Buffer
	for i := range recs {
		_, err := p.WriteCache(&buf, &recs[i])
		require.NoError(t, err)
	}

	var got []Simple
	for {
		var l Simple
		_, err := p.ReadCache(&buf, &l)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, l)
	}
	assert.Equal(t, recs, got)
}

func TestCacheReadCleanEOF(t *testing.T) {
	var l Simple
	n, err := SimpleParser{}.ReadCache(bytes.NewReader(nil), &l)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestCacheReadTruncated(t *testing.T) {
	full := Simple{Label: 0.5, Weight: 2, Initial: 0.1}

	var buf bytes.Buffer
	_, err := SimpleParser{}.WriteCache(&buf, &full)
	require.NoError(t, err)
	encoded := buf.Bytes()

	// Every proper prefix past the marker is a corrupt record.
	for cut := 1; cut < len(encoded); cut++ {
		got := Simple{Label: 9, Weight: 8, Initial: 7}
		before := got

		_, err := SimpleParser{}.ReadCache(bytes.NewReader(encoded[:cut]), &got)
		require.ErrorIs(t, err, ErrCacheCorrupt, "prefix of %d bytes", cut)
		assert.Equal(t, before, got, "truncated read must not modify the record")
	}
}

func TestCacheReadInvalidMarker(t *testing.T) {
	var got Simple
	_, err := SimpleParser{}.ReadCache(bytes.NewReader([]byte{0xf0, 0, 0, 0, 0}), &got)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

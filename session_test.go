package wabbit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wabbit/cache"
	"github.com/hupe1980/wabbit/example"
	"github.com/hupe1980/wabbit/label"
)

const testInput = "0.5 | 1:0.5 300:-2\n" +
	"-1 2.0 0.1 'ex2 | 7\n" +
	"1 | 2:1 4:0.25\n"

func writeTestInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "train.txt")
	require.NoError(t, os.WriteFile(path, []byte(testInput), 0o644))
	return path
}

func TestRunWithCache(t *testing.T) {
	textPath := writeTestInput(t)
	cachePath := filepath.Join(t.TempDir(), "train.cache")

	sess := New(
		WithLogger(NoopLogger()),
		WithCachePath(cachePath),
		WithCacheCompression(cache.CompressionZstd),
	)

	const passes = 3
	var labels []float32
	err := sess.Run(context.Background(), textPath, passes, func(ec *example.Example) error {
		labels = append(labels, ec.Label.Label)
		return nil
	})
	require.NoError(t, err)

	// The cache was written on the first pass and replayed afterwards.
	_, statErr := os.Stat(cachePath)
	require.NoError(t, statErr)

	require.Len(t, labels, passes*3)
	assert.Equal(t, []float32{0.5, -1, 1}, labels[:3])
	assert.Equal(t, labels[:3], labels[3:6])
	assert.Equal(t, labels[:3], labels[6:9])

	assert.Equal(t, uint64(passes*3), sess.Stats().Examples())
}

func TestParseThenCachePass(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "train.cache")
	sess := New(WithLogger(NoopLogger()), WithCachePath(cachePath))

	var parsed []float32
	err := sess.ParsePass(context.Background(), strings.NewReader(testInput), func(ec *example.Example) error {
		parsed = append(parsed, ec.Label.Label)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 1}, parsed)

	var replayed []float32
	var tags []string
	err = sess.CachePass(context.Background(), func(ec *example.Example) error {
		replayed = append(replayed, ec.Label.Label)
		tags = append(tags, ec.Tag)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, parsed, replayed)
	assert.Equal(t, []string{"", "ex2", ""}, tags)

	minLabel, maxLabel, ok := sess.Stats().LabelRange()
	require.True(t, ok)
	assert.Equal(t, float32(-1), minLabel)
	assert.Equal(t, float32(1), maxLabel)
}

func TestCachePassCorruptRecord(t *testing.T) {
	textPath := writeTestInput(t)
	cachePath := filepath.Join(t.TempDir(), "train.cache")

	sess := New(WithLogger(NoopLogger()), WithCachePath(cachePath))
	require.NoError(t, sess.Run(context.Background(), textPath, 1, func(*example.Example) error { return nil }))

	// Truncate the cache so the replay dies mid-record.
	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cachePath, data[:len(data)-2], 0o644))

	err = sess.CachePass(context.Background(), func(*example.Example) error { return nil })
	assert.ErrorIs(t, err, label.ErrCacheCorrupt)
}

func TestRunFallsBackOnCorruptCache(t *testing.T) {
	textPath := writeTestInput(t)
	cachePath := filepath.Join(t.TempDir(), "train.cache")

	sess := New(WithLogger(NoopLogger()), WithCachePath(cachePath))
	require.NoError(t, sess.Run(context.Background(), textPath, 1, func(*example.Example) error { return nil }))

	// Destroy the header; the replay cannot even start.
	require.NoError(t, os.WriteFile(cachePath, []byte("XX"), 0o644))

	var count int
	err := sess.Run(context.Background(), textPath, 2, func(*example.Example) error {
		count++
		return nil
	})
	require.NoError(t, err)
	// Pass 1 falls back to text and rebuilds the cache, pass 2 replays the
	// rebuilt cache.
	assert.Equal(t, 6, count)
}

func TestParsePassSkipsMalformed(t *testing.T) {
	sess := New(WithLogger(NoopLogger()))

	input := "0.5 | 1:1\nbogus line | nope\n1 | 2:1\n"
	var labels []float32
	err := sess.ParsePass(context.Background(), strings.NewReader(input), func(ec *example.Example) error {
		labels = append(labels, ec.Label.Label)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1}, labels)
}

func TestParsePassStrict(t *testing.T) {
	sess := New(WithLogger(NoopLogger()), WithStrict())

	err := sess.ParsePass(context.Background(), strings.NewReader("nope |\n"), func(*example.Example) error {
		return nil
	})
	require.Error(t, err)
}

func TestParsePassCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := New(WithLogger(NoopLogger()))
	err := sess.ParsePass(ctx, strings.NewReader(testInput), func(*example.Example) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

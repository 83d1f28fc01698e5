// Package wabbit provides the example-reading core of a streaming
// online-learning pipeline: text parsing of labeled example lines, a
// compact binary example cache for fast repeated passes, and pooled
// example objects.
//
// # Quick Start
//
//	sess := wabbit.New(wabbit.WithCachePath("./train.cache"))
//
//	// First pass: parse text, write the cache as a side effect.
//	f, _ := os.Open("train.txt")
//	_ = sess.ParsePass(ctx, f, func(ec *example.Example) error {
//	    // train on ec
//	    return nil
//	})
//	f.Close()
//
//	// Later passes replay the cache instead of re-parsing text.
//	_ = sess.CachePass(ctx, func(ec *example.Example) error {
//	    return nil
//	})
//
// Or let Run drive the passes, including the corruption fallback to text:
//
//	_ = sess.Run(ctx, "train.txt", 5, handle)
//
// # Input Format
//
// One example per line, whitespace tokenized:
//
//	[label [weight [initial]]] ['tag] | index:value index ...
//
// A missing label means "no supervision" (useful for prediction-only passes
// and active learning); weight defaults to 1 and initial to 0.
//
// # Cache Format
//
// The cache stores each example's label record with optional fields elided
// when they hold their defaults, followed by the tag and varint-indexed
// features. Files are self-describing (magic, version, compression, label
// parser name) and may be zstd or lz4 compressed.
package wabbit

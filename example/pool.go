package example

import "sync"

// DefaultFeatureCapacity is the initial feature capacity of pooled
// examples. Large enough that typical sparse lines never reallocate.
const DefaultFeatureCapacity = 256

// examplePool is the global pool of Example objects.
var examplePool = sync.Pool{
	New: func() interface{} {
		ec := &Example{
			Features: make([]Feature, 0, DefaultFeatureCapacity),
		}
		ec.Label.Reset()
		return ec
	},
}

// Get retrieves a reset Example from the pool.
func Get() *Example {
	ec := examplePool.Get().(*Example)
	ec.Reset()
	return ec
}

// Put returns an Example to the pool for reuse.
func Put(ec *Example) {
	examplePool.Put(ec)
}

package internal

import (
	"sync/atomic"
)

// AtomicBoolean is a simple atomic boolean type based on sync/atomic. Since sync/atomic only
// supports integer types, the implementation uses an int32. It can be replaced with the standard
// atomic.Bool once our minimum Go version is 1.19.
type AtomicBoolean struct {
	value int32
}

// Get returns the current value.
func (a *AtomicBoolean) Get() bool {
	return atomic.LoadInt32(&a.value) != 0
}

// Set updates the value.
func (a *AtomicBoolean) Set(value bool) {
	atomic.StoreInt32(&a.value, booleanToInt32(value))
}

// GetAndSet atomically updates the value and returns the previous value.
func (a *AtomicBoolean) GetAndSet(value bool) bool {
	return atomic.SwapInt32(&a.value, booleanToInt32(value)) != 0
}

func booleanToInt32(value bool) int32 {
	if value {
		return 1
	}
	return 0
}

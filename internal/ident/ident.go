// Package ident issues shape identifiers.
package ident

import (
	"errors"
	"math"
	"sync"
)

var ErrExhausted = errors.New("identifier space exhausted")

// Allocator hands out strictly increasing ids. It never rewinds on its own;
// only Reset moves the counter. The zero value is ready and first returns 1.
type Allocator struct {
	mu   sync.Mutex
	last uint64
}

func New() *Allocator {
	return &Allocator{}
}

// Next pre-increments the counter and returns the new value. Once the
// counter reaches math.MaxUint64 it returns ErrExhausted instead of wrapping.
func (a *Allocator) Next() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.last == math.MaxUint64 {
		return 0, ErrExhausted
	}
	a.last++
	return a.last, nil
}

// Reset sets the counter so that the next call to Next returns to+1.
func (a *Allocator) Reset(to uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = to
}

// Last returns the most recently issued id, or the reset value.
func (a *Allocator) Last() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

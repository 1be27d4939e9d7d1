// Package registry holds the live shapes of a catalog.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/shape"
)

// DefaultCapacity is the number of live shapes a catalog holds unless
// configured otherwise.
const DefaultCapacity = 10

var (
	ErrCapacityExceeded = errors.New("registry is full")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateID      = errors.New("shape id already registered")
)

// Registry is a bounded, insertion-ordered set of shapes keyed by id.
// Removing a shape keeps the relative order of the others.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	shapes   []*shape.Shape
	log      *slog.Logger
}

// New returns an empty registry holding at most capacity shapes. A
// non-positive capacity selects DefaultCapacity.
func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		shapes:   make([]*shape.Shape, 0, capacity),
		log:      logger.ForComponent("registry"),
	}
}

func (r *Registry) Add(s *shape.Shape) error {
	if s == nil || s.Payload == nil {
		return fmt.Errorf("cannot register an empty shape")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.shapes) >= r.capacity {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, r.capacity)
	}
	if r.indexLocked(s.ID) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
	}

	r.shapes = append(r.shapes, s)
	r.log.Debug("shape added", "id", s.ID, "kind", s.Kind().String(), "size", len(r.shapes))
	return nil
}

func (r *Registry) Find(id uint64) (*shape.Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return r.shapes[i], true
}

// Remove destroys the shape with the given id and drops it from the
// registry. The returned shape keeps its id but no longer has a payload.
func (r *Registry) Remove(id uint64) (*shape.Shape, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("shape %d %w", id, ErrNotFound)
	}

	removed := r.shapes[i]
	copy(r.shapes[i:], r.shapes[i+1:])
	r.shapes[len(r.shapes)-1] = nil
	r.shapes = r.shapes[:len(r.shapes)-1]

	shape.Destroy(removed)
	r.log.Debug("shape removed", "id", id, "size", len(r.shapes))
	return removed, nil
}

// Clear destroys every shape and reports how many were removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.shapes)
	for i, s := range r.shapes {
		shape.Destroy(s)
		r.shapes[i] = nil
	}
	r.shapes = r.shapes[:0]

	r.log.Debug("registry cleared", "removed", n)
	return n
}

// All returns a snapshot of the live shapes in insertion order.
func (r *Registry) All() []*shape.Shape {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*shape.Shape, len(r.shapes))
	copy(out, r.shapes)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

func (r *Registry) Cap() int {
	return r.capacity
}

func (r *Registry) Full() bool {
	return r.Len() >= r.capacity
}

func (r *Registry) indexLocked(id uint64) int {
	for i, s := range r.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

package lazy

import (
	"fmt"
	"sync"
)

// Cell holds a value that is loaded at most once per process and guarded by a
// mutex afterwards. Every access, including reads after initialisation, is
// serialised through the same lock.
//
// A failed load is permanent: the error is cached and returned by every later
// call. There is no retry.
type Cell[T any] struct {
	load func() (T, error)

	once sync.Once
	mu   sync.Mutex
	val  T
	err  error
}

// New returns a Cell that runs load on first access.
func New[T any](load func() (T, error)) *Cell[T] {
	return &Cell[T]{load: load}
}

// Get initialises the cell if needed and returns a copy of the value.
func (c *Cell[T]) Get() (T, error) {
	c.init()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.val, c.err
}

// With runs fn while holding the lock. fn must not retain v beyond the call.
func (c *Cell[T]) With(fn func(v T)) error {
	c.init()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	fn(c.val)
	return nil
}

// Set pins v as the cell's value if the cell has not been initialised yet.
// It reports whether v was stored; the loader never runs after a successful Set.
func (c *Cell[T]) Set(v T) bool {
	stored := false
	c.once.Do(func() {
		c.mu.Lock()
		c.val = v
		c.mu.Unlock()
		stored = true
	})
	return stored
}

func (c *Cell[T]) init() {
	c.once.Do(func() {
		v, err := c.safeLoad()

		c.mu.Lock()
		c.val, c.err = v, err
		c.mu.Unlock()
	})
}

func (c *Cell[T]) safeLoad() (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("lazy load panicked: %v", r)
		}
	}()

	if c.load == nil {
		return v, fmt.Errorf("lazy cell has no loader")
	}
	return c.load()
}

package container

import (
	"sync"
	"sync/atomic"
)

// Cell is the storage of a Singleton or Instance provider. It is filled at most
// once; Reset empties it again when the owning scope is released.
type Cell interface {
	Load() (any, bool)
	// LoadOrInit returns the stored value, running init if the cell is empty.
	// created reports whether this call stored the value. A failing init
	// leaves the cell empty.
	LoadOrInit(init func() (any, error)) (value any, created bool, err error)
	Reset() (any, bool)
}

func newCell(singleThreaded bool) Cell {
	if singleThreaded {
		return &localCell{}
	}
	return &syncCell{}
}

func newFilledCell(singleThreaded bool, value any) Cell {
	if singleThreaded {
		return &localCell{value: value, done: true}
	}
	c := &syncCell{}
	c.value.Store(&value)
	return c
}

// syncCell lets exactly one goroutine construct the value; the others block on
// mu until the winner finishes and then observe its result. A nil pointer
// means the cell is empty.
type syncCell struct {
	mu    sync.Mutex
	value atomic.Pointer[any]
}

func (c *syncCell) Load() (any, bool) {
	if v := c.value.Load(); v != nil {
		return *v, true
	}
	return nil, false
}

func (c *syncCell) LoadOrInit(init func() (any, error)) (any, bool, error) {
	if v := c.value.Load(); v != nil {
		return *v, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v := c.value.Load(); v != nil {
		return *v, false, nil
	}

	value, err := init()
	if err != nil {
		return nil, false, err
	}

	c.value.Store(&value)
	return value, true, nil
}

func (c *syncCell) Reset() (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.value.Swap(nil)
	if v == nil {
		return nil, false
	}
	return *v, true
}

// localCell is the unsynchronized variant for scopes confined to one goroutine.
type localCell struct {
	done  bool
	value any
}

func (c *localCell) Load() (any, bool) {
	return c.value, c.done
}

func (c *localCell) LoadOrInit(init func() (any, error)) (any, bool, error) {
	if c.done {
		return c.value, false, nil
	}

	value, err := init()
	if err != nil {
		return nil, false, err
	}

	c.value = value
	c.done = true
	return value, true, nil
}

func (c *localCell) Reset() (any, bool) {
	if !c.done {
		return nil, false
	}
	value := c.value
	c.value = nil
	c.done = false
	return value, true
}

package syringe

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/danpasecinic/syringe/internal/container"
)

// Container is a built scope. Its providers never change; only singleton
// storage fills up as types are resolved.
type Container struct {
	node   *container.Node
	config *config
	parent *Container
}

func (c *Container) ID() string {
	return c.node.ID()
}

// Parent returns the scope this one was forked from, or nil for a root.
func (c *Container) Parent() *Container {
	return c.parent
}

func (c *Container) Depth() int {
	return c.node.Depth()
}

// Size returns the number of providers registered in this scope, ancestors
// excluded.
func (c *Container) Size() int {
	return c.node.Registry().Len()
}

func (c *Container) Keys() []string {
	entries := c.node.Registry().Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	sort.Strings(keys)
	return keys
}

func (c *Container) Logger() *slog.Logger {
	return c.node.Logger()
}

// Fork starts a child scope that borrows this one: c cannot be closed while
// the built child is open.
func (c *Container) Fork(opts ...Option) *Builder {
	return c.fork(false, opts)
}

// ForkShared starts a child scope holding a reference on this one: closing c
// only drops its own reference and the storage stays alive until every shared
// child is closed too.
func (c *Container) ForkShared(opts ...Option) *Builder {
	return c.fork(true, opts)
}

func (c *Container) fork(shared bool, opts []Option) *Builder {
	cfg := c.config.inherit()
	for _, opt := range opts {
		opt(cfg)
	}
	if c.config.singleThreaded {
		cfg.singleThreaded = true
	}

	b := &Builder{
		config: cfg,
		parent: c,
	}

	node, err := c.node.Fork(cfg.nodeConfig(), shared)
	if err != nil {
		b.err = wrapInternal(err)
		return b
	}
	b.node = node
	return b
}

// Close releases the scope. Singletons it initialized are closed in reverse
// initialization order if they implement io.Closer. Closing a scope with open
// borrowed children fails with ErrCodeLifetimeViolation. Close is idempotent.
func (c *Container) Close() error {
	err := c.node.Close()
	if err == nil {
		return nil
	}

	var p *container.Problem
	if errors.As(err, &p) {
		return fromProblem(p)
	}
	return newError(ErrCodeProviderFailed, "failed to finalize scope "+c.ID(), err)
}

func (c *Container) Closed() bool {
	return c.node.Closed()
}

package syringe

import (
	"github.com/danpasecinic/syringe/internal/container"
)

// Builder collects providers for one scope. Build verifies them and returns
// the read-only Container.
type Builder struct {
	node   *container.Node
	config *config
	parent *Container
	err    error
}

// New creates a builder for a root scope.
func New(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Builder{
		node:   container.NewRoot(cfg.nodeConfig()),
		config: cfg,
	}
}

func (cfg *config) nodeConfig() container.Config {
	return container.Config{
		Logger:          cfg.logger,
		SingleThreaded:  cfg.singleThreaded,
		PartialGraph:    cfg.partialGraph,
		ForbidShadowing: cfg.shadowing == ShadowForbid,
	}
}

// Build verifies the scope: no type provided twice locally, no cycles and,
// unless WithPartialGraph is set, every dependency locatable from here.
// All problems found are reported together.
func (b *Builder) Build() (*Container, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := b.node.Freeze(); err != nil {
		return nil, wrapInternal(err)
	}

	return &Container{
		node:   b.node,
		config: b.config,
		parent: b.parent,
	}, nil
}

func (b *Builder) MustBuild() *Container {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *Builder) register(e *container.Entry) error {
	if b.err != nil {
		return b.err
	}

	if err := b.node.Register(e); err != nil {
		return wrapInternal(err)
	}

	for _, hook := range b.config.onProvide {
		hook(e.Key)
	}
	return nil
}

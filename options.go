package syringe

import "log/slog"

type Option func(*config)

type config struct {
	logger         *slog.Logger
	singleThreaded bool
	partialGraph   bool
	shadowing      ShadowPolicy
	onResolve      []ResolveHook
	onProvide      []ProvideHook
}

// ShadowPolicy decides what happens when a scope provides a type that one of
// its ancestors already provides.
type ShadowPolicy int

const (
	// ShadowAllow lets the nearest provider win.
	ShadowAllow ShadowPolicy = iota
	// ShadowForbid makes Build fail with ErrCodeShadowedProvider.
	ShadowForbid
)

func (p ShadowPolicy) String() string {
	switch p {
	case ShadowAllow:
		return "allow"
	case ShadowForbid:
		return "forbid"
	default:
		return "unknown"
	}
}

func defaultConfig() *config {
	return &config{
		logger: slog.Default(),
	}
}

// inherit copies the settings of a parent scope so that a child starts from
// them before its own options are applied.
func (c *config) inherit() *config {
	child := *c
	child.onResolve = append([]ResolveHook(nil), c.onResolve...)
	child.onProvide = append([]ProvideHook(nil), c.onProvide...)
	return &child
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSingleThreaded stores singletons in unsynchronized cells. Use it only for
// scopes that are never shared between goroutines. Forks inherit the setting.
func WithSingleThreaded() Option {
	return func(cfg *config) {
		cfg.singleThreaded = true
	}
}

// WithPartialGraph lets Build accept providers whose dependencies are not yet
// available, so that descendant scopes can supply them. Resolution still
// verifies the full plan before running any constructor.
func WithPartialGraph() Option {
	return func(cfg *config) {
		cfg.partialGraph = true
	}
}

func WithShadowing(policy ShadowPolicy) Option {
	return func(cfg *config) {
		cfg.shadowing = policy
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *config) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithProvideObserver(hook ProvideHook) Option {
	return func(cfg *config) {
		cfg.onProvide = append(cfg.onProvide, hook)
	}
}

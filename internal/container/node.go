package container

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/danpasecinic/syringe/internal/kind"
)

type Config struct {
	Logger *slog.Logger
	// SingleThreaded selects unsynchronized singleton cells.
	SingleThreaded bool
	// PartialGraph skips the missing-dependency check at Freeze.
	PartialGraph bool
	// ForbidShadowing rejects local providers that an ancestor already offers.
	ForbidShadowing bool
}

// Node is one scope: an ordered registry plus an optional parent. A node is
// mutable until Freeze succeeds and read-only afterwards, except for singleton
// cells, the plan cache and the lifetime counters.
type Node struct {
	id     string
	parent *Node
	shared bool
	depth  int
	config Config
	logger *slog.Logger

	mu       sync.Mutex
	registry *Registry
	frozen   bool
	freezing bool

	plans sync.Map

	// lifeMu orders child attaches against the owner's Close.
	lifeMu      sync.Mutex
	refs        atomic.Int64
	borrowers   atomic.Int64
	ownerClosed atomic.Bool
	released    atomic.Bool

	initMu      sync.Mutex
	initialized []*Entry
}

func NewRoot(cfg Config) *Node {
	return newNode(nil, false, cfg)
}

func newNode(parent *Node, shared bool, cfg Config) *Node {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n := &Node{
		id:       uuid.NewString(),
		parent:   parent,
		shared:   shared,
		config:   cfg,
		registry: NewRegistry(),
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	n.logger = logger.With("scope", n.id)
	n.refs.Store(1)
	return n
}

// Fork creates an empty child scope. A shared child keeps the parent's storage
// alive until the child is closed; a borrowed child prevents the parent from
// being closed while it is open. The link is taken when the child is frozen.
func (n *Node) Fork(cfg Config, shared bool) (*Node, error) {
	if !n.Frozen() {
		return nil, &Problem{Code: CodeFrozen, Scope: n.id, Message: "cannot fork a scope that is not built"}
	}
	if err := n.checkAlive(); err != nil {
		return nil, err
	}

	child := newNode(n, shared, cfg)
	n.logger.Debug("scope forked", "child", child.id, "shared", shared)
	return child, nil
}

func (n *Node) ID() string {
	return n.id
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Depth() int {
	return n.depth
}

func (n *Node) Config() Config {
	return n.config
}

func (n *Node) Logger() *slog.Logger {
	return n.logger
}

func (n *Node) Frozen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frozen
}

// Register appends e to the local registry.
func (n *Node) Register(e *Entry) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.frozen || n.freezing {
		return &Problem{
			Code:    CodeFrozen,
			Type:    e.Type,
			Chain:   []string{e.Key},
			Scope:   n.id,
			Message: "cannot register " + e.Key + " in a built scope",
		}
	}

	switch e.Kind {
	case kind.Singleton:
		e.cell = newCell(n.config.SingleThreaded)
	case kind.Instance:
		e.cell = newFilledCell(n.config.SingleThreaded, e.instance)
	}

	n.registry.Add(e)
	return nil
}

// Registry exposes the local registry. Callers must not mutate it.
func (n *Node) Registry() *Registry {
	return n.registry
}

// Has reports whether t is provided anywhere in the scope chain.
func (n *Node) Has(t reflect.Type) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.registry.Has(t) {
			return true
		}
	}
	return false
}

// Visible describes a provider as seen from a node.
type Visible struct {
	Entry    *Entry
	Owner    *Node
	Shadowed bool
}

// VisibleEntries lists every provider of the chain, nearest scope first.
// Entries hidden by a nearer provider of the same type are flagged Shadowed.
func (n *Node) VisibleEntries() []Visible {
	var result []Visible
	seen := make(map[reflect.Type]*Node)
	for cur := n; cur != nil; cur = cur.parent {
		for _, e := range cur.registry.Entries() {
			owner, found := seen[e.Type]
			shadowed := found && owner != cur
			if !found {
				seen[e.Type] = cur
			}
			result = append(result, Visible{Entry: e, Owner: cur, Shadowed: shadowed})
		}
	}
	return result
}

func (n *Node) recordInit(e *Entry) {
	n.initMu.Lock()
	defer n.initMu.Unlock()
	n.initialized = append(n.initialized, e)
}

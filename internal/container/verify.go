package container

import (
	"reflect"

	"github.com/danpasecinic/syringe/internal/graph"
)

// Freeze verifies the node and makes it read-only. On failure the node stays
// open for more registrations.
func (n *Node) Freeze() error {
	n.mu.Lock()
	switch {
	case n.frozen:
		n.mu.Unlock()
		return &Problem{Code: CodeFrozen, Scope: n.id, Message: "scope is already built"}
	case n.freezing:
		n.mu.Unlock()
		return &Problem{Code: CodeFrozen, Scope: n.id, Message: "scope is being built"}
	}
	n.freezing = true
	n.mu.Unlock()

	frozen := false
	defer func() {
		n.mu.Lock()
		n.freezing = false
		n.frozen = frozen
		n.mu.Unlock()
	}()

	if n.parent != nil {
		if err := n.attach(); err != nil {
			return err
		}
	}

	if problems := n.verify(); len(problems) > 0 {
		if n.parent != nil {
			_ = n.detach()
		}
		return &VerificationError{Scope: n.id, Problems: problems}
	}
	frozen = true

	n.logger.Debug("scope built", "providers", n.registry.Len(), "depth", n.depth)
	return nil
}

type problemKey struct {
	code Code
	t    reflect.Type
}

func (n *Node) verify() []*Problem {
	var problems []*Problem
	reported := make(map[problemKey]bool)

	for _, t := range n.registry.Duplicates() {
		reported[problemKey{CodeAmbiguous, t}] = true
		problems = append(
			problems, ambiguousProblem(t, []reflect.Type{t}, n.id, len(n.registry.Lookup(t))),
		)
	}

	if n.config.ForbidShadowing {
		problems = append(problems, n.shadowProblems()...)
	}

	g := n.VisibleGraph()
	cycles := g.GetAllCyclePaths()
	for _, path := range cycles {
		problems = append(problems, cycleProblem(n.typeOf(path[0]), path, n.id))
	}

	// Plans would repeat every cycle once per entry on it.
	if n.config.PartialGraph || len(cycles) > 0 {
		return problems
	}

	for _, e := range n.registry.Entries() {
		if _, err := n.buildPlan(e.Type, nil, make(map[reflect.Type]*Plan)); err != nil {
			prob := err.(*Problem)
			key := problemKey{prob.Code, prob.Type}
			if reported[key] {
				continue
			}
			reported[key] = true
			problems = append(problems, prob)
		}
	}

	return problems
}

func (n *Node) shadowProblems() []*Problem {
	var problems []*Problem
	seen := make(map[reflect.Type]bool)
	for _, e := range n.registry.Entries() {
		if seen[e.Type] {
			continue
		}
		seen[e.Type] = true
		for anc := n.parent; anc != nil; anc = anc.parent {
			if anc.registry.Has(e.Type) {
				problems = append(problems, shadowedProblem(e.Type, n.id, anc.id))
				break
			}
		}
	}
	return problems
}

// VisibleGraph is the dependency graph formed by the nearest provider of
// every type reachable from n.
func (n *Node) VisibleGraph() *graph.Graph {
	g := graph.New()
	for _, v := range n.VisibleEntries() {
		if v.Shadowed || g.HasNode(v.Entry.Key) {
			continue
		}
		g.AddNode(v.Entry.Key, v.Entry.DependencyKeys())
	}
	return g
}

func (n *Node) typeOf(key string) reflect.Type {
	for _, v := range n.VisibleEntries() {
		if v.Entry.Key == key {
			return v.Entry.Type
		}
	}
	return nil
}

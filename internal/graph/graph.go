package graph

import (
	"slices"
	"sync"
)

// Graph is a directed dependency graph keyed by type key. An edge A -> B means
// that A needs B to be constructed first. Edges to unknown nodes are kept so
// that callers can see unresolved dependencies, but algorithms skip them.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps := make([]string, len(dependencies))
	copy(deps, dependencies)
	g.edges[id] = deps
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.edges[id]
	return exists
}

func (g *Graph) GetDependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, nodeID := range g.sortedIDs() {
		if slices.Contains(g.edges[nodeID], id) {
			dependents = append(dependents, nodeID)
		}
	}
	return dependents
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

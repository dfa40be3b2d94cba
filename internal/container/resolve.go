package container

import (
	"reflect"
	"slices"

	"github.com/danpasecinic/syringe/internal/graph"
	"github.com/danpasecinic/syringe/internal/kind"
	syrreflect "github.com/danpasecinic/syringe/internal/reflect"
)

// Plan is the dry-run result of resolving a type from a node: the selected
// entry, the node that owns it and the plans of its dependencies.
type Plan struct {
	Type  reflect.Type
	Key   string
	Entry *Entry
	Owner *Node
	Deps  []*Plan
}

type planResult struct {
	plan *Plan
	err  error
}

// locate finds the provider of t: the local registry first, then each ancestor.
// More than one match within the same scope is an error; matches at different
// levels resolve to the nearest.
func (n *Node) locate(t reflect.Type, chain []reflect.Type) (*Entry, *Node, error) {
	for cur := n; cur != nil; cur = cur.parent {
		switch matches := cur.registry.Lookup(t); len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], cur, nil
		default:
			return nil, cur, ambiguousProblem(t, chain, cur.id, len(matches))
		}
	}
	return nil, nil, missingProblem(t, chain, n.id)
}

// Plan computes, without running any constructor, how t would be built from
// this node. Results are cached once the node is frozen.
func (n *Node) Plan(t reflect.Type) (*Plan, error) {
	if cached, ok := n.plans.Load(t); ok {
		r := cached.(*planResult)
		return r.plan, r.err
	}

	p, err := n.buildPlan(t, nil, make(map[reflect.Type]*Plan))
	if n.Frozen() {
		n.plans.Store(t, &planResult{plan: p, err: err})
	}
	return p, err
}

func (n *Node) buildPlan(t reflect.Type, chain []reflect.Type, memo map[reflect.Type]*Plan) (*Plan, error) {
	if p, ok := memo[t]; ok {
		return p, nil
	}

	if slices.Contains(chain, t) {
		path := append(chainKeys(chain[slices.Index(chain, t):]), syrreflect.Key(t))
		return nil, cycleProblem(t, path, n.id)
	}
	chain = append(slices.Clone(chain), t)

	entry, owner, err := n.locate(t, chain)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Type:  t,
		Key:   entry.Key,
		Entry: entry,
		Owner: owner,
		Deps:  make([]*Plan, 0, len(entry.Dependencies)),
	}
	for _, dep := range entry.Dependencies {
		dp, err := n.buildPlan(dep, chain, memo)
		if err != nil {
			return nil, err
		}
		p.Deps = append(p.Deps, dp)
	}

	if entry.Kind == kind.Singleton {
		if err := checkEscape(p, chain); err != nil {
			return nil, err
		}
	}

	memo[t] = p
	return p, nil
}

// checkEscape fails when the Singleton of p would capture storage owned by a
// scope deeper than its own. Transient dependencies are walked through.
func checkEscape(p *Plan, chain []reflect.Type) error {
	depth := p.Owner.Depth()
	var walk func(q *Plan) *Plan
	walk = func(q *Plan) *Plan {
		for _, d := range q.Deps {
			if d.Entry.Kind.Shared() {
				if d.Owner.Depth() > depth {
					return d
				}
				continue
			}
			if found := walk(d); found != nil {
				return found
			}
		}
		return nil
	}

	if d := walk(p); d != nil {
		return lifetimeEscapeProblem(p, d, chain)
	}
	return nil
}

// Order returns the type keys of the plan in construction order, t last.
func (p *Plan) Order() ([]string, error) {
	g := graph.New()
	var add func(q *Plan)
	add = func(q *Plan) {
		if g.HasNode(q.Key) {
			return
		}
		g.AddNode(q.Key, q.Entry.DependencyKeys())
		for _, d := range q.Deps {
			add(d)
		}
	}
	add(p)
	return g.ResolutionOrder(p.Key)
}

// Resolve plans t and then executes the plan. It returns the slot of the
// resolved value: a fresh one for Transient, the stored one otherwise.
func (n *Node) Resolve(t reflect.Type) (any, error) {
	if err := n.checkAlive(); err != nil {
		return nil, err
	}

	p, err := n.Plan(t)
	if err != nil {
		return nil, err
	}

	return n.execute(p)
}

func (n *Node) execute(p *Plan) (any, error) {
	e := p.Entry

	switch e.Kind {
	case kind.Instance:
		v, _ := e.cell.Load()
		return v, nil
	case kind.Singleton:
		v, created, err := e.cell.LoadOrInit(func() (any, error) {
			return n.construct(p)
		})
		if err != nil {
			return nil, err
		}
		if created {
			p.Owner.recordInit(e)
			p.Owner.logger.Debug("singleton initialized", "service", e.Key, "requested_from", n.id)
		}
		return v, nil
	default:
		return n.construct(p)
	}
}

// construct resolves the dependencies of p from n, the requesting node, and
// invokes the constructor with them in declaration order.
func (n *Node) construct(p *Plan) (any, error) {
	args := make([]any, len(p.Deps))
	for i, dp := range p.Deps {
		v, err := n.execute(dp)
		if err != nil {
			if prob, ok := err.(*Problem); ok && prob.Code == CodeProviderFailed {
				prob.Chain = append([]string{p.Key}, prob.Chain...)
			}
			return nil, err
		}
		args[i] = v
	}

	v, err := p.Entry.Construct(args)
	if err != nil {
		return nil, providerProblem(p.Entry, err)
	}
	return v, nil
}

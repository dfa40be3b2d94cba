package syringe

import (
	"time"

	"github.com/danpasecinic/syringe/internal/container"
	"github.com/danpasecinic/syringe/internal/reflect"
)

// Resolve builds or fetches a T from c. The result is a copy of the stored
// value; for pointer, map, slice or interface types it shares the underlying
// data with the container.
func Resolve[T any](c *Container) (T, error) {
	slot, err := Borrow[T](c)
	if err != nil {
		var zero T
		return zero, err
	}
	return *slot, nil
}

// Borrow returns a pointer to the resolved value. For Singleton and Instance
// providers it points at the storage of the owning scope and is the same on
// every call; for Transient providers it points at a fresh value.
func Borrow[T any](c *Container) (*T, error) {
	t := reflect.TypeOf[T]()
	key := reflect.Key(t)

	start := time.Now()
	slot, err := c.node.Resolve(t)
	if err != nil {
		err = errResolutionFailed(reflect.TypeName(t), wrapInternal(err))
	}
	c.observe(key, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	typed, ok := slot.(*T)
	if !ok {
		return nil, errResolutionFailed(reflect.TypeName(t), nil)
	}
	return typed, nil
}

func (c *Container) observe(key string, duration time.Duration, err error) {
	for _, hook := range c.config.onResolve {
		hook(key, duration, err)
	}
}

func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func MustBorrow[T any](c *Container) *T {
	v, err := Borrow[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](c *Container) (T, bool) {
	v, err := Resolve[T](c)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Verify dry-runs the resolution of T from c without running any
// constructor. A nil error guarantees that Resolve[T] fails only if a
// constructor itself fails.
func Verify[T any](c *Container) error {
	t := reflect.TypeOf[T]()
	if _, err := c.node.Plan(t); err != nil {
		return errResolutionFailed(reflect.TypeName(t), wrapInternal(err))
	}
	return nil
}

// Has reports whether T is provided by c or one of its ancestors. It does not
// check that the dependencies of the provider can be satisfied.
func Has[T any](c *Container) bool {
	return c.node.Has(reflect.TypeOf[T]())
}

// PlanInfo is the construction order computed for a requested type.
type PlanInfo struct {
	Service string
	Order   []PlanStep
}

type PlanStep struct {
	Service      string
	Kind         Kind
	Scope        string
	Dependencies []string
}

// Plan returns the steps Resolve[T] would take, dependencies first.
func Plan[T any](c *Container) (PlanInfo, error) {
	t := reflect.TypeOf[T]()

	p, err := c.node.Plan(t)
	if err != nil {
		return PlanInfo{}, errResolutionFailed(reflect.TypeName(t), wrapInternal(err))
	}

	order, err := p.Order()
	if err != nil {
		return PlanInfo{}, errResolutionFailed(reflect.TypeName(t), err)
	}

	steps := make(map[string]*container.Plan)
	var collect func(q *container.Plan)
	collect = func(q *container.Plan) {
		if _, ok := steps[q.Key]; ok {
			return
		}
		steps[q.Key] = q
		for _, d := range q.Deps {
			collect(d)
		}
	}
	collect(p)

	info := PlanInfo{
		Service: p.Key,
		Order:   make([]PlanStep, 0, len(order)),
	}
	for _, key := range order {
		q := steps[key]
		info.Order = append(
			info.Order, PlanStep{
				Service:      q.Key,
				Kind:         q.Entry.Kind,
				Scope:        q.Owner.ID(),
				Dependencies: q.Entry.DependencyKeys(),
			},
		)
	}
	return info, nil
}

package container

import (
	"reflect"

	"github.com/danpasecinic/syringe/internal/kind"
	syrreflect "github.com/danpasecinic/syringe/internal/reflect"
)

// Constructor builds a slot (a *T boxed in any) from the slots of its
// dependencies, passed positionally.
type Constructor func(args []any) (any, error)

// Finalizer releases a slot produced by a Singleton when its scope goes away.
type Finalizer func(slot any) error

type Entry struct {
	Type         reflect.Type
	Key          string
	Kind         kind.Kind
	Dependencies []reflect.Type
	Construct    Constructor
	Finalize     Finalizer

	instance any
	cell     Cell
}

func NewEntry(t reflect.Type, k kind.Kind, deps []reflect.Type, construct Constructor) *Entry {
	d := make([]reflect.Type, len(deps))
	copy(d, deps)

	return &Entry{
		Type:         t,
		Key:          syrreflect.Key(t),
		Kind:         k,
		Dependencies: d,
		Construct:    construct,
	}
}

func NewInstanceEntry(t reflect.Type, slot any) *Entry {
	return &Entry{
		Type:     t,
		Key:      syrreflect.Key(t),
		Kind:     kind.Instance,
		instance: slot,
	}
}

func (e *Entry) DependencyKeys() []string {
	keys := make([]string, len(e.Dependencies))
	for i, dep := range e.Dependencies {
		keys[i] = syrreflect.Key(dep)
	}
	return keys
}

// Instantiated reports whether the entry currently holds a shared value.
func (e *Entry) Instantiated() bool {
	if e.cell == nil {
		return false
	}
	_, ok := e.cell.Load()
	return ok
}

// Registry is the ordered provider list of one scope. It is filled while the
// scope is being built and read-only afterwards, so it carries no lock of its
// own; Node serializes registration.
type Registry struct {
	entries []*Entry
	index   map[reflect.Type][]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[reflect.Type][]*Entry),
	}
}

func (r *Registry) Add(e *Entry) {
	r.entries = append(r.entries, e)
	r.index[e.Type] = append(r.index[e.Type], e)
}

// Lookup returns every local entry producing t, in registration order.
func (r *Registry) Lookup(t reflect.Type) []*Entry {
	return r.index[t]
}

func (r *Registry) Has(t reflect.Type) bool {
	return len(r.index[t]) > 0
}

func (r *Registry) Entries() []*Entry {
	entries := make([]*Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Duplicates returns the types registered more than once, in the order of
// their first registration.
func (r *Registry) Duplicates() []reflect.Type {
	var dups []reflect.Type
	seen := make(map[reflect.Type]bool)
	for _, e := range r.entries {
		if seen[e.Type] {
			continue
		}
		seen[e.Type] = true
		if len(r.index[e.Type]) > 1 {
			dups = append(dups, e.Type)
		}
	}
	return dups
}

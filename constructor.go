package syringe

import (
	"errors"
	"fmt"
	reflectPkg "reflect"

	"github.com/danpasecinic/syringe/internal/reflect"
)

// Constructor describes how to build a T: the ordered list of dependency
// types and a function receiving them positionally. Use Ctor, Ctor1..Ctor4,
// Func or Declare to obtain one.
type Constructor[T any] struct {
	deps  []reflectPkg.Type
	build func(args []any) (T, error)
	err   error
}

// Dependencies returns the ordered dependency list.
func (c Constructor[T]) Dependencies() []reflectPkg.Type {
	deps := make([]reflectPkg.Type, len(c.deps))
	copy(deps, c.deps)
	return deps
}

// Dep returns the type identifier used to declare a dependency on T.
func Dep[T any]() reflectPkg.Type {
	return reflect.TypeOf[T]()
}

// deref unwraps a dependency slot, a *A boxed in any.
func deref[A any](slot any) A {
	return *slot.(*A)
}

func Ctor[T any](fn func() T) Constructor[T] {
	return Constructor[T]{
		build: func([]any) (T, error) {
			return fn(), nil
		},
	}
}

func Ctor1[T, A any](fn func(A) T) Constructor[T] {
	return Constructor[T]{
		deps: []reflectPkg.Type{Dep[A]()},
		build: func(args []any) (T, error) {
			return fn(deref[A](args[0])), nil
		},
	}
}

func Ctor2[T, A, B any](fn func(A, B) T) Constructor[T] {
	return Constructor[T]{
		deps: []reflectPkg.Type{Dep[A](), Dep[B]()},
		build: func(args []any) (T, error) {
			return fn(deref[A](args[0]), deref[B](args[1])), nil
		},
	}
}

func Ctor3[T, A, B, C any](fn func(A, B, C) T) Constructor[T] {
	return Constructor[T]{
		deps: []reflectPkg.Type{Dep[A](), Dep[B](), Dep[C]()},
		build: func(args []any) (T, error) {
			return fn(deref[A](args[0]), deref[B](args[1]), deref[C](args[2])), nil
		},
	}
}

func Ctor4[T, A, B, C, D any](fn func(A, B, C, D) T) Constructor[T] {
	return Constructor[T]{
		deps: []reflectPkg.Type{Dep[A](), Dep[B](), Dep[C](), Dep[D]()},
		build: func(args []any) (T, error) {
			return fn(deref[A](args[0]), deref[B](args[1]), deref[C](args[2]), deref[D](args[3])), nil
		},
	}
}

// Func derives the dependency list from the parameters of fn, which must be
// func(D1, ..., Dn) T or func(D1, ..., Dn) (T, error).
func Func[T any](fn any) Constructor[T] {
	sig, err := reflect.FuncParams(fn)
	if err != nil {
		return Constructor[T]{err: err}
	}

	want := reflect.TypeOf[T]()
	if !sig.Out.AssignableTo(want) {
		return Constructor[T]{err: fmt.Errorf("constructor returns %s, expected %s", sig.Out, want)}
	}

	fnVal := reflectPkg.ValueOf(fn)
	return Constructor[T]{
		deps: sig.Params,
		build: func(args []any) (T, error) {
			var zero T

			in := make([]reflectPkg.Value, len(args))
			for i, slot := range args {
				in[i] = reflectPkg.ValueOf(slot).Elem()
			}

			results := fnVal.Call(in)
			if sig.HasError && !results[1].IsNil() {
				return zero, results[1].Interface().(error)
			}

			v, _ := results[0].Interface().(T)
			return v, nil
		},
	}
}

var errNilDeclareFunc = errors.New("declared constructor function is nil")

// Declare builds a Constructor from an explicit dependency list. fn receives
// the resolved values in the order of deps.
func Declare[T any](deps []reflectPkg.Type, fn func(args []any) (T, error)) Constructor[T] {
	if fn == nil {
		return Constructor[T]{err: errNilDeclareFunc}
	}
	for i, d := range deps {
		if d == nil {
			return Constructor[T]{err: fmt.Errorf("dependency %d is nil", i)}
		}
	}

	declared := make([]reflectPkg.Type, len(deps))
	copy(declared, deps)

	return Constructor[T]{
		deps: declared,
		build: func(args []any) (T, error) {
			values := make([]any, len(args))
			for i, slot := range args {
				values[i] = reflectPkg.ValueOf(slot).Elem().Interface()
			}
			return fn(values)
		},
	}
}

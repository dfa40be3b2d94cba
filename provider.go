package syringe

import (
	"errors"
	"fmt"
	"io"
	reflectPkg "reflect"

	"github.com/danpasecinic/syringe/internal/container"
	"github.com/danpasecinic/syringe/internal/kind"
	"github.com/danpasecinic/syringe/internal/reflect"
)

var errZeroConstructor = errors.New("zero Constructor value")

// Transient registers a provider that runs ctor on every resolution and hands
// out a fresh value each time.
func Transient[T any](b *Builder, ctor Constructor[T]) error {
	return provide(b, kind.Transient, ctor)
}

// Singleton registers a provider that runs ctor on first resolution and
// shares the result with every later resolution from this scope and its
// descendants. Dependencies of the first construction are resolved from the
// scope that asked first, but never from Singleton or Instance storage of a
// deeper scope: that resolution fails with ErrCodeLifetimeViolation. When the
// scope is released, a value implementing io.Closer is closed.
func Singleton[T any](b *Builder, ctor Constructor[T]) error {
	return provide(b, kind.Singleton, ctor)
}

// Instance registers an existing value. It has no dependencies and is never
// closed by the container.
func Instance[T any](b *Builder, value T) error {
	slot := new(T)
	*slot = value
	return b.register(container.NewInstanceEntry(reflect.TypeOf[T](), slot))
}

// Bind registers a transient provider of the interface I that resolves T.
func Bind[I, T any](b *Builder) error {
	iface := reflect.TypeOf[I]()
	impl := reflect.TypeOf[T]()

	if !reflect.IsInterface(iface) {
		return errInvalidConstructor(
			reflect.Key(iface), fmt.Errorf("bind target %s is not an interface", iface),
		)
	}
	if !reflect.Implements(impl, iface) {
		return errInvalidConstructor(
			reflect.Key(iface), fmt.Errorf("%s does not implement %s", impl, iface),
		)
	}

	return Transient(
		b, Constructor[I]{
			deps: []reflectPkg.Type{impl},
			build: func(args []any) (I, error) {
				return any(deref[T](args[0])).(I), nil
			},
		},
	)
}

func provide[T any](b *Builder, k kind.Kind, ctor Constructor[T]) error {
	t := reflect.TypeOf[T]()
	key := reflect.Key(t)

	if ctor.err != nil {
		return errInvalidConstructor(key, ctor.err)
	}
	if ctor.build == nil {
		return errInvalidConstructor(key, errZeroConstructor)
	}

	build := ctor.build
	entry := container.NewEntry(
		t, k, ctor.deps, func(args []any) (any, error) {
			v, err := build(args)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
	)
	if k == kind.Singleton {
		entry.Finalize = closeSlot[T]
	}

	return b.register(entry)
}

func closeSlot[T any](slot any) error {
	v := *slot.(*T)
	if reflect.IsNil(v) {
		return nil
	}
	if closer, ok := any(v).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Package syringetest wraps syringe builders and containers for use in tests:
// every helper fails the test instead of returning an error, and built
// containers are closed when the test ends.
package syringetest

import (
	"github.com/danpasecinic/syringe"
	"github.com/danpasecinic/syringe/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Cleanup(f func())
}

type TestBuilder struct {
	*syringe.Builder
	tb TB
}

type TestContainer struct {
	*syringe.Container
	tb TB
}

func New(tb TB, opts ...syringe.Option) *TestBuilder {
	tb.Helper()

	return &TestBuilder{
		Builder: syringe.New(opts...),
		tb:      tb,
	}
}

// RequireBuild builds the scope and closes it during test cleanup. Cleanups
// run in reverse order, so children built later are closed first.
func (b *TestBuilder) RequireBuild() *TestContainer {
	b.tb.Helper()

	c, err := b.Build()
	if err != nil {
		b.tb.Fatalf("failed to build container: %v", err)
	}

	b.tb.Cleanup(func() {
		if err := c.Close(); err != nil {
			b.tb.Errorf("failed to close container: %v", err)
		}
	})

	return &TestContainer{
		Container: c,
		tb:        b.tb,
	}
}

// RequireBuildError builds the scope and fails the test if that succeeds.
func (b *TestBuilder) RequireBuildError() error {
	b.tb.Helper()

	c, err := b.Build()
	if err == nil {
		_ = c.Close()
		b.tb.Fatal("expected build to fail")
	}
	return err
}

func (tc *TestContainer) Fork(opts ...syringe.Option) *TestBuilder {
	return &TestBuilder{
		Builder: tc.Container.Fork(opts...),
		tb:      tc.tb,
	}
}

func (tc *TestContainer) ForkShared(opts ...syringe.Option) *TestBuilder {
	return &TestBuilder{
		Builder: tc.Container.ForkShared(opts...),
		tb:      tc.tb,
	}
}

// Override returns a built child scope in which T resolves to value. Every
// other type still comes from tc.
func Override[T any](tc *TestContainer, value T) *TestContainer {
	tc.tb.Helper()

	child := tc.Fork()
	MustInstance(child, value)
	return child.RequireBuild()
}

func RequireVerify[T any](tc *TestContainer) {
	tc.tb.Helper()

	if err := syringe.Verify[T](tc.Container); err != nil {
		tc.tb.Fatalf("cannot resolve %s: %v", reflect.TypeKey[T](), err)
	}
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !syringe.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKey[T]())
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if syringe.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", reflect.TypeKey[T]())
	}
}

func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := syringe.Resolve[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustBorrow[T any](tc *TestContainer) *T {
	tc.tb.Helper()

	v, err := syringe.Borrow[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to borrow %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustTransient[T any](b *TestBuilder, ctor syringe.Constructor[T]) {
	b.tb.Helper()

	if err := syringe.Transient(b.Builder, ctor); err != nil {
		b.tb.Fatalf("failed to provide %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustSingleton[T any](b *TestBuilder, ctor syringe.Constructor[T]) {
	b.tb.Helper()

	if err := syringe.Singleton(b.Builder, ctor); err != nil {
		b.tb.Fatalf("failed to provide %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustInstance[T any](b *TestBuilder, value T) {
	b.tb.Helper()

	if err := syringe.Instance(b.Builder, value); err != nil {
		b.tb.Fatalf("failed to provide value %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustBind[I, T any](b *TestBuilder) {
	b.tb.Helper()

	if err := syringe.Bind[I, T](b.Builder); err != nil {
		b.tb.Fatalf("failed to bind %s: %v", reflect.TypeKey[I](), err)
	}
}

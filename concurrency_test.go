package syringe_test

import (
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/syringe"
)

func TestConcurrentSingletonConstructsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	b := syringe.New()
	_ = syringe.Instance(b, &Config{})
	_ = syringe.Singleton(
		b, syringe.Ctor1(
			func(cfg *Config) *Database {
				calls.Add(1)
				return NewDatabase(cfg)
			},
		),
	)
	root := b.MustBuild()

	const workers = 32
	results := make([]*Database, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(
			func() error {
				child, err := root.ForkShared().Build()
				if err != nil {
					return err
				}
				defer child.Close()

				db, err := syringe.Resolve[*Database](child)
				if err != nil {
					return err
				}
				results[i] = db
				return nil
			},
		)
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent resolution failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 construction, got %d", calls.Load())
	}
	for i, db := range results {
		if db != results[0] {
			t.Errorf("worker %d got a different instance", i)
		}
	}
}

func TestConcurrentTransientResolution(t *testing.T) {
	t.Parallel()

	b := syringe.New()
	_ = syringe.Transient(b, syringe.Ctor(NewRequest))
	c := b.MustBuild()

	const workers = 16
	ids := make([]string, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(
			func() error {
				r, err := syringe.Resolve[*Request](c)
				if err != nil {
					return err
				}
				ids[i] = r.ID
				return nil
			},
		)
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent resolution failed: %v", err)
	}

	seen := make(map[string]bool, workers)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate transient id %s", id)
		}
		seen[id] = true
	}
}

func TestConcurrentForkBuildAndClose(t *testing.T) {
	t.Parallel()

	root := syringe.New().MustBuild()

	const workers = 32
	builders := make([]*syringe.Builder, workers)
	for i := range builders {
		builders[i] = root.Fork()
	}

	var built atomic.Int32
	var closeErr error

	var g errgroup.Group
	for _, b := range builders {
		g.Go(
			func() error {
				if _, err := b.Build(); err != nil {
					if !syringe.IsLifetimeViolation(err) {
						return err
					}
					return nil
				}
				built.Add(1)
				return nil
			},
		)
	}
	g.Go(
		func() error {
			closeErr = root.Close()
			return nil
		},
	)

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	switch {
	case closeErr == nil && built.Load() > 0:
		t.Errorf("%d children were built on a closed parent", built.Load())
	case closeErr != nil && !syringe.IsLifetimeViolation(closeErr):
		t.Errorf("expected lifetime violation, got %v", closeErr)
	case closeErr != nil && built.Load() == 0:
		t.Error("Close must only fail while a borrowed child is open")
	}
}

func TestConcurrentBuildOfOneBuilder(t *testing.T) {
	t.Parallel()

	root := syringe.New().MustBuild()
	b := root.Fork()
	_ = syringe.Instance(b, &Config{})

	const workers = 16
	var built atomic.Int32
	var child atomic.Pointer[syringe.Container]

	var g errgroup.Group
	for range workers {
		g.Go(
			func() error {
				c, err := b.Build()
				if err != nil {
					if !syringe.IsFrozen(err) {
						return err
					}
					return nil
				}
				built.Add(1)
				child.Store(c)
				return nil
			},
		)
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if built.Load() != 1 {
		t.Fatalf("expected exactly one build, got %d", built.Load())
	}

	if err := child.Load().Close(); err != nil {
		t.Fatalf("child Close failed: %v", err)
	}
	if err := root.Close(); err != nil {
		t.Errorf("expected the parent to be borrowed once, got %v", err)
	}
}

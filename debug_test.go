package syringe_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danpasecinic/syringe"
)

func TestPrintGraphEmpty(t *testing.T) {
	t.Parallel()

	c := syringe.New().MustBuild()

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	if !strings.Contains(buf.String(), "empty container") {
		t.Errorf("expected empty container message, got: %s", buf.String())
	}
}

func TestPrintGraph(t *testing.T) {
	t.Parallel()

	b := syringe.New()
	_ = syringe.Instance(b, &Config{Port: 8080})
	_ = syringe.Singleton(b, syringe.Ctor1(NewDatabase))
	c := b.MustBuild()

	output := c.SprintGraph()
	if !strings.Contains(output, "Config") {
		t.Errorf("expected Config in output, got: %s", output)
	}
	if !strings.Contains(output, "Database") {
		t.Errorf("expected Database in output, got: %s", output)
	}
	if !strings.Contains(output, "[singleton]") {
		t.Errorf("expected kind in output, got: %s", output)
	}
	if !strings.Contains(output, "←") {
		t.Errorf("expected dependency arrow, got: %s", output)
	}
}

func TestPrintGraphWithInstantiated(t *testing.T) {
	t.Parallel()

	b := syringe.New()
	_ = syringe.Instance(b, &Config{Port: 8080})
	_ = syringe.Singleton(b, syringe.Ctor1(NewDatabase))
	c := b.MustBuild()

	before := c.SprintGraph()
	if strings.Count(before, "●") != 1 {
		t.Errorf("expected only the instance to be filled, got: %s", before)
	}

	_ = syringe.MustResolve[*Database](c)

	after := c.SprintGraph()
	if strings.Count(after, "●") != 2 {
		t.Errorf("expected the singleton to be filled, got: %s", after)
	}
}

func TestGraphAcrossScopes(t *testing.T) {
	t.Parallel()

	rb := syringe.New()
	_ = syringe.Instance(rb, &Config{Host: "root"})
	_ = syringe.Singleton(rb, syringe.Ctor1(NewDatabase))
	root := rb.MustBuild()

	cb := root.Fork()
	_ = syringe.Instance(cb, &Config{Host: "child"})
	child := cb.MustBuild()

	info := child.Graph()
	if info.Scope != child.ID() {
		t.Errorf("expected scope %s, got %s", child.ID(), info.Scope)
	}
	if len(info.Services) != 3 {
		t.Fatalf("expected 3 services, got %d", len(info.Services))
	}

	first := info.Services[0]
	if first.Scope != child.ID() || first.Depth != 1 || first.Shadowed {
		t.Errorf("expected the child config first, got %+v", first)
	}

	var shadowed, db syringe.ServiceInfo
	for _, svc := range info.Services[1:] {
		if svc.Shadowed {
			shadowed = svc
		} else {
			db = svc
		}
	}
	if shadowed.Key != first.Key || shadowed.Scope != root.ID() {
		t.Errorf("expected the root config to be shadowed, got %+v", shadowed)
	}
	if db.Kind != syringe.KindSingleton || len(db.Dependencies) != 1 {
		t.Errorf("unexpected database info %+v", db)
	}
	if len(first.Dependents) != 1 || first.Dependents[0] != db.Key {
		t.Errorf("expected database to depend on the child config, got %v", first.Dependents)
	}
}

func TestPrintGraphDOT(t *testing.T) {
	t.Parallel()

	rb := syringe.New()
	_ = syringe.Instance(rb, &Config{Port: 8080})
	root := rb.MustBuild()

	cb := root.Fork()
	_ = syringe.Transient(cb, syringe.Ctor1(NewDatabase))
	child := cb.MustBuild()

	output := child.SprintGraphDOT()

	if !strings.Contains(output, "digraph dependencies") {
		t.Error("expected DOT header")
	}
	if strings.Count(output, "subgraph cluster_") != 2 {
		t.Errorf("expected one cluster per scope, got: %s", output)
	}
	if !strings.Contains(output, "->") {
		t.Error("expected edges in DOT output")
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "}") {
		t.Error("expected DOT footer")
	}
}

func TestPrintGraphTable(t *testing.T) {
	t.Parallel()

	b := syringe.New()
	_ = syringe.Instance(b, &Config{})
	_ = syringe.Singleton(b, syringe.Ctor1(NewDatabase))
	_ = syringe.Transient(b, syringe.Ctor(NewRequest))
	c := b.MustBuild()

	_ = syringe.MustResolve[*Database](c)

	output := c.SprintGraphTable()
	for _, want := range []string{"SERVICE", "KIND", "singleton", "transient", "instance", "ready"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in table, got:\n%s", want, output)
		}
	}
}

package syringe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type GraphInfo struct {
	Scope    string
	Services []ServiceInfo
}

// ServiceInfo describes one provider visible from a scope.
type ServiceInfo struct {
	Key          string
	Kind         Kind
	Scope        string
	Depth        int
	Dependencies []string
	Dependents   []string
	Instantiated bool
	// Shadowed is set when a nearer scope provides the same type.
	Shadowed bool
}

// Graph lists every provider visible from c, nearest scope first and in
// registration order within a scope.
func (c *Container) Graph() GraphInfo {
	g := c.node.VisibleGraph()
	visible := c.node.VisibleEntries()
	services := make([]ServiceInfo, 0, len(visible))

	for _, v := range visible {
		var dependents []string
		if !v.Shadowed {
			dependents = g.GetDependents(v.Entry.Key)
		}

		services = append(
			services, ServiceInfo{
				Key:          v.Entry.Key,
				Kind:         v.Entry.Kind,
				Scope:        v.Owner.ID(),
				Depth:        v.Owner.Depth(),
				Dependencies: v.Entry.DependencyKeys(),
				Dependents:   dependents,
				Instantiated: v.Entry.Instantiated(),
				Shadowed:     v.Shadowed,
			},
		)
	}

	return GraphInfo{Scope: c.ID(), Services: services}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Services) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, svc := range info.Services {
		status := "○"
		if svc.Instantiated {
			status = "●"
		}

		line := fmt.Sprintf("%s %s [%s]", status, svc.Key, svc.Kind)
		if svc.Depth > 0 {
			line += fmt.Sprintf(" ^%d", svc.Depth)
		}
		if svc.Shadowed {
			line += " (shadowed)"
		}
		if len(svc.Dependencies) > 0 {
			line += " ← " + strings.Join(svc.Dependencies, ", ")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes the graph in Graphviz format with one cluster per
// scope. Shadowed providers are drawn dashed and have no edges.
func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	var scopes []string
	byScope := make(map[string][]ServiceInfo)
	for _, svc := range info.Services {
		if _, ok := byScope[svc.Scope]; !ok {
			scopes = append(scopes, svc.Scope)
		}
		byScope[svc.Scope] = append(byScope[svc.Scope], svc)
	}

	for i, scope := range scopes {
		_, _ = fmt.Fprintf(w, "  subgraph cluster_%d {\n", i)
		_, _ = fmt.Fprintf(w, "    label=%q;\n", "scope "+shortID(scope))
		for _, svc := range byScope[scope] {
			id := nodeID(svc)
			style := ""
			switch {
			case svc.Shadowed:
				style = ", style=dashed"
			case svc.Instantiated:
				style = ", style=filled, fillcolor=lightblue"
			}
			_, _ = fmt.Fprintf(w, "    %q [label=%q%s];\n", id, escapeLabel(svc.Key), style)
		}
		_, _ = fmt.Fprintln(w, "  }")
	}

	_, _ = fmt.Fprintln(w)

	owner := make(map[string]ServiceInfo)
	for _, svc := range info.Services {
		if !svc.Shadowed {
			owner[svc.Key] = svc
		}
	}

	for _, svc := range info.Services {
		if svc.Shadowed {
			continue
		}
		for _, dep := range svc.Dependencies {
			target := dep
			if d, ok := owner[dep]; ok {
				target = nodeID(d)
			}
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", nodeID(svc), target)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// FprintGraphTable renders the graph as a table.
func (c *Container) FprintGraphTable(w io.Writer) {
	info := c.Graph()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("scope " + shortID(info.Scope))
	t.AppendHeader(table.Row{"Service", "Kind", "Scope", "Depth", "Dependencies", "Status"})

	for _, svc := range info.Services {
		status := "pending"
		switch {
		case svc.Shadowed:
			status = "shadowed"
		case svc.Kind == KindTransient:
			status = "-"
		case svc.Instantiated:
			status = "ready"
		}

		t.AppendRow(
			table.Row{
				svc.Key,
				svc.Kind.String(),
				shortID(svc.Scope),
				svc.Depth,
				strings.Join(svc.Dependencies, ", "),
				status,
			},
		)
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}

func (c *Container) SprintGraphTable() string {
	var sb strings.Builder
	c.FprintGraphTable(&sb)
	return sb.String()
}

func nodeID(svc ServiceInfo) string {
	return shortID(svc.Scope) + "/" + svc.Key
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}

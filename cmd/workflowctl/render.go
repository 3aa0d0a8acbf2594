package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// graphDoc is the serializable view of one kind definition.
type graphDoc struct {
	Kind        string              `yaml:"kind"`
	Initial     string              `yaml:"initial"`
	States      []string            `yaml:"states"`
	Terminal    []string            `yaml:"terminal"`
	Transitions map[string][]string `yaml:"transitions"`
	SideEffects []string            `yaml:"side_effects,omitempty"`
	Editable    map[string][]string `yaml:"editable,omitempty"`
}

func describe(def workflow.KindDefinition) graphDoc {
	m := def.Machine
	doc := graphDoc{
		Kind:        string(def.Kind),
		Initial:     m.Initial().Name(),
		Transitions: make(map[string][]string),
	}
	for _, s := range m.States() {
		doc.States = append(doc.States, s.Name())
		if m.IsTerminal(s) {
			doc.Terminal = append(doc.Terminal, s.Name())
			continue
		}
		next := m.Next(s)
		targets := make([]string, 0, len(next))
		for _, n := range next {
			targets = append(targets, n.Name())
		}
		doc.Transitions[s.Name()] = targets
	}
	for _, rule := range def.Rules {
		from := "*"
		if rule.From != nil {
			from = rule.From.Name()
		}
		doc.SideEffects = append(doc.SideEffects, from+" -> "+rule.To.Name())
	}
	if len(def.Editable) > 0 {
		doc.Editable = make(map[string][]string, len(def.Editable))
		for field, states := range def.Editable {
			names := make([]string, 0, len(states))
			for _, s := range states {
				names = append(names, s.Name())
			}
			doc.Editable[field] = names
		}
	}
	return doc
}

func writeYAML(w io.Writer, docs []graphDoc) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", doc.Kind, err)
		}
	}
	return enc.Close()
}

// writeDOT renders doc as a Graphviz digraph. Terminal states are drawn as
// double circles and the initial state is bold.
func writeDOT(w io.Writer, doc graphDoc) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", doc.Kind)
	b.WriteString("  rankdir=LR;\n")
	for _, s := range doc.States {
		shape := "circle"
		if slices.Contains(doc.Terminal, s) {
			shape = "doublecircle"
		}
		style := ""
		if s == doc.Initial {
			style = ", style=bold"
		}
		fmt.Fprintf(&b, "  %q [shape=%s%s];\n", s, shape, style)
	}
	for _, from := range doc.States {
		for _, to := range doc.Transitions[from] {
			fmt.Fprintf(&b, "  %q -> %q;\n", from, to)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeMermaid renders doc as a Mermaid state diagram with each edge labelled
// by the action that performs it.
func writeMermaid(w io.Writer, doc graphDoc, label func(to string) string) error {
	var b strings.Builder
	b.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&b, "    [*] --> %s\n", doc.Initial)
	for _, from := range doc.States {
		for _, to := range doc.Transitions[from] {
			fmt.Fprintf(&b, "    %s --> %s: %s\n", from, to, label(to))
		}
	}
	for _, s := range doc.Terminal {
		fmt.Fprintf(&b, "    %s --> [*]\n", s)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

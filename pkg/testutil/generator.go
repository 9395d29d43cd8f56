// Package testutil provides mind-map fixtures and assertion helpers.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/tree"
)

// collapsedSuffix marks a node as collapsed in Outline fixtures.
const collapsedSuffix = " (collapsed)"

// Outline builds a tree from indented lines. Each level of indentation is two
// spaces; the trimmed line is used as both id and text. A trailing
// " (collapsed)" marks the node collapsed. The first line is the root.
//
//	testutil.Outline(
//		"root",
//		"  A",
//		"    A1",
//		"    A2",
//		"  B (collapsed)",
//		"    B1",
//	)
//
// Outline panics on malformed input; it is meant for literal fixtures.
func Outline(lines ...string) model.Tree {
	if len(lines) == 0 {
		panic("testutil.Outline: no lines")
	}
	b := model.NewBuilder()
	var stack []model.NodeID // stack[d] = last node seen at depth d
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		if indent%2 != 0 {
			panic(fmt.Sprintf("testutil.Outline: line %d has odd indentation: %q", i, line))
		}
		depth := indent / 2
		expanded := true
		if strings.HasSuffix(trimmed, collapsedSuffix) {
			expanded = false
			trimmed = strings.TrimSuffix(trimmed, collapsedSuffix)
		}
		id := model.NodeID(trimmed)
		n := model.Node{ID: id, Text: trimmed, Expanded: expanded, Depth: depth}

		switch {
		case i == 0:
			if depth != 0 {
				panic("testutil.Outline: root must not be indented")
			}
			b.SetRoot(id)
		case depth == 0 || depth > len(stack):
			panic(fmt.Sprintf("testutil.Outline: line %d jumps indentation: %q", i, line))
		default:
			parentID := stack[depth-1]
			parent, _ := b.Get(parentID)
			parent.Children = append(parent.Children, id)
			b.Put(parent)
			n.ParentID = model.ParentRef(parentID)
		}
		if b.Has(id) {
			panic(fmt.Sprintf("testutil.Outline: duplicate id %q", id))
		}
		b.Put(n)
		stack = append(stack[:depth], id)
	}
	return b.Build()
}

// GeneratorConfig controls random tree generation.
type GeneratorConfig struct {
	Seed         int64   // Random seed for determinism (0 = 42)
	IDPrefix     string  // Prefix for generated ids (default: "n")
	CollapseRate float64 // Probability a generated node ends up collapsed
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "n",
	}
}

// Generator creates test trees with various shapes.
type Generator struct {
	cfg   GeneratorConfig
	rng   *rand.Rand
	store *tree.Store
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "n"
	}
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		store: tree.NewStore(&tree.SequentialIDs{Prefix: cfg.IDPrefix}),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Store returns the store the generator grows trees with, so callers can
// keep mutating with the same id sequence.
func (g *Generator) Store() *tree.Store {
	return g.store
}

func single(text string) model.Tree {
	return model.NewBuilder().
		SetRoot("root").
		Put(model.Node{ID: "root", Text: text, Expanded: true}).
		Build()
}

// Chain creates root -> n1 -> n2 -> ... with size nodes below the root.
func (g *Generator) Chain(size int) model.Tree {
	t := single("root")
	last := t.RootID()
	for i := 0; i < size; i++ {
		var id model.NodeID
		t, id, _ = g.store.AddChild(t, last)
		t, _ = g.store.UpdateText(t, id, fmt.Sprintf("chain %d", i+1))
		last = id
	}
	return t
}

// Star creates a root with spokes direct children.
func (g *Generator) Star(spokes int) model.Tree {
	t := single("hub")
	for i := 0; i < spokes; i++ {
		var id model.NodeID
		t, id, _ = g.store.AddChild(t, t.RootID())
		t, _ = g.store.UpdateText(t, id, fmt.Sprintf("spoke %d", i+1))
	}
	return t
}

// Balanced creates a full tree of the given depth where every internal node
// has breadth children.
func (g *Generator) Balanced(depth, breadth int) model.Tree {
	if depth < 0 {
		depth = 0
	}
	if breadth < 1 {
		breadth = 1
	}
	t := single("root")
	level := []model.NodeID{t.RootID()}
	for d := 0; d < depth; d++ {
		var next []model.NodeID
		for _, parent := range level {
			for i := 0; i < breadth; i++ {
				var id model.NodeID
				t, id, _ = g.store.AddChild(t, parent)
				next = append(next, id)
			}
		}
		level = next
	}
	return t
}

// Random grows a tree of size extra nodes by attaching each new node to a
// uniformly chosen existing node, with random text lengths.
func (g *Generator) Random(size int) model.Tree {
	t := single("root")
	ids := []model.NodeID{t.RootID()}
	for i := 0; i < size; i++ {
		parent := ids[g.rng.Intn(len(ids))]
		var id model.NodeID
		t, id, _ = g.store.AddChild(t, parent)
		t, _ = g.store.UpdateText(t, id, g.words(1+g.rng.Intn(8)))
		ids = append(ids, id)
	}
	if g.cfg.CollapseRate > 0 {
		for _, id := range ids {
			if g.rng.Float64() < g.cfg.CollapseRate {
				t, _ = g.store.SetExpanded(t, id, false)
			}
		}
	}
	return t
}

var vocabulary = []string{
	"plan", "design", "review", "ship", "market", "goals", "budget", "hire",
	"research", "launch", "metrics", "risk", "q3", "roadmap", "prototype",
}

func (g *Generator) words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = vocabulary[g.rng.Intn(len(vocabulary))]
	}
	return strings.Join(parts, " ")
}

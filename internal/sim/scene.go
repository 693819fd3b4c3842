// Package sim evaluates synthetic node-graph scenes against the trace
// subsystem. The real evaluation engine lives elsewhere; the simulator
// stands in for it in tests and in the CLI, exercising the same logging
// calls the engine would make, across a real worker pool.
package sim

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"geotrace/internal/geolog"
	"geotrace/internal/graph"
)

// Scene is a TOML-described synthetic evaluation: a set of trees, one of
// them the modifier's main tree, plus the worker count to run with.
type Scene struct {
	Name    string     `toml:"name"`
	Workers int        `toml:"workers"`
	Trees   []TreeSpec `toml:"tree"`
}

// TreeSpec describes one node tree of a scene.
type TreeSpec struct {
	Name  string     `toml:"name"`
	Main  bool       `toml:"main"`
	Nodes []NodeSpec `toml:"node"`
	Zones []ZoneSpec `toml:"zone"`
}

// NodeSpec describes one node and what it logs when "executed".
type NodeSpec struct {
	ID    int32  `toml:"id"`
	Label string `toml:"label"`
	// Group names another tree evaluated in a child context.
	Group string `toml:"group"`
	// Viewer nodes snapshot their incoming geometry.
	Viewer bool `toml:"viewer"`
	// Gizmo nodes register their evaluation.
	Gizmo bool `toml:"gizmo"`

	Warning  string `toml:"warning"`
	Severity string `toml:"severity"`

	// DurationUS is the simulated execution time in microseconds.
	DurationUS int64 `toml:"duration_us"`

	// Value/IntValue produce an opaque-copy output on socket 0.
	Value    *float64 `toml:"value"`
	IntValue *int64   `toml:"int_value"`

	// Verts, when set, produces a mesh geometry output on socket 0
	// carrying the listed attributes.
	Verts int        `toml:"verts"`
	Attrs []AttrSpec `toml:"attrs"`

	Reads  []string `toml:"reads"`
	Writes []string `toml:"writes"`

	Debug string `toml:"debug"`
}

// AttrSpec describes one attribute on a synthetic geometry. Domain and
// type may be empty for referenced-only attributes.
type AttrSpec struct {
	Name   string `toml:"name"`
	Domain string `toml:"domain"`
	Type   string `toml:"type"`
}

// ZoneSpec describes a zone of a tree and how often its body repeats.
type ZoneSpec struct {
	Kind       string  `toml:"kind"`
	Input      int32   `toml:"input"`
	Output     int32   `toml:"output"`
	Iterations int     `toml:"iterations"`
	Nodes      []int32 `toml:"nodes"`
}

// ErrNoMainTree indicates a scene without a tree marked main.
var ErrNoMainTree = errors.New("scene has no main tree")

// LoadScene parses a scene manifest from a TOML file.
func LoadScene(path string) (*Scene, error) {
	var s Scene
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseScene parses a scene manifest from TOML text.
func ParseScene(text string) (*Scene, error) {
	var s Scene
	if _, err := toml.Decode(text, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if _, err := s.MainTree(); err != nil {
		return err
	}
	for ti := range s.Trees {
		tree := &s.Trees[ti]
		for _, n := range tree.Nodes {
			if n.Group != "" && s.tree(n.Group) == nil {
				return fmt.Errorf("tree %q: node %d references unknown group %q", tree.Name, n.ID, n.Group)
			}
			if n.Severity != "" {
				if _, err := parseSeverity(n.Severity); err != nil {
					return fmt.Errorf("tree %q: node %d: %w", tree.Name, n.ID, err)
				}
			}
		}
		for _, z := range tree.Zones {
			if _, err := parseZoneKind(z.Kind); err != nil {
				return fmt.Errorf("tree %q: zone %d: %w", tree.Name, z.Output, err)
			}
		}
	}
	return nil
}

// ModifierName returns the modifier name the scene evaluates under.
func (s *Scene) ModifierName() string {
	if s.Name == "" {
		return "GeometryNodes"
	}
	return s.Name
}

// MainTree returns the tree the modifier evaluates.
func (s *Scene) MainTree() (*TreeSpec, error) {
	for i := range s.Trees {
		if s.Trees[i].Main {
			return &s.Trees[i], nil
		}
	}
	return nil, ErrNoMainTree
}

func (s *Scene) tree(name string) *TreeSpec {
	for i := range s.Trees {
		if s.Trees[i].Name == name {
			return &s.Trees[i]
		}
	}
	return nil
}

func parseSeverity(s string) (geolog.WarningType, error) {
	switch s {
	case "", "warning":
		return geolog.WarningWarn, nil
	case "error":
		return geolog.WarningError, nil
	case "info":
		return geolog.WarningInfo, nil
	default:
		return 0, fmt.Errorf("invalid severity %q (expected: error|warning|info)", s)
	}
}

func parseZoneKind(s string) (graph.ZoneKind, error) {
	switch s {
	case "repeat":
		return graph.ZoneRepeat, nil
	case "foreach":
		return graph.ZoneForeach, nil
	case "simulation":
		return graph.ZoneSimulation, nil
	default:
		return 0, fmt.Errorf("invalid zone kind %q (expected: repeat|foreach|simulation)", s)
	}
}

// Graph builds the read-only graph view of the scene's main tree, the
// structure UI queries work against.
func (s *Scene) Graph() (*graph.Tree, error) {
	main, err := s.MainTree()
	if err != nil {
		return nil, err
	}
	t := &graph.Tree{Name: main.Name}
	for _, n := range main.Nodes {
		t.Nodes = append(t.Nodes, graph.Node{ID: n.ID, Label: n.Label})
	}
	for _, z := range main.Zones {
		kind, err := parseZoneKind(z.Kind)
		if err != nil {
			return nil, err
		}
		t.Zones = append(t.Zones, &graph.Zone{
			Kind:         kind,
			InputNodeID:  z.Input,
			OutputNodeID: z.Output,
			NodeIDs:      z.Nodes,
		})
	}
	return t, nil
}

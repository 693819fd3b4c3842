package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"geotrace/internal/compute"
	"geotrace/internal/geolog"
	"geotrace/internal/graph"
	"geotrace/internal/query"
	"geotrace/internal/sim"
	"geotrace/internal/snapshot"
)

var (
	severityError = color.New(color.FgRed, color.Bold)
	severityWarn  = color.New(color.FgYellow)
	severityInfo  = color.New(color.FgBlue)
	headerColor   = color.New(color.FgCyan, color.Bold)
	dimColor      = color.New(color.Faint)
)

var runCmd = &cobra.Command{
	Use:   "run <scene.toml>",
	Short: "Evaluate a scene and print the captured trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		m, tree, scene, err := evaluateScene(cmd, args[0])
		if err != nil {
			return err
		}
		root := compute.NewModifierContext(scene.ModifierName())
		printTreeLog(cmd, scene.ModifierName(), tree, m.TreeLog(root.Hash()))

		// Zones of the main tree get their own section per context.
		zones := query.ContextHashByZone(tree, graph.EditorPath{ModifierName: scene.ModifierName()}, m, nil)
		ids := make([]int32, 0, len(zones))
		for id := range zones {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			z := tree.ZoneByOutput(id)
			cmd.Printf("\n%s\n", headerColor.Sprintf("zone %s (output node %d)", z.Kind, id))
			printTreeLog(cmd, "", nil, m.TreeLog(zones[id]))
		}
		return nil
	},
}

// evaluateScene loads and runs a scene manifest with the configured pool.
func evaluateScene(cmd *cobra.Command, path string) (*geolog.ModifierLog, *graph.Tree, *sim.Scene, error) {
	scene, err := sim.LoadScene(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		scene.Workers = workers
	}
	m, tree, err := sim.Run(cmd.Context(), scene)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("evaluate scene: %w", err)
	}
	return m, tree, scene, nil
}

// printTreeLog writes the reduced log of one context in a compact listing.
func printTreeLog(cmd *cobra.Command, title string, tree *graph.Tree, log *geolog.TreeLog) {
	log.EnsureNodeWarnings(tree)
	log.EnsureExecutionTimes()
	log.EnsureSocketValues()
	log.EnsureUsedNamedAttributes()
	log.EnsureExistingAttributes()
	log.EnsureEvaluatedGizmoNodes()

	if title != "" {
		cmd.Printf("%s  %s\n", headerColor.Sprint(title), formatTotal(log.ExecutionTime))
	}
	ids := make([]int32, 0, len(log.Nodes))
	for id := range log.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := log.Nodes[id]
		label := fmt.Sprintf("node %d", id)
		if tree != nil {
			if node := tree.Node(id); node != nil && node.Label != "" {
				label = fmt.Sprintf("%s (%d)", node.Label, id)
			}
		}
		cmd.Printf("  %-28s %s\n", label, formatTotal(n.ExecutionTime))
		for _, w := range n.Warnings.Slice() {
			cmd.Printf("    %s %s\n", severityColor(w.Type).Sprint(w.Type.String()), w.Message)
		}
		printValues(cmd, n.InputValues, "in")
		printValues(cmd, n.OutputValues, "out")
	}

	if len(log.ExistingAttributes) > 0 {
		cmd.Printf("  %s", dimColor.Sprint("attributes:"))
		for _, a := range log.ExistingAttributes {
			if a.Known() {
				cmd.Printf(" %s(%s/%s)", a.Name, a.Domain, a.Type)
			} else {
				cmd.Printf(" %s(?)", a.Name)
			}
		}
		cmd.Println()
	}
	if len(log.UsedNamedAttributes) > 0 {
		names := make([]string, 0, len(log.UsedNamedAttributes))
		for name := range log.UsedNamedAttributes {
			names = append(names, name)
		}
		sort.Strings(names)
		cmd.Printf("  %s", dimColor.Sprint("named usage:"))
		for _, name := range names {
			cmd.Printf(" %s=%s", name, log.UsedNamedAttributes[name])
		}
		cmd.Println()
	}
}

func printValues(cmd *cobra.Command, values map[int]*geolog.ValueLog, dir string) {
	idx := make([]int, 0, len(values))
	for i := range values {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		cmd.Printf("    %s[%d] = %s\n", dir, i, snapshot.RenderValue(values[i]))
	}
}

func severityColor(t geolog.WarningType) *color.Color {
	switch t {
	case geolog.WarningError:
		return severityError
	case geolog.WarningWarn:
		return severityWarn
	default:
		return severityInfo
	}
}

func formatTotal(d time.Duration) string {
	if d == 0 {
		return dimColor.Sprint("-")
	}
	return d.String()
}

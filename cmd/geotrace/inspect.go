package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geotrace/internal/compute"
	"geotrace/internal/graph"
	"geotrace/internal/query"
	"geotrace/internal/ui"
)

var inspectZone int32

func init() {
	inspectCmd.Flags().Int32Var(&inspectZone, "zone", 0, "inspect the zone with this output node instead of the main tree")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <scene.toml>",
	Short: "Browse a captured trace interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		m, tree, scene, err := evaluateScene(cmd, args[0])
		if err != nil {
			return err
		}

		title := scene.ModifierName()
		log := m.TreeLog(compute.NewModifierContext(title).Hash())
		logTree := tree
		if inspectZone != 0 {
			zones := query.ContextHashByZone(tree, graph.EditorPath{ModifierName: title}, m, nil)
			hash, ok := zones[inspectZone]
			if !ok {
				return fmt.Errorf("zone with output node %d was not evaluated", inspectZone)
			}
			log = m.TreeLog(hash)
			logTree = nil
			title = fmt.Sprintf("%s / zone %d", title, inspectZone)
		}

		// Without a terminal there is nothing to interact with; fall back
		// to the plain listing.
		if !isTerminal(os.Stdout) {
			printTreeLog(cmd, title, logTree, log)
			return nil
		}

		_, err = tea.NewProgram(ui.NewInspector(title, logTree, log), tea.WithAltScreen()).Run()
		return err
	},
}

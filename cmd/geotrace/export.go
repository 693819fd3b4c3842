package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"geotrace/internal/compute"
	"geotrace/internal/snapshot"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "trace.msgpack", "snapshot output path")
}

var exportCmd = &cobra.Command{
	Use:   "export <scene.toml>",
	Short: "Evaluate a scene and export the trace snapshot",
	Long:  `Export writes a msgpack snapshot of the reduced trace for bug reports and offline inspection.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, scene, err := evaluateScene(cmd, args[0])
		if err != nil {
			return err
		}
		hash := compute.NewModifierContext(scene.ModifierName()).Hash()
		snap := snapshot.Build(scene.ModifierName(), hash, m.TreeLog(hash))

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		defer f.Close()
		if err := snap.Encode(f); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		cmd.Printf("wrote %s (%d nodes, %d warnings)\n", exportOutput, len(snap.Nodes), len(snap.AllWarnings))
		return nil
	},
}

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"volta/internal/project"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "Resolve and print the workspace library mapping",
	Long: `Reads the workspace manifest, expands every file glob and prints
which source files belong to which library.`,
	RunE: runLibraries,
}

func runLibraries(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	ws, err := project.Open(cmd.Context(), root)
	if err != nil {
		return err
	}

	nameColor := color.New(color.FgCyan, color.Bold)
	colored := useColor(cmd, os.Stdout)
	for _, lib := range ws.Libraries {
		name := lib.Name
		if colored {
			name = nameColor.Sprint(name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d files)\n", name, len(lib.Files))
		for _, id := range lib.Files {
			file := ws.FileSet.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", file.DisplayPath(ws.Root))
		}
	}
	return nil
}

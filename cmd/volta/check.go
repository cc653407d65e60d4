package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"volta/internal/diagfmt"
	"volta/internal/driver"
	"volta/internal/sema"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Analyze the workspace and report diagnostics",
	Long: `Parses every design file the manifest names, resolves names across
the workspace libraries and prints the diagnostics. Exits non-zero when
any error-level diagnostic is found.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include related notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "reuse stored diagnostics for unchanged workspaces")
	checkCmd.Flags().String("work", "work", "name denoting the working library")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return fmt.Errorf("failed to get root flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	withDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	workName, err := cmd.Flags().GetString("work")
	if err != nil {
		return fmt.Errorf("failed to get work flag: %w", err)
	}

	var cache *driver.DiskCache
	if withDiskCache {
		cache, err = driver.OpenDiskCache("volta")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	result, err := driver.CheckWorkspace(cmd.Context(), root, cache, sema.Options{WorkName: workName})
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.Workspace.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "json":
		err := diagfmt.JSON(os.Stdout, result.Bag, result.Workspace.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		// Diagnostics are already printed; keep the exit status without
		// a second message.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

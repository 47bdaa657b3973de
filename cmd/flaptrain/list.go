package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/optimize"
	"github.com/vovakirdan/flaptrain/internal/registry"
)

var flagDump string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes and optimizers",
	Long: `Shows the registered game modes with their feature counts, and the available optimizers.

--dump writes the resolved settings of one mode to configs/<mode>.yaml, a
starting point for an override file.

Examples:
  flaptrain list
  flaptrain list --dump complex`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagDump, "dump", "", "Write the mode's settings to configs/<mode>.yaml")
}

// dumpVariant writes the resolved mode to configs/<id>.yaml and returns
// the path. An existing file is never overwritten.
func dumpVariant(id string) (string, error) {
	v, err := loadVariant(id)
	if err != nil {
		return "", err
	}
	path := filepath.Join("configs", id+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := config.Save(path, v); err != nil {
		return "", err
	}
	return path, nil
}

func runList(cmd *cobra.Command, args []string) error {
	if flagDump != "" {
		path, err := dumpVariant(flagDump)
		if err != nil {
			return err
		}
		fmt.Printf("Settings of %s written to %s\n", flagDump, path)
		return nil
	}

	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return nil
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	fmt.Printf("  %-*s  %-8s  %-7s  %s\n", maxIDLen, "ID", "Features", "Actions", "Title")
	fmt.Printf("  %-*s  %-8s  %-7s  %s\n", maxIDLen, "--", "--------", "-------", "-----")

	for _, m := range modes {
		actions := "jump"
		if m.Dual {
			actions = "dual"
		}
		fmt.Printf("  %-*s  %-8d  %-7s  %s\n", maxIDLen, m.ID, m.Features, actions, m.Title)
	}

	fmt.Println()
	fmt.Println("Optimizers:")
	for _, name := range optimize.Names() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println()
	fmt.Println("Run 'flaptrain train --mode <id>' to train a policy.")
	return nil
}

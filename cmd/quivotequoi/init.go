package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/quivotequoi/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/quivotequoi.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new quivotequoi project file",
		Long: `Initialize creates a new .quivotequoi project file in the current directory.

The generated file documents:
- the term and output directory
- the members file and extracted amendment rows
- document reference corrections and skipped minutes records

Examples:
  # Create .quivotequoi in current directory
  quivotequoi init

  # Create the file at a specific path
  quivotequoi init -o project.yaml

  # Force overwrite existing file
  quivotequoi init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the project file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing project file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("project file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/quivotequoi.yaml")
	if err != nil {
		return fmt.Errorf("failed to read project template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created project file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - The members file used to resolve roll-call names")
	fmt.Fprintln(out, "  - Document reference corrections")
	fmt.Fprintln(out, "  - Minutes records to skip")

	return nil
}

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/aopsharvest/internal/config"
)

//go:embed templates/aopsharvest.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .aopsharvest file with the harvest defaults",
		Long: `Init writes a YAML file holding the settings 'aopsharvest harvest' would
otherwise take from flags: the contest (AMC_8, AMC_10A, AMC_10B), the
year ranges, the problem range, the output directory, and the execution
knobs (concurrency, timeout, cancel-on-error, proxy).

Every value in the generated file equals the built-in default, so a fresh
file changes nothing until it is edited. Flags passed to 'harvest' always
win over the file. 'harvest' looks for the file in the --config path, then
./.aopsharvest, then ~/.aopsharvest.

Examples:
  # Start a project directory that harvests AMC 10A
  aopsharvest init && sed -i 's/AMC_8/AMC_10A/' .aopsharvest

  # Keep a per-user default in the home directory
  aopsharvest init -o ~/.aopsharvest

  # Replace an existing file
  aopsharvest init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

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
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/aopsharvest.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  - set variant, years and problems for the contest you want")
	fmt.Fprintln(out, "  - run 'aopsharvest harvest' (flags still override the file)")

	return nil
}

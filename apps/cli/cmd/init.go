package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write .rentalsmoke.yaml with the default settings in the current directory.

Examples:
  rentalsmoke init
  rentalsmoke init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	path, err := writeStarterConfig(cwd, forceInit)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun the suite with:\n  rentalsmoke\n")
	return nil
}

func writeStarterConfig(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.ConfigFilenames[0])
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := config.DefaultConfig()
	cfg.HistoryDB = "rentalsmoke.db"
	if err := cfg.SaveConfig(path); err != nil {
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	return path, nil
}

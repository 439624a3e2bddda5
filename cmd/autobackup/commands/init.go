package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/autobackup/internal/config"
	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [FILE]",
	Short: "Write a sample configuration file",
	Long: `Write a sample configuration to FILE (default: ./autobackup.yaml).

A FILE ending in .toml is written as TOML, anything else as YAML.`,
	Example: `  # Create ./autobackup.yaml
  autobackup init

  # Create a TOML configuration elsewhere, replacing an existing one
  autobackup init /etc/autobackup.toml --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(c *cobra.Command, args []string) error {
	out := c.OutOrStdout()

	path := paths.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}

	exists, err := paths.Exists(path)
	if err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "checking %s", path), "")
	}
	if exists && !initForce {
		fmt.Fprintf(out, "Configuration already exists at %s\n", path)
		fmt.Fprintln(out, "Use --force to overwrite")
		return nil
	}

	if err := config.Write(path, config.Sample()); err != nil {
		return errors.NewSystemError(err, "Check that the directory exists and is writable")
	}

	fmt.Fprintf(out, "Created %s\n", path)
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/autobackup/internal/backup"
	"github.com/thoreinstein/autobackup/internal/config"
	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/paths"
)

func init() {
	addRootFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and show what each job would do",
	Long: `Validate the configuration file and list its backup jobs.

When --rootSrc and --rootDst are given, each job is also resolved against
the roots exactly as a real run would do it, without touching any file:
jobs escaping their root are reported as invalid and missing source
folders as nothing to do.`,
	Example: `  # Check the syntax and values of the configuration only
  autobackup validate --config autobackup.yaml

  # Also resolve every job against the roots
  autobackup validate --rootSrc /mnt/inbox --rootDst /mnt/archive`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(c *cobra.Command, _ []string) error {
	out := c.OutOrStdout()

	cfgPath, err := config.Find(configFile)
	if err != nil {
		return errors.NewUserError(err, "Pass --config FILE or create one with: autobackup init")
	}

	cfg, err := config.Read(cfgPath)
	if err != nil {
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(out, "Config: %s\n", cfgPath)
	problems := config.Validate(cfg)

	if rootSrc == "" && rootDst == "" {
		printJobs(c, cfg, nil)
	} else {
		plans, err := planJobs(cfg)
		if err != nil {
			return err
		}
		printJobs(c, cfg, plans)
		for _, p := range plans {
			if p.Status == backup.StatusInvalid {
				problems = append(problems, errors.Wrapf(p.Err, "job %s -> %s", p.Job.Source, p.Job.Destination))
			}
		}
	}

	if len(problems) > 0 {
		fmt.Fprintf(out, "\n%d problem(s) found:\n", len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "  - %v\n", p)
		}
		return errors.NewExitError(errors.Mark(errors.Newf("%d configuration problem(s)", len(problems)), errors.ErrInvalidConfig), errors.ExitUser)
	}

	fmt.Fprintln(out, "\nConfiguration is valid.")
	return nil
}

// planJobs resolves the jobs against both roots, which must exist.
func planJobs(cfg *config.Config) ([]backup.JobPlan, error) {
	if err := paths.RequireDir(rootSrc); err != nil {
		return nil, errors.NewUserError(err, "--rootSrc must be an existing directory")
	}
	if err := paths.RequireDir(rootDst); err != nil {
		return nil, errors.NewUserError(err, "--rootDst must be an existing directory")
	}

	mgr, err := backup.NewManager(rootSrc, rootDst)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}
	return mgr.Plan(cfg.Jobs()), nil
}

func printJobs(c *cobra.Command, cfg *config.Config, plans []backup.JobPlan) {
	out := c.OutOrStdout()

	headers := []string{"#", "SOURCE", "DESTINATION", "POLICY"}
	if plans != nil {
		headers = append(headers, "STATUS", "SOURCE PATH")
	}

	rows := make([][]string, 0, len(cfg.Backup))
	for i, f := range cfg.Backup {
		row := []string{fmt.Sprint(i), f.Source, f.Destination, f.FileExistsAction.String()}
		if i < len(plans) {
			row = append(row, string(plans[i].Status), plans[i].SourcePath)
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight}))
	fmt.Fprintf(out, "Ignored names: %v\n", cfg.FilesToIgnore)
	if len(cfg.IgnorePatterns) > 0 {
		fmt.Fprintf(out, "Ignored patterns: %v\n", cfg.IgnorePatterns)
	}
}

// Package commands implements the CLI commands for autobackup.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/autobackup/cmd"
	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/logging"
)

// rootSrc holds the value of the --rootSrc flag.
var rootSrc string

// rootDst holds the value of the --rootDst flag.
var rootDst string

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// levelVar is shared by every log sink so the level read from the
// configuration file can be applied after the logger is built.
var levelVar = new(slog.LevelVar)

// levelFromFlags is true when -v or -q decided the level.
var levelFromFlags bool

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to config file (default: ./autobackup.yaml, then the user config directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv), overrides loglevel")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors, overrides loglevel")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"console log format: text, json")

	addRootFlags(rootCmd)
	addBackupFlags(rootCmd)
	_ = rootCmd.MarkFlagRequired("rootSrc")
	_ = rootCmd.MarkFlagRequired("rootDst")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("autobackup version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// addRootFlags registers --rootSrc and --rootDst on c. Several commands
// share the same variables.
func addRootFlags(c *cobra.Command) {
	c.Flags().StringVar(&rootSrc, "rootSrc", "", "root path to back up files from")
	c.Flags().StringVar(&rootDst, "rootDst", "", "root path to back up files to")
}

var rootCmd = &cobra.Command{
	Use:   "autobackup --rootSrc DIR --rootDst DIR",
	Short: "Move files from source folders into their backup destinations",
	Long: `autobackup moves the content of configured folders below a source root
into matching folders below a destination root, then removes the emptied
source folders.

When a file already exists at its destination, the folder's
fileExistsAction decides what happens:

  skip       the destination is left alone and the incoming file is moved
             into a "<folder>.skippedN" quarantine folder instead
  keep_both  the incoming file is moved next to the existing one under a
             numbered name ("report 2.pdf")

Files listed in filesToIgnore are never moved. Ignored files directly inside
a configured folder are kept; ignored files inside a subfolder are deleted
together with that subfolder once it has been backed up.`,
	Example: `  # Run the backup
  autobackup --rootSrc /mnt/inbox --rootDst /mnt/archive --config autobackup.yaml

  # Check the configuration and see what each job would do
  autobackup validate --rootSrc /mnt/inbox --rootDst /mnt/archive

  # Write a sample configuration
  autobackup init`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogging,
	RunE:              runBackup,
}

// setupLogging builds the console logger and stores it in the command
// context. The log file is attached later, once the roots are known.
func setupLogging(c *cobra.Command, _ []string) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use either -q or -v, not both")
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	levelFromFlags = quiet || verbosity > 0
	switch {
	case quiet:
		levelVar.Set(slog.LevelError)
	case verbosity > 0:
		levelVar.Set(logging.LevelFromVerbosity(verbosity))
	default:
		levelVar.Set(slog.LevelInfo)
	}

	logger := logging.New(logging.Config{
		Level:  levelVar,
		Format: format,
		Output: c.ErrOrStderr(),
	})

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// SIGINT/SIGTERM by main. Errors that do not carry an exit code (bad flags,
// unknown commands) are reported as user errors.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return errors.NewUserError(err, "Run 'autobackup --help' for usage")
}

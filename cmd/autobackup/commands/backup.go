package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/autobackup/cmd"
	"github.com/thoreinstein/autobackup/internal/backup"
	"github.com/thoreinstein/autobackup/internal/config"
	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/logging"
	"github.com/thoreinstein/autobackup/internal/paths"
)

// reportFile holds the value of the --report flag.
var reportFile string

// logFile holds the value of the --log-file flag.
var logFile string

// noLogFile holds the value of the --no-log-file flag.
var noLogFile bool

func addBackupFlags(c *cobra.Command) {
	c.Flags().StringVar(&reportFile, "report", "",
		"write a JSON summary of the run to this file")
	c.Flags().StringVar(&logFile, "log-file", "",
		"rotating JSON log file (default: <rootSrc>/"+logging.DefaultFileName+")")
	c.Flags().BoolVar(&noLogFile, "no-log-file", false,
		"do not write a log file")
}

// runBackup checks the preconditions in order, each failing with its own
// critical log line, then runs every configured job.
func runBackup(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	logger := logging.FromContext(ctx)

	cfgPath, err := config.Find(configFile)
	if err != nil {
		logging.Critical(ctx, logger, "configuration file not found", "config", configFile, "error", err)
		return errors.NewPreconditionError(err, "Pass --config FILE or create one with: autobackup init")
	}
	if err := paths.RequireDir(rootSrc); err != nil {
		logging.Critical(ctx, logger, "rootSrc not found or not a directory", "rootSrc", rootSrc, "error", err)
		return errors.NewPreconditionError(err, "--rootSrc must be an existing directory")
	}
	if err := paths.RequireDir(rootDst); err != nil {
		logging.Critical(ctx, logger, "rootDst not found or not a directory", "rootDst", rootDst, "error", err)
		return errors.NewPreconditionError(err, "--rootDst must be an existing directory")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.Critical(ctx, logger, "invalid configuration", "config", cfgPath, "error", err)
		return errors.NewConfigError(err)
	}
	applyConfigLevel(cfg)

	logger, closeLog, err := attachLogFile(logger, cfg)
	if err != nil {
		return errors.NewSystemError(err, "Use --log-file to choose another location or --no-log-file")
	}
	defer closeLog()
	ctx = logging.NewContext(ctx, logger)

	logger.Info("loaded config file", "path", cfgPath)

	summary, err := runJobs(ctx, logger, cfg)
	if err != nil && summary == nil {
		return err
	}

	summary.AppVersion = cmd.Version
	if !quiet {
		printSummary(c.OutOrStdout(), summary)
	}

	if reportFile != "" {
		if werr := backup.WriteReport(reportFile, summary); werr != nil {
			logger.Error("failed to write report", "path", reportFile, "error", werr)
			return errors.NewSystemError(werr, "Check that the report directory exists and is writable")
		}
		logger.Info("report written", "path", reportFile)
	}

	if err != nil {
		return errors.NewPartialError(err)
	}
	if summary.HasErrors() {
		n := len(summary.Jobs) - summary.Count(backup.StatusCompleted) - summary.Count(backup.StatusNothingToDo)
		return errors.NewPartialError(errors.Newf("%d of %d backup jobs did not complete cleanly", n, len(summary.Jobs)))
	}
	return nil
}

// runJobs locks the source root and hands the jobs to the orchestrator.
func runJobs(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*backup.Summary, error) {
	lock, err := backup.Lock(rootSrc)
	if err != nil {
		logger.Error("cannot lock source root", "rootSrc", rootSrc, "error", err)
		return nil, errors.NewSystemError(err, "Another autobackup run is using this source root; wait for it to finish")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release lock", "path", lock.Path(), "error", err)
		}
	}()

	rules, err := cfg.IgnoreRules()
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	mgr, err := backup.NewManager(rootSrc, rootDst,
		backup.WithLogger(logger),
		backup.WithIgnore(rules),
		backup.WithQuarantineLocation(cfg.Quarantine()),
	)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}

	return mgr.Run(ctx, cfg.Jobs())
}

// applyConfigLevel switches to the configured level unless -v or -q was given.
func applyConfigLevel(cfg *config.Config) {
	if levelFromFlags {
		return
	}
	if level, err := cfg.Level(); err == nil {
		levelVar.Set(level)
	}
}

// attachLogFile adds the rotating JSON log file to logger. The returned
// close function is always safe to call.
func attachLogFile(logger *slog.Logger, cfg *config.Config) (*slog.Logger, func(), error) {
	if noLogFile {
		return logger, func() {}, nil
	}

	path := logFile
	if path == "" {
		path = filepath.Join(rootSrc, logging.DefaultFileName)
	}

	f, err := logging.NewRotatingFile(logging.RotateConfig{
		Path:       path,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return logger, func() {}, err
	}

	fileHandler := logging.NewFormatHandler(logging.Config{
		Level:  levelVar,
		Format: logging.FormatJSON,
		Output: f,
	})
	multi := slog.New(logging.NewMultiHandler(logger.Handler(), fileHandler))
	return multi, func() { _ = f.Close() }, nil
}

// printSummary writes one row per job and a totals line.
func printSummary(w io.Writer, s *backup.Summary) {
	headers := []string{"SOURCE", "DESTINATION", "POLICY", "STATUS", "MOVED", "SKIPPED", "RENAMED", "IGNORED", "SIZE"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		row := []string{j.Source, j.Destination, j.Policy, string(j.Status), "-", "-", "-", "-", "-"}
		if r := j.Result; r != nil {
			row[4] = strconv.Itoa(r.Relocated)
			row[5] = strconv.Itoa(r.Quarantined)
			row[6] = strconv.Itoa(r.Renamed)
			row[7] = strconv.Itoa(r.Ignored)
			row[8] = humanize.Bytes(uint64(max(r.Bytes, 0)))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	total := s.Totals()
	fmt.Fprintf(w, "Moved %d files (%s) in %s\n",
		total.Moved(), humanize.Bytes(uint64(max(total.Bytes, 0))), s.Duration().Round(time.Millisecond))

	for _, j := range s.Jobs {
		if j.Err != nil {
			fmt.Fprintf(w, "  %s -> %s: %s\n", j.Source, j.Destination, j.Error)
		}
		if j.Result == nil {
			continue
		}
		for _, f := range j.Result.Failures {
			fmt.Fprintf(w, "    not backed up: %s (%s)\n", f.Source, f.Reason)
		}
	}
}

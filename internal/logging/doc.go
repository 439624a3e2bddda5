// Package logging provides structured logging for the autobackup CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, a size-rotated log file, and helpers for testing. All loggers are
// based on the standard library's [log/slog] package. There is no package
// level logger: the command layer builds one and hands it down, either
// explicitly or through a context via [NewContext] and [FromContext].
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("starting", "version", "1.0.0")
//
// # Console and File
//
// Combine the console handler with a rotating JSON log file through
// [MultiHandler]:
//
//	f, _ := logging.NewRotatingFile(logging.RotateConfig{Path: "/src/autobackup.log"})
//	logger := slog.New(logging.NewMultiHandler(
//		logging.NewFormatHandler(logging.Config{Level: lv}),
//		logging.NewFormatHandler(logging.Config{Level: lv, Format: logging.FormatJSON, Output: f}),
//	))
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging

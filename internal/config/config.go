package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/thoreinstein/autobackup/internal/backup"
	"github.com/thoreinstein/autobackup/internal/errors"
	"github.com/thoreinstein/autobackup/internal/logging"
	"github.com/thoreinstein/autobackup/internal/paths"
	"github.com/thoreinstein/autobackup/internal/reconcile"
	"github.com/thoreinstein/autobackup/pkg/fileutil"
)

// EnvPrefix is prepended to environment variables that override config keys,
// e.g. AUTOBACKUP_LOGLEVEL=DEBUG.
const EnvPrefix = "AUTOBACKUP"

// ErrConfigNotFound indicates no configuration file could be located.
var ErrConfigNotFound = errors.Mark(errors.New("configuration file not found"), errors.ErrNotFound)

// Config is the autobackup configuration file.
type Config struct {
	LogLevel           string   `mapstructure:"loglevel" yaml:"loglevel" toml:"loglevel"`
	FilesToIgnore      []string `mapstructure:"filesToIgnore" yaml:"filesToIgnore" toml:"filesToIgnore"`
	IgnorePatterns     []string `mapstructure:"ignorePatterns" yaml:"ignorePatterns,omitempty" toml:"ignorePatterns,omitempty"`
	QuarantineLocation string   `mapstructure:"quarantineLocation" yaml:"quarantineLocation,omitempty" toml:"quarantineLocation,omitempty"`
	LogMaxSizeMB       int      `mapstructure:"logMaxSizeMB" yaml:"logMaxSizeMB,omitempty" toml:"logMaxSizeMB,omitempty"`
	LogMaxBackups      int      `mapstructure:"logMaxBackups" yaml:"logMaxBackups,omitempty" toml:"logMaxBackups,omitempty"`
	Backup             []Folder `mapstructure:"backup" yaml:"backup" toml:"backup"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-" yaml:"-" toml:"-"`
}

// Folder is one entry of the backup list.
type Folder struct {
	Source           string           `mapstructure:"source" yaml:"source" toml:"source"`
	Destination      string           `mapstructure:"destination" yaml:"destination" toml:"destination"`
	FileExistsAction reconcile.Policy `mapstructure:"fileExistsAction" yaml:"fileExistsAction" toml:"fileExistsAction"`
}

// Format is the encoding of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from the file extension. Anything that is not
// .toml is read as YAML, which is what the original configuration files use.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func newViper(format Format) *viper.Viper {
	v := viper.New()
	v.SetConfigType(string(format))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("loglevel", "INFO")
	v.SetDefault("filesToIgnore", []string{})
	v.SetDefault("ignorePatterns", []string{})
	v.SetDefault("quarantineLocation", string(backup.QuarantineBesideSource))
	v.SetDefault("logMaxSizeMB", logging.DefaultMaxSizeMB)
	v.SetDefault("logMaxBackups", logging.DefaultMaxBackups)
	return v
}

// Find returns the configuration file to use. An explicit path must point
// to an existing file; otherwise the default candidates are tried in order.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if !paths.IsFile(explicit) {
			return "", errors.Wrap(ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}
	for _, candidate := range paths.DefaultConfigCandidates() {
		if paths.IsFile(candidate) {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(ErrConfigNotFound, "searched %v", paths.DefaultConfigCandidates())
}

// Read decodes the file at path without validating it. Environment
// variables with the AUTOBACKUP_ prefix override file values.
func Read(path string) (*Config, error) {
	if !paths.IsFile(path) {
		return nil, errors.Wrap(ErrConfigNotFound, path)
	}

	format := FormatOf(path)
	if format == FormatTOML {
		if err := checkTOML(path); err != nil {
			return nil, errors.Mark(err, errors.ErrInvalidConfig)
		}
	}

	v := newViper(format)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading config file %s", path), errors.ErrInvalidConfig)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}
	cfg.Path = path

	return &cfg, nil
}

// checkTOML parses path on its own so syntax errors carry a position.
func checkTOML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	var v any
	if err := toml.Unmarshal(data, &v); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return errors.Newf("%s: TOML syntax error at line %d, column %d: %s", path, row, col, decodeErr.Error())
		}
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

// Write stores cfg at path in the format implied by its extension.
func Write(path string, cfg *Config) error {
	if FormatOf(path) == FormatTOML {
		return fileutil.AtomicWriteTOML(path, cfg)
	}
	return fileutil.AtomicWriteYAML(path, cfg)
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// Jobs converts the backup list into orchestrator jobs, in file order.
func (c *Config) Jobs() []backup.Job {
	jobs := make([]backup.Job, 0, len(c.Backup))
	for _, f := range c.Backup {
		jobs = append(jobs, backup.Job{
			Source:      f.Source,
			Destination: f.Destination,
			Policy:      f.FileExistsAction,
		})
	}
	return jobs
}

// IgnoreRules builds the ignore rules from filesToIgnore and ignorePatterns.
func (c *Config) IgnoreRules() (*reconcile.IgnoreRules, error) {
	return reconcile.NewIgnoreRules(c.FilesToIgnore, c.IgnorePatterns)
}

// Quarantine returns the configured quarantine location, defaulting to the
// source side.
func (c *Config) Quarantine() backup.QuarantineLocation {
	if c.QuarantineLocation == "" {
		return backup.QuarantineBesideSource
	}
	return backup.QuarantineLocation(c.QuarantineLocation)
}

// Sample returns the configuration written by "autobackup init".
func Sample() *Config {
	return &Config{
		LogLevel:       "INFO",
		FilesToIgnore:  []string{".DS_Store", "Thumbs.db", "desktop.ini"},
		IgnorePatterns: []string{"*.part", "*.crdownload", "~$*"},
		Backup: []Folder{
			{Source: "Documents", Destination: "Documents", FileExistsAction: reconcile.PolicySkip},
			{Source: "Pictures", Destination: "Photos", FileExistsAction: reconcile.PolicyKeepBoth},
		},
	}
}

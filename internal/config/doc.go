// Package config loads the autobackup configuration file.
//
// The file is YAML. It is read through a private Viper instance, so
// environment variables prefixed with AUTOBACKUP_ override file values
// (AUTOBACKUP_LOGLEVEL=DEBUG):
//
//	loglevel: INFO
//	filesToIgnore:
//	  - .DS_Store
//	ignorePatterns:          # optional, matched on entry names
//	  - "*.part"
//	quarantineLocation: source   # or destination
//	backup:
//	  - source: Documents
//	    destination: Documents
//	    fileExistsAction: skip   # or keep_both
//
// # Loading Configuration
//
// Use [Find] to locate the file (an explicit --config value, then
// ./autobackup.yaml, then the XDG config directory) and [Load] to decode
// and validate it:
//
//	path, err := config.Find(flagValue)
//	if err != nil {
//	    return err
//	}
//	cfg, err := config.Load(path)
//
// fileExistsAction is decoded straight into a [reconcile.Policy]; an
// unknown value fails decoding instead of being silently ignored.
//
// # Validation
//
// [Validate] returns every problem at once, which the validate command
// prints as a list:
//
//	for _, e := range config.Validate(cfg) {
//	    fmt.Println(e)
//	}
package config

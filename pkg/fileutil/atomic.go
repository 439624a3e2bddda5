// Package fileutil provides file system helpers: atomic writes for the
// reports and sample configs autobackup produces, and copy routines used when
// a move has to cross a filesystem boundary.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/autobackup/internal/errors"
)

// DefaultFilePerm is applied by the AtomicWrite{JSON,YAML,TOML} helpers.
const DefaultFilePerm = 0o600

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file lives next to the target so the rename stays on one filesystem
	tmp, err := os.CreateTemp(dir, ".autobackup-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	renamed = true

	return nil
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
// The file is created with DefaultFilePerm.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')

	return AtomicWriteFile(path, data, DefaultFilePerm)
}

// AtomicWriteYAML writes v as 2-space indented YAML.
// The file is created with DefaultFilePerm.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.v3 panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	return AtomicWriteFile(path, buf.Bytes(), DefaultFilePerm)
}

// AtomicWriteTOML writes v as TOML with 2-space indented tables.
// The file is created with DefaultFilePerm.
func AtomicWriteTOML(path string, v any) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling TOML")
	}

	return AtomicWriteFile(path, buf.Bytes(), DefaultFilePerm)
}

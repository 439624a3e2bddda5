// Package paths provides path helpers for autobackup: canonical resolution,
// the root containment guard applied to every backup job, and the XDG
// locations searched for a configuration file.
//
// # Root Guard
//
// Every job's source and destination must stay inside the roots given on the
// command line. [IsWithinRoot] accepts the root and its descendants;
// [IsBelowRoot] accepts descendants only:
//
//	paths.IsWithinRoot("/src", "/src/docs/../music") // true
//	paths.IsWithinRoot("/src", "/src/..")            // false
//
// Both resolve symlinks on the longest existing prefix, so a symlink inside
// the root that points elsewhere is reported as outside.
//
// # XDG Base Directory Compliance
//
// [ConfigHome] wraps github.com/adrg/xdg. [DefaultConfigCandidates] lists
// ./autobackup.yaml and ./autobackup.toml, then config.yaml and config.toml
// under <ConfigHome>/autobackup.
package paths

// Package backup runs configured backup jobs between a source root and a
// destination root.
//
// A [Job] names a folder relative to each root and the conflict policy used
// when a file already exists at its destination. [Manager.Run] processes
// jobs in configuration order:
//
//   - both job paths are resolved and must lie strictly below their roots,
//     otherwise the job is reported as [StatusInvalid] and skipped;
//   - a missing source folder means there is nothing to back up;
//   - a quarantine folder ("<folder>.skippedN") is allocated for the job;
//   - the tree is handed to the reconcile package.
//
// One job never prevents the next one from running. The outcome of every
// job is collected in a [Summary], which [WriteReport] can persist as JSON.
//
// # Locking
//
// [Lock] takes an advisory lock in the source root so two runs cannot move
// files out of the same tree concurrently:
//
//	lock, err := backup.Lock(srcRoot)
//	if err != nil {
//		return err
//	}
//	defer lock.Unlock()
//
// # Planning
//
// [Manager.Plan] performs the same resolution and validation as Run
// without touching any file. The validate command uses it.
package backup

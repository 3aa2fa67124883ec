// Package fsguard detects build directories that live on read-only storage.
//
// Before a phase writes into the image or build directories, the executor
// asks a Checker which read-only mount points, if any, back the candidate
// directories. Comparison is by device identity rather than path so that
// bind mounts exposing one device at several paths are still caught.
//
// Metadata lookups that fail (missing directories, unreadable mount table)
// are treated as "not read-only". This is an availability-over-strictness
// policy: a check that cannot decide never blocks a build.
package fsguard

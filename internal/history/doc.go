// Package history keeps a SQLite record of dataset load runs.
//
// Every `osintdata check` stores one run: a UUID, the base directory, the
// start time and duration, and for successful runs one snapshot per dataset
// file with its entry count and SHA3-256 digest. Failed runs keep the error
// text and, when known, the path of the file that caused it.
//
// Two runs can be compared with Diff to see which dataset files changed
// between them.
//
// The store uses modernc.org/sqlite, a CGO-free driver, with WAL enabled.
package history

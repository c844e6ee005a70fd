// Package datalad shells out to the external datalad and git binaries for
// catalog registration, dataset commits, and dataset identity lookups. The
// cataloging engine itself is a black box; this package only prepares its
// command lines and interprets exit status. An Executor seam allows tests to
// substitute command execution.
package datalad

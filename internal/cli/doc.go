// Package cli implements the dupefindr command-line interface.
//
// Commands are Cobra commands. Each one loads config, lets flags that were
// set on the command line override it, validates, and then hands off to the
// internal packages that do the work.
//
// # Command Structure
//
//	dupefindr scan [path]        - Find duplicates and act on them
//	dupefindr config show        - Print the effective config
//	dupefindr config set <k> <v> - Change one config key
//	dupefindr config path        - Print the config file in use
//	dupefindr version            - Print build information
//
// # Scan Phases
//
// A scan runs four phases, each with its own ui.MultiProgress:
//
//  1. Collect: a spinner counts files as the tree is walked
//  2. Hash: an overall bar plus one spinner per worker
//  3. Resolve: pick the copy to keep, interactively through huh if asked
//  4. Apply: a bar over the files being moved, copied or deleted
//
// Log lines and per-file errors go through the running coordinator so they
// print above the live bars instead of through them. Finished phases print a
// one-line status with their duration.
//
// # Exit Codes
//
// A scan that could not hash or act on some files still writes its report,
// then exits 1 through errors.ExitError. Unknown commands exit 2.
package cli

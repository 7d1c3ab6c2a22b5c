// Package cli wires together the Cobra command tree for the bbake binary.
//
// The document commands (new-config, update, require, shell-export, get, set,
// show) drive the resolve package; the blocks commands read a collector
// database and report derived metrics. Errors map to exit codes: missing
// options or keys exit -1, bad command lines exit 2, and anything else
// exits 1.
package cli

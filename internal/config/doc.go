// Package config reads and writes bench configuration documents.
//
// A [Document] is a flat JSON object persisted as bench.json. Documents are
// always written in canonical form (two-space indent, lexicographically
// sorted keys) so successive writes produce clean diffs, and every write
// replaces the whole file through a rename so a partially written document is
// never observed.
//
// Every key may be overridden from the environment by a variable named
// BBAKE_ followed by the uppercased key. Lookups go through an [EnvFunc] so
// callers and tests can supply their own environment; [OSEnv] reads the
// process environment.
package config

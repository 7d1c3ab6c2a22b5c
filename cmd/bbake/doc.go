// Bbake prepares benchmark network configuration and reports block
// throughput.
//
// It layers JSON profiles and BBAKE_ environment variables into a bench.json,
// exports that document to shell scripts, and computes block time, TPS and
// gas rates from a collector's blocks database.
//
// Usage:
//
//	bbake new-config --tuskdir . --launchdir . --configdir run \
//	    --consensus raft --deploymode compose --profile 8 bench.json "tps duration"
//	bbake update run/bench.json tps duration   # write BBAKE_ values back
//	bbake require bench.json name maxnodes --configdir run
//	eval "$(bbake shell-export bench.json --configdir run)"
//	bbake get bench.json maxnodes --configdir run
//	bbake set bench.json nodes.0.name node0 --configdir run
//	bbake blocks stats --db blocks.db --first 100 --format markdown
package main

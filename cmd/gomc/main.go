// Command gomc is a small CLI around the gomc execution core, demonstrating
// the model checker end to end against scenario programs laid out under
// examples/ (this repository ships none): run one random-fuzzer
// exploration, replay a recorded one
// deterministically, aggregate statistics across many explorations, or dump
// a scenario's modification-order graph.
//
// Usage:
//
//	gomc explore examples/s1_release_acquire
//	gomc replay examples/s1_release_acquire -decisions run.decisions
//	gomc stats examples/s2_seqcst_total_order -n 50
//	gomc graph examples/s4_lock_handoff -o graph.dot
//	gomc scenario list
//	gomc version
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "explore":
		exploreCommand(args)
	case "replay":
		replayCommand(args)
	case "stats":
		statsCommand(args)
	case "graph":
		graphCommand(args)
	case "scenario":
		scenarioCommand(args)
	case "version", "--version", "-v":
		fmt.Printf("gomc version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`gomc - stateless model checker execution core

USAGE:
    gomc <command> [arguments]

COMMANDS:
    explore    Run one random-fuzzer exploration of a scenario
    replay     Re-run a scenario from a recorded decision file
    stats      Aggregate statistics across repeated random explorations
    graph      Dump a scenario's modification-order graph in dot format
    scenario   Resolve and list the scenario packages under examples/
    version    Show version information
    help       Show this help message

EXAMPLES:
    gomc explore examples/s1_release_acquire
    gomc explore examples/s1_release_acquire -seed 42
    gomc replay examples/s1_release_acquire -decisions run.decisions
    gomc stats examples/s2_seqcst_total_order -n 100
    gomc graph examples/s4_lock_handoff -o lock_handoff.dot
    gomc scenario list

ABOUT:
    gomc explores one linearization of a program-under-test at a time,
    computing reads-from and modification-order consistently with a
    C/C++-style relaxed-atomics memory model. A scenario is an ordinary Go
    main package driving the gomc package directly; this tool runs one as a
    subprocess with 'go run .', so -seed/-decisions/-o are passed through
    environment variables (GOMC_SEED, GOMC_DECISIONS, GOMC_DUMP_GRAPH) for
    the scenario to read. No scenario packages ship with this repository.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/gomc
    Documentation: https://pkg.go.dev/github.com/kolkov/gomc

`)
}

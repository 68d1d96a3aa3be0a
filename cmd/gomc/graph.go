// graph.go implements the 'gomc graph' command.
package main

import (
	"flag"
	"fmt"
	"os"
)

// graphCommand runs a scenario and dumps its modification-order graph in
// Graphviz dot format (spec §6 Outputs). Not semantically observable;
// offered purely for offline inspection.
//
// Example:
//
//	gomc graph examples/s4_lock_handoff -o lock_handoff.dot
func graphCommand(args []string) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	out := fs.String("o", "", "output dot file (required)")
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the current time)")
	fs.Parse(args)
	pos := fs.Args()
	if len(pos) > 1 {
		// Flags may also follow the scenario package, as in the example above.
		fs.Parse(pos[1:])
		pos = append(pos[:1:1], fs.Args()...)
	}

	if len(pos) != 1 || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: gomc graph <scenario-package> -o <file.dot>")
		os.Exit(1)
	}

	dir, err := resolveScenario(pos[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	absOut, err := absPath(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	env := []string{"GOMC_DUMP_GRAPH=" + absOut}
	if *seed != 0 {
		env = append(env, fmt.Sprintf("GOMC_SEED=%d", *seed))
	}

	stdout, _, err := runScenario(dir, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(stdout)
	fmt.Printf("modification-order graph written to %s\n", absOut)
}

// explore.go implements the 'gomc explore' command.
package main

import (
	"flag"
	"fmt"
	"os"
)

// exploreCommand runs one random-fuzzer exploration of a scenario package.
//
// Example:
//
//	gomc explore examples/s1_release_acquire
//	gomc explore examples/s1_release_acquire -seed 42
func exploreCommand(args []string) {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the current time)")
	fs.Parse(args)
	pos := fs.Args()
	if len(pos) > 1 {
		// Flags may also follow the scenario package, as in the examples above.
		fs.Parse(pos[1:])
		pos = append(pos[:1:1], fs.Args()...)
	}

	if len(pos) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gomc explore <scenario-package> [-seed N]")
		os.Exit(1)
	}

	dir, err := resolveScenario(pos[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var env []string
	if *seed != 0 {
		env = append(env, fmt.Sprintf("GOMC_SEED=%d", *seed))
	}

	out, exitCode, err := runScenario(dir, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
	os.Exit(exitCode)
}

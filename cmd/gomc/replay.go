// replay.go implements the 'gomc replay' command.
package main

import (
	"flag"
	"fmt"
	"os"
)

// replayCommand re-runs a scenario package from a recorded decision file,
// whose absolute path it passes to the scenario in GOMC_DECISIONS; reading
// and replaying that file is the scenario program's job.
//
// Example:
//
//	gomc replay examples/s1_release_acquire -decisions run.decisions
func replayCommand(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	decisions := fs.String("decisions", "", "path to a recorded decision file")
	fs.Parse(args)
	pos := fs.Args()
	if len(pos) > 1 {
		// Flags may also follow the scenario package, as in the example above.
		fs.Parse(pos[1:])
		pos = append(pos[:1:1], fs.Args()...)
	}

	if len(pos) != 1 || *decisions == "" {
		fmt.Fprintln(os.Stderr, "usage: gomc replay <scenario-package> -decisions <file>")
		os.Exit(1)
	}

	dir, err := resolveScenario(pos[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	abs, err := absPath(*decisions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, exitCode, err := runScenario(dir, []string{"GOMC_DECISIONS=" + abs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
	os.Exit(exitCode)
}

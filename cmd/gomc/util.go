// util.go holds small helpers shared by more than one subcommand file.
package main

import "path/filepath"

// absPath resolves p against the current working directory, since
// subcommands hand paths to a scenario subprocess running with a
// different cwd (the scenario's own directory).
func absPath(p string) (string, error) {
	return filepath.Abs(p)
}

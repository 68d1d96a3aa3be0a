// scenario.go implements the 'gomc scenario' command and the shared
// subprocess-running helper every other subcommand (explore/replay/stats/
// graph) uses to execute a scenario package under examples/.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// moduleRoot locates the repository's go.mod (searching upward from the
// working directory, the way the go tool itself resolves a module root)
// and returns its module path.
func moduleRoot() (dir, modulePath string, err error) {
	dir, err = os.Getwd()
	if err != nil {
		return "", "", err
	}
	for {
		gomodPath := filepath.Join(dir, "go.mod")
		if data, readErr := os.ReadFile(gomodPath); readErr == nil {
			mf, parseErr := modfile.Parse(gomodPath, data, nil)
			if parseErr != nil {
				return "", "", fmt.Errorf("parsing %s: %w", gomodPath, parseErr)
			}
			return dir, mf.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}

// resolveScenario validates that pkg names a directory within this module
// (by checking it resolves underneath the module's own import path, the
// way golang.org/x/mod/modfile lets a tool reason about go.mod without
// shelling out to 'go list') and returns its filesystem directory.
func resolveScenario(pkg string) (string, error) {
	root, modPath, err := moduleRoot()
	if err != nil {
		return "", err
	}
	rel := strings.TrimPrefix(pkg, modPath+"/")
	rel = strings.TrimPrefix(rel, "./")
	dir := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("scenario %q does not resolve to a directory under module %s", pkg, modPath)
	}
	return dir, nil
}

// runScenario runs the scenario at dir as a subprocess with extraEnv
// appended to the current environment, returning its combined stdout and
// its exit code (0 on success).
func runScenario(dir string, extraEnv []string) (stdout string, exitCode int, err error) {
	cmd := exec.Command("go", "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	if runErr == nil {
		return buf.String(), 0, nil
	}
	var exitErr *exec.ExitError
	if ok := exitErrorAs(runErr, &exitErr); ok {
		return buf.String(), exitErr.ExitCode(), nil
	}
	return buf.String(), -1, runErr
}

func exitErrorAs(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

func scenarioCommand(args []string) {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() == 0 || fs.Arg(0) != "list" {
		fmt.Fprintln(os.Stderr, "usage: gomc scenario list")
		os.Exit(1)
	}

	_, modPath, err := moduleRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir("examples")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing examples/: %v\n", err)
		os.Exit(1)
	}
	var names []string
	for _, e := range entries {
		// Scenario packages are named sN_description, matching spec §8's
		// S1..S6 plus the two supplemental scenarios; this excludes
		// examples/harness (shared plumbing, not itself runnable) and any
		// directory that isn't one of this module's own scenarios.
		if !e.IsDir() || len(e.Name()) < 2 || e.Name()[0] != 's' || e.Name()[1] < '0' || e.Name()[1] > '9' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s\n", path.Join(modPath, "examples", name))
	}
}

// stats.go implements the 'gomc stats' command: running a scenario N times
// under independent random seeds and summarizing the spread of outcomes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// statsCommand runs a scenario N times, each under its own seed (seed S+i
// for run i, S being -seed, so a report is itself reproducible), and reports
// the mean and
// geometric mean of the trace length and bug count across runs, the way
// benchmany's ComputeStats/geomean reporting summarizes repeated benchmark
// runs instead of eyeballing a single one.
//
// Example:
//
//	gomc stats examples/s2_seqcst_total_order -n 50
func statsCommand(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	n := fs.Int("n", 20, "number of independent explorations to run")
	baseSeed := fs.Int64("seed", 1, "seed of the first run; run i uses seed+i")
	fs.Parse(args)
	pos := fs.Args()
	if len(pos) > 1 {
		// Flags may also follow the scenario package, as in the example above.
		fs.Parse(pos[1:])
		pos = append(pos[:1:1], fs.Args()...)
	}

	if len(pos) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gomc stats <scenario-package> [-n N] [-seed S]")
		os.Exit(1)
	}
	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive")
		os.Exit(1)
	}

	dir, err := resolveScenario(pos[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	traceLens := make([]float64, 0, *n)
	bugCounts := make([]float64, 0, *n)
	var completeRuns, deadlockRuns, buggyRuns int

	for i := 0; i < *n; i++ {
		seed := *baseSeed + int64(i)
		env := []string{fmt.Sprintf("GOMC_SEED=%d", seed)}
		out, _, err := runScenario(dir, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running scenario (seed %d): %v\n", seed, err)
			os.Exit(1)
		}

		res, err := parseResultLine(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing result of seed %d: %v\n", seed, err)
			os.Exit(1)
		}

		traceLens = append(traceLens, float64(res.traceLen))
		bugCounts = append(bugCounts, float64(res.bugs))
		if res.complete {
			completeRuns++
		}
		if res.deadlock {
			deadlockRuns++
		}
		if res.bugs > 0 {
			buggyRuns++
		}
	}

	fmt.Printf("runs: %d\n", *n)
	fmt.Printf("trace length: mean=%.2f geomean=%.2f\n", stats.Mean(traceLens), stats.GeoMean(traceLens))
	fmt.Printf("bugs per run: mean=%.3f\n", stats.Mean(bugCounts))
	fmt.Printf("complete: %d/%d  deadlocked: %d/%d  buggy: %d/%d\n",
		completeRuns, *n, deadlockRuns, *n, buggyRuns, *n)
}

// scenarioResult holds the fields parsed from a scenario's result line
// ("result: trace_len=%d bugs=%d complete=%t deadlock=%t").
type scenarioResult struct {
	traceLen int
	bugs     int
	complete bool
	deadlock bool
}

// parseResultLine scans out for the first "result: ..." line the scenario
// prints and decodes its key=value fields.
func parseResultLine(out string) (scenarioResult, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "result:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "result:"))
		var res scenarioResult
		for _, f := range fields {
			key, val, ok := strings.Cut(f, "=")
			if !ok {
				continue
			}
			switch key {
			case "trace_len":
				v, err := strconv.Atoi(val)
				if err != nil {
					return scenarioResult{}, fmt.Errorf("trace_len: %w", err)
				}
				res.traceLen = v
			case "bugs":
				v, err := strconv.Atoi(val)
				if err != nil {
					return scenarioResult{}, fmt.Errorf("bugs: %w", err)
				}
				res.bugs = v
			case "complete":
				v, err := strconv.ParseBool(val)
				if err != nil {
					return scenarioResult{}, fmt.Errorf("complete: %w", err)
				}
				res.complete = v
			case "deadlock":
				v, err := strconv.ParseBool(val)
				if err != nil {
					return scenarioResult{}, fmt.Errorf("deadlock: %w", err)
				}
				res.deadlock = v
			case "error":
				return scenarioResult{}, fmt.Errorf("scenario reported an error: %s", val)
			}
		}
		return res, nil
	}
	return scenarioResult{}, fmt.Errorf("no result line found in scenario output")
}

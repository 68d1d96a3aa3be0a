// Package report accumulates the bugs found during one execution and can
// render the modification-order graph as a dot file for offline inspection.
//
// Nothing here is consulted by the engine's own logic: a bug list is an
// output, not a decision input, and the dot dump is explicitly "not
// semantically observable" per the spec's external-interfaces section.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/kolkov/gomc/internal/action"
	"github.com/kolkov/gomc/internal/mograph"
)

// Kind classifies a reported bug.
type Kind int

const (
	// InfeasibleRead: selectWrite returned -1, the read had no viable rf.
	InfeasibleRead Kind = iota
	// Deadlock: detected post-hoc at execution end.
	Deadlock
	// DataRace: reported by the external race detector collaborator.
	DataRace
	// AssertBug: an instrumented user assert fired.
	AssertBug
)

func (k Kind) String() string {
	switch k {
	case InfeasibleRead:
		return "infeasible-read"
	case Deadlock:
		return "deadlock"
	case DataRace:
		return "data-race"
	case AssertBug:
		return "assert"
	default:
		return "unknown"
	}
}

// Bug is one entry in an execution's bug list.
type Bug struct {
	Kind    Kind
	Message string
}

// List accumulates bugs found over the course of one execution. The driver
// decides whether to stop after N bugs; the core never stops on its own
// (InfeasibleRead and AssertBug set a flag the driver inspects, see
// engine.HasAsserted).
type List struct {
	bugs []Bug
}

// Add records a bug.
func (l *List) Add(kind Kind, format string, args ...any) {
	l.bugs = append(l.bugs, Bug{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Bugs returns every bug recorded so far, in the order they were reported.
func (l *List) Bugs() []Bug { return l.bugs }

// HasBugs reports whether any bug has been recorded.
func (l *List) HasBugs() bool { return len(l.bugs) > 0 }

// DumpGraph writes the modification-order graph to w in Graphviz dot format.
// Filenames are the caller's concern (spec names exec<NNNN>.dot /
// graph<NNNN>.dot as the convention for successive dumps).
func DumpGraph(w io.Writer, g *mograph.CycleGraph) error {
	if _, err := fmt.Fprintln(w, "digraph modification_order {"); err != nil {
		return err
	}
	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From.Seq != edges[j].From.Seq {
			return edges[i].From.Seq < edges[j].From.Seq
		}
		return edges[i].To.Seq < edges[j].To.Seq
	})
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", nodeLabel(e.From), nodeLabel(e.To)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func nodeLabel(a *action.Action) string {
	return fmt.Sprintf("T%d#%d@%v", a.ThreadID, a.Seq, a.Loc)
}

// Package gomc wraps internal/engine, internal/action, internal/fuzzer,
// and internal/scheduler behind one stable surface.
//
// See doc.go for an overview and internal/engine for the actual algorithm.
package gomc

import (
	"io"

	"github.com/kolkov/gomc/internal/action"
	"github.com/kolkov/gomc/internal/engine"
	"github.com/kolkov/gomc/internal/fuzzer"
	"github.com/kolkov/gomc/internal/report"
	"github.com/kolkov/gomc/internal/scheduler"
)

// Kind identifies what an Action represents.
type Kind = action.Kind

// The full set of Action kinds a program-under-test can issue.
const (
	AtomicRead      = action.AtomicRead
	AtomicWrite     = action.AtomicWrite
	AtomicRMWRead   = action.AtomicRMWRead
	AtomicRMWCommit = action.AtomicRMWCommit
	AtomicRMW       = action.AtomicRMW
	NonAtomicWrite  = action.NonAtomicWrite
	UninitWrite     = action.UninitWrite
	Fence           = action.Fence
	Lock            = action.Lock
	Trylock         = action.Trylock
	Unlock          = action.Unlock
	Wait            = action.Wait
	TimedWait       = action.TimedWait
	NotifyOne       = action.NotifyOne
	NotifyAll       = action.NotifyAll
	ThreadStart     = action.ThreadStart
	ThreadCreate    = action.ThreadCreate
	ThreadJoin      = action.ThreadJoin
	ThreadFinish    = action.ThreadFinish
	ThreadSleep     = action.ThreadSleep
	PthreadCreate   = action.PthreadCreate
	PthreadJoin     = action.PthreadJoin
)

// MemoryOrder is the C/C++-style memory-order tag carried by an Action.
type MemoryOrder = action.MemoryOrder

const (
	Relaxed = action.Relaxed
	Acquire = action.Acquire
	Release = action.Release
	AcqRel  = action.AcqRel
	SeqCst  = action.SeqCst
)

// Location identifies the memory location an Action touches.
type Location = action.Location

// Action is one instrumented operation performed by one thread.
type Action = action.Action

// NewAction constructs an Action ready to be passed to Execution.Step, once
// Execution.CheckEnabled confirms it may run.
func NewAction(kind Kind, order MemoryOrder, loc Location, value uint64, size int, threadID int) *Action {
	return action.New(kind, order, loc, value, size, threadID)
}

// ValEquals compares two raw values as if truncated to size bytes (one of
// 1, 2, 4, 8), the comparison a CAS-style RMW uses against its expected
// value (B1).
func ValEquals(a, b uint64, size int) bool { return action.ValEquals(a, b, size) }

// Thread is one modeled thread of control.
type Thread = scheduler.Thread

// Scheduler is the external collaborator that owns thread-ordering policy;
// gomc only asks it which threads exist, which are asleep, and which are
// enabled.
type Scheduler = scheduler.Scheduler

// NewFIFOScheduler returns a minimal reference Scheduler with no ordering
// policy of its own, enough to drive an Execution end to end.
func NewFIFOScheduler() *scheduler.FIFOScheduler { return scheduler.NewFIFOScheduler() }

// Fuzzer resolves every choice point an Execution reaches: which write a
// read observes, which waiter a notify wakes, whether a wait/sleep
// proceeds.
type Fuzzer = fuzzer.Fuzzer

// NewRandomFuzzer returns a seeded-random Fuzzer; the same seed driven with
// the same sequence of Actions makes the same choices.
func NewRandomFuzzer(seed int64) *fuzzer.RandomFuzzer { return fuzzer.NewRandomFuzzer(seed) }

// NewScriptedFuzzer returns a Fuzzer that replays a fixed, pre-recorded
// sequence of decisions, for deterministic replay of a prior exploration.
func NewScriptedFuzzer(writes, notify []int, wait, sleep, wake []bool) *fuzzer.ScriptedFuzzer {
	return fuzzer.NewScriptedFuzzer(writes, notify, wait, sleep, wake)
}

// BugKind classifies a reported bug.
type BugKind = report.Kind

const (
	InfeasibleRead = report.InfeasibleRead
	DeadlockBug    = report.Deadlock
	DataRace       = report.DataRace
	AssertBug      = report.AssertBug
)

// Bug is one entry in an execution's bug list.
type Bug = report.Bug

// Execution is one linearization of a program-under-test: the public
// handle around the ModelExecution core (internal/engine.Engine).
type Execution struct {
	eng *engine.Engine
}

// NewExecution returns a fresh Execution with its initial thread already
// registered on sched. fz resolves every choice point this Execution
// reaches.
func NewExecution(sched Scheduler, fz Fuzzer) *Execution {
	return &Execution{eng: engine.New(sched, fz)}
}

// InitThread returns the program's first thread.
func (e *Execution) InitThread() *Thread { return e.eng.InitThread() }

// Thread looks up a thread by id, or nil if none exists (yet).
func (e *Execution) Thread(tid int) *Thread { return e.eng.Thread(tid) }

// CheckEnabled reports whether act could run right now. Callers must check
// this before Step; Step treats a disabled Action as a programming error,
// not a recoverable condition.
func (e *Execution) CheckEnabled(act *Action) bool { return e.eng.CheckActionEnabled(act) }

// NotifyBlocked records that act was found disabled by CheckEnabled and its
// thread is being parked instead of stepped, so later wake paths (a join
// target finishing, a lock being released) can find and wake it.
func (e *Execution) NotifyBlocked(act *Action) { e.eng.NotifyBlocked(act) }

// Step commits act as the next step of its issuing thread and returns the
// thread that should run next if act pins one (an RMW-read half, or a
// freshly created thread's first step), or nil if any enabled thread may
// run next.
func (e *Execution) Step(act *Action) (*Thread, error) { return e.eng.TakeStep(act) }

// Trace returns the total order of every Action committed so far.
func (e *Execution) Trace() []*Action { return e.eng.Trace() }

// Bugs returns every bug recorded so far, in report order.
func (e *Execution) Bugs() []Bug { return e.eng.Bugs().Bugs() }

// HasBugs reports whether any bug has been recorded.
func (e *Execution) HasBugs() bool { return e.eng.Bugs().HasBugs() }

// AssertBug records a user-instrumented assertion failure.
func (e *Execution) AssertBug(format string, args ...any) { e.eng.AssertBug(format, args...) }

// IsDeadlocked reports whether every live thread is currently disabled.
func (e *Execution) IsDeadlocked() bool { return e.eng.IsDeadlocked() }

// CheckDeadlock reports a deadlock (and records it in Bugs) if one is
// present, returning whether it found one.
func (e *Execution) CheckDeadlock() bool {
	if !e.eng.IsDeadlocked() {
		return false
	}
	e.eng.ReportDeadlock()
	return true
}

// ReportDataRace forwards a race found by an external data-race detector
// into this Execution's bug list.
func (e *Execution) ReportDataRace(format string, args ...any) {
	e.eng.ReportDataRace(format, args...)
}

// IsComplete reports whether this Execution ran to a clean end: no
// assertion, no deadlock, not every thread asleep, the initial thread
// finished.
func (e *Execution) IsComplete() bool { return e.eng.IsCompleteExecution() }

// DumpGraph writes the modification-order graph to w in Graphviz dot
// format. Not semantically observable; offered for offline inspection only.
func (e *Execution) DumpGraph(w io.Writer) error { return report.DumpGraph(w, e.eng.Graph()) }

// Package fuzzer defines the policy interface the ExecutionEngine consults
// whenever a choice point must be resolved — which write a read observes,
// which waiter a notify wakes, and whether a wait/sleep proceeds or is
// cancelled — plus a seeded random default implementation suitable for both
// fresh exploration and deterministic replay (R1).
package fuzzer

import (
	"math/rand"

	"github.com/kolkov/gomc/internal/action"
	"github.com/kolkov/gomc/internal/scheduler"
)

// Fuzzer is the policy collaborator consumed by the engine. None of its
// methods may be called from more than one goroutine: like the rest of the
// core, it is driven cooperatively, one decision at a time.
type Fuzzer interface {
	// SelectWrite picks an index into rfSet for read, or -1 if none of the
	// candidates should be tried (the read is declared infeasible).
	SelectWrite(read *action.Action, rfSet []*action.Action) int

	// SelectNotify picks which waiter a NOTIFY_ONE wakes.
	SelectNotify(waiters []*action.Action) *scheduler.Thread

	// ShouldWait reports whether a WAIT actually parks the calling thread
	// (false models a spurious wait failure).
	ShouldWait(wait *action.Action) bool

	// ShouldSleep reports whether a THREAD_SLEEP is enabled right now.
	ShouldSleep(sleep *action.Action) bool

	// ShouldWake reports whether a sleeping thread whose pending action is
	// a THREAD_SLEEP should be woken given the newly-processed action.
	ShouldWake(sleep *action.Action) bool
}

// RandomFuzzer is a seeded-random Fuzzer. Replaying the same seed against
// the same action stream reproduces the same choices end to end (R1),
// because every decision point draws from the same *rand.Rand in the same
// order the original run did.
type RandomFuzzer struct {
	rng *rand.Rand

	// WaitProbability is the chance (0..1) that ShouldWait parks the
	// thread rather than spuriously failing the wait. Default 1.0 when
	// constructed via NewRandomFuzzer.
	WaitProbability float64

	// SleepProbability is the chance ShouldSleep enables a THREAD_SLEEP.
	SleepProbability float64

	// WakeProbability is the chance ShouldWake wakes a sleeping thread
	// once its wake condition (d) in the spec is otherwise eligible.
	WakeProbability float64
}

// NewRandomFuzzer returns a RandomFuzzer seeded deterministically from seed:
// two fuzzers built from the same seed, driven with the same sequence of
// calls, make the same choices.
func NewRandomFuzzer(seed int64) *RandomFuzzer {
	return &RandomFuzzer{
		rng:              rand.New(rand.NewSource(seed)),
		WaitProbability:  1.0,
		SleepProbability: 1.0,
		WakeProbability:  1.0,
	}
}

func (f *RandomFuzzer) SelectWrite(_ *action.Action, rfSet []*action.Action) int {
	if len(rfSet) == 0 {
		return -1
	}
	return f.rng.Intn(len(rfSet))
}

func (f *RandomFuzzer) SelectNotify(waiters []*action.Action) *scheduler.Thread {
	if len(waiters) == 0 {
		return nil
	}
	chosen := waiters[f.rng.Intn(len(waiters))]
	return &scheduler.Thread{ID: chosen.ThreadID}
}

func (f *RandomFuzzer) ShouldWait(*action.Action) bool {
	return f.rng.Float64() < f.WaitProbability
}

func (f *RandomFuzzer) ShouldSleep(*action.Action) bool {
	return f.rng.Float64() < f.SleepProbability
}

func (f *RandomFuzzer) ShouldWake(*action.Action) bool {
	return f.rng.Float64() < f.WakeProbability
}

// ScriptedFuzzer replays a fixed, pre-recorded sequence of choices. The
// outer driver builds one of these from a previous RandomFuzzer's decision
// log to replay an execution deterministically (spec §1.5 / R1) without
// depending on the original PRNG stream.
type ScriptedFuzzer struct {
	writes  []int
	notify  []int
	wait    []bool
	sleep   []bool
	wake    []bool
}

// NewScriptedFuzzer builds a ScriptedFuzzer from recorded decisions, each
// consumed in order and in isolation from the others (one cursor per
// decision kind, matching how the engine calls them independently).
func NewScriptedFuzzer(writes, notify []int, wait, sleep, wake []bool) *ScriptedFuzzer {
	return &ScriptedFuzzer{writes: writes, notify: notify, wait: wait, sleep: sleep, wake: wake}
}

func (f *ScriptedFuzzer) SelectWrite(_ *action.Action, rfSet []*action.Action) int {
	if len(f.writes) == 0 {
		if len(rfSet) == 0 {
			return -1
		}
		return 0
	}
	idx := f.writes[0]
	f.writes = f.writes[1:]
	if idx < 0 || idx >= len(rfSet) {
		return -1
	}
	return idx
}

func (f *ScriptedFuzzer) SelectNotify(waiters []*action.Action) *scheduler.Thread {
	if len(waiters) == 0 {
		return nil
	}
	i := 0
	if len(f.notify) > 0 {
		i = f.notify[0]
		f.notify = f.notify[1:]
	}
	if i < 0 || i >= len(waiters) {
		i = 0
	}
	return &scheduler.Thread{ID: waiters[i].ThreadID}
}

func (f *ScriptedFuzzer) ShouldWait(*action.Action) bool { return popBool(&f.wait, true) }
func (f *ScriptedFuzzer) ShouldSleep(*action.Action) bool { return popBool(&f.sleep, true) }
func (f *ScriptedFuzzer) ShouldWake(*action.Action) bool  { return popBool(&f.wake, true) }

func popBool(q *[]bool, def bool) bool {
	if len(*q) == 0 {
		return def
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

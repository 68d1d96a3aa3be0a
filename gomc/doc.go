// Package gomc is the public API of a stateless model checker's execution
// core: given a program-under-test whose atomic operations are delivered as
// a sequential stream of Actions, it explores one linearization at a time,
// computing reads-from and modification-order consistently with a
// C/C++-style relaxed-atomics memory model.
//
// # Quick Start
//
// A caller builds an Execution once per linearization it wants to explore,
// then feeds it Actions one at a time as the program-under-test issues them:
//
//	sched := gomc.NewFIFOScheduler()
//	fz := gomc.NewRandomFuzzer(42)
//	ex := gomc.NewExecution(sched, fz)
//
//	write := gomc.NewAction(gomc.AtomicWrite, gomc.Release, loc, 1, 8, ex.InitThread().ID)
//	if ex.CheckEnabled(write) {
//		if _, err := ex.Step(write); err != nil {
//			// an InvariantError: a bug in the driver, not in the program under test
//		}
//	}
//
// # How It Works
//
// Every Action passes through the same pipeline: it is assigned a sequence
// number and a clock vector copied from its thread's previous action, any
// sleeping threads are woken if the Action's effect unblocks them, reads
// pick a reads-from write through the Fuzzer and validate the choice keeps
// the modification-order graph acyclic, and finally mutex/condvar/thread
// actions run their own small state machines. None of this touches real
// goroutines: the core is single-threaded and cooperative, one Action call
// is one step (see internal/engine).
//
// # Replayability
//
// Recording the sequence of choices a RandomFuzzer made (which index
// SelectWrite returned at each read, which waiter SelectNotify picked, ...)
// and feeding them back through a ScriptedFuzzer against the same Action
// stream reproduces an identical trace and modification-order graph.
//
// # Collaborators Outside This Package
//
// A Scheduler decides thread-ordering policy (which enabled thread runs
// next); this package only asks it which threads exist and are enabled. A
// data-race detector, if one is wired in by the caller, is consulted at
// read/write points external to this package entirely — gomc never runs
// race detection itself.
package gomc

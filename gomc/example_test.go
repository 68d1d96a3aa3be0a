package gomc_test

import (
	"fmt"

	"github.com/kolkov/gomc/gomc"
)

// Example demonstrates a release/acquire handoff (spec scenario S1): thread
// B's acquire read observes thread A's release write and, through it,
// inherits A's happens-before history.
func Example() {
	sched := gomc.NewFIFOScheduler()
	// The read's candidates are [UNINIT, A's write]; pick A's write.
	fz := gomc.NewScriptedFuzzer([]int{1}, nil, nil, nil, nil)
	ex := gomc.NewExecution(sched, fz)

	threadA := ex.InitThread()

	create := gomc.NewAction(gomc.ThreadCreate, gomc.Relaxed, 0, 0, 8, threadA.ID)
	next, err := ex.Step(create)
	if err != nil {
		panic(err)
	}
	threadB := next

	var x gomc.Location = 1

	write := gomc.NewAction(gomc.AtomicWrite, gomc.Release, x, 1, 8, threadA.ID)
	if _, err := ex.Step(write); err != nil {
		panic(err)
	}

	read := gomc.NewAction(gomc.AtomicRead, gomc.Acquire, x, 0, 8, threadB.ID)
	if _, err := ex.Step(read); err != nil {
		panic(err)
	}

	fmt.Println(read.ReadsFrom.Value)
	// Output: 1
}

// Example_deadlock demonstrates two threads each locking a mutex the other
// already holds (spec scenario S6): no thread remains enabled, and
// CheckDeadlock reports it.
func Example_deadlock() {
	sched := gomc.NewFIFOScheduler()
	fz := gomc.NewRandomFuzzer(1)
	ex := gomc.NewExecution(sched, fz)

	t1 := ex.InitThread()
	create := gomc.NewAction(gomc.ThreadCreate, gomc.Relaxed, 0, 0, 8, t1.ID)
	t2, err := ex.Step(create)
	if err != nil {
		panic(err)
	}

	var m1, m2 gomc.Location = 1, 2

	lock1 := gomc.NewAction(gomc.Lock, gomc.Relaxed, m1, 0, 8, t1.ID)
	if _, err := ex.Step(lock1); err != nil {
		panic(err)
	}
	lock2 := gomc.NewAction(gomc.Lock, gomc.Relaxed, m2, 0, 8, t2.ID)
	if _, err := ex.Step(lock2); err != nil {
		panic(err)
	}

	wantM2 := gomc.NewAction(gomc.Lock, gomc.Relaxed, m2, 0, 8, t1.ID)
	wantM1 := gomc.NewAction(gomc.Lock, gomc.Relaxed, m1, 0, 8, t2.ID)
	if ex.CheckEnabled(wantM2) || ex.CheckEnabled(wantM1) {
		panic("expected both threads to be blocked")
	}
	ex.NotifyBlocked(wantM2)
	ex.NotifyBlocked(wantM1)

	fmt.Println(ex.CheckDeadlock())
	// Output: true
}

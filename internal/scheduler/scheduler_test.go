package scheduler

import "testing"

func TestFIFOSchedulerEnabledLifecycle(t *testing.T) {
	s := NewFIFOScheduler()
	th := NewThread(1)
	s.AddThread(th)

	if !s.IsEnabled(th) {
		t.Fatal("a freshly added ready thread should be enabled")
	}

	s.Sleep(th)
	if s.IsEnabled(th) {
		t.Error("a sleeping thread should not be enabled")
	}
	if !s.IsSleepSet(th) {
		t.Error("Sleep should add the thread to the sleep set")
	}

	s.Wake(th)
	if !s.IsEnabled(th) {
		t.Error("Wake should return the thread to ready/enabled")
	}
	if s.IsSleepSet(th) {
		t.Error("Wake should remove the thread from the sleep set")
	}
}

func TestFIFOSchedulerAllThreadsSleeping(t *testing.T) {
	s := NewFIFOScheduler()
	a := NewThread(1)
	b := NewThread(2)
	s.AddThread(a)
	s.AddThread(b)

	if s.AllThreadsSleeping() {
		t.Error("two ready threads should not report all-sleeping")
	}

	s.AddSleep(a)
	if s.AllThreadsSleeping() {
		t.Error("one awake thread should keep all-sleeping false")
	}

	s.AddSleep(b)
	if !s.AllThreadsSleeping() {
		t.Error("both threads asleep should report all-sleeping")
	}

	b.Complete()
	s.RemoveSleep(b)
	if !s.AllThreadsSleeping() {
		t.Error("a completed thread should not block all-sleeping")
	}
}

func TestSleepingThreadsSortedByID(t *testing.T) {
	s := NewFIFOScheduler()
	ids := []int{5, 1, 3}
	for _, id := range ids {
		th := NewThread(id)
		s.AddThread(th)
		s.AddSleep(th)
	}

	got := s.SleepingThreads()
	if len(got) != 3 {
		t.Fatalf("SleepingThreads length = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID > got[i].ID {
			t.Errorf("SleepingThreads not sorted: %+v", got)
		}
	}
}

func TestRemoveThreadClearsSleepToo(t *testing.T) {
	s := NewFIFOScheduler()
	th := NewThread(1)
	s.AddThread(th)
	s.AddSleep(th)

	s.RemoveThread(th)
	if s.IsSleepSet(th) {
		t.Error("RemoveThread should also drop the thread from the sleep set")
	}
}

package fuzzer

import (
	"testing"

	"github.com/kolkov/gomc/internal/action"
)

func TestRandomFuzzerSelectWriteEmptySet(t *testing.T) {
	f := NewRandomFuzzer(1)
	if got := f.SelectWrite(nil, nil); got != -1 {
		t.Errorf("SelectWrite on an empty set = %d, want -1", got)
	}
}

func TestRandomFuzzerSelectWriteInRange(t *testing.T) {
	f := NewRandomFuzzer(42)
	candidates := []*action.Action{
		action.New(action.AtomicWrite, action.Relaxed, 1, 1, 8, 1),
		action.New(action.AtomicWrite, action.Relaxed, 1, 2, 8, 2),
	}
	for i := 0; i < 20; i++ {
		got := f.SelectWrite(nil, candidates)
		if got < 0 || got >= len(candidates) {
			t.Fatalf("SelectWrite returned out-of-range index %d", got)
		}
	}
}

func TestRandomFuzzerDeterministicPerSeed(t *testing.T) {
	candidates := []*action.Action{
		action.New(action.AtomicWrite, action.Relaxed, 1, 1, 8, 1),
		action.New(action.AtomicWrite, action.Relaxed, 1, 2, 8, 2),
		action.New(action.AtomicWrite, action.Relaxed, 1, 3, 8, 3),
	}
	a := NewRandomFuzzer(7)
	b := NewRandomFuzzer(7)

	for i := 0; i < 10; i++ {
		wa := a.SelectWrite(nil, candidates)
		wb := b.SelectWrite(nil, candidates)
		if wa != wb {
			t.Fatalf("iteration %d: same seed diverged: %d != %d", i, wa, wb)
		}
	}
}

func TestScriptedFuzzerReplaysExactSequence(t *testing.T) {
	f := NewScriptedFuzzer([]int{1, 0}, []int{0}, []bool{false}, nil, nil)
	candidates := []*action.Action{
		action.New(action.AtomicWrite, action.Relaxed, 1, 1, 8, 1),
		action.New(action.AtomicWrite, action.Relaxed, 1, 2, 8, 2),
	}

	if got := f.SelectWrite(nil, candidates); got != 1 {
		t.Errorf("first SelectWrite = %d, want 1", got)
	}
	if got := f.SelectWrite(nil, candidates); got != 0 {
		t.Errorf("second SelectWrite = %d, want 0", got)
	}

	if f.ShouldWait(nil) {
		t.Error("scripted ShouldWait should return the recorded false")
	}
	if !f.ShouldSleep(nil) {
		t.Error("an exhausted script should fall back to the default (true)")
	}
}

func TestScriptedFuzzerSelectNotify(t *testing.T) {
	f := NewScriptedFuzzer(nil, []int{1}, nil, nil, nil)
	waiters := []*action.Action{
		action.New(action.Wait, action.Relaxed, 1, 0, 0, 10),
		action.New(action.Wait, action.Relaxed, 1, 0, 0, 20),
	}
	got := f.SelectNotify(waiters)
	if got == nil || got.ID != 20 {
		t.Errorf("SelectNotify = %+v, want thread 20", got)
	}
}

func TestScriptedFuzzerSelectNotifyEmpty(t *testing.T) {
	f := NewScriptedFuzzer(nil, nil, nil, nil, nil)
	if got := f.SelectNotify(nil); got != nil {
		t.Errorf("SelectNotify on no waiters = %+v, want nil", got)
	}
}

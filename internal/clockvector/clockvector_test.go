package clockvector

import "testing"

func TestNewFromParentCopiesAndBumps(t *testing.T) {
	parent := New()
	parent.Set(0, 5)
	parent.Set(1, 3)

	cv := NewFromParent(parent, 1, 4)

	if got := cv.GetClock(0); got != 5 {
		t.Errorf("GetClock(0) = %d, want 5 (copied from parent)", got)
	}
	if got := cv.GetClock(1); got != 4 {
		t.Errorf("GetClock(1) = %d, want 4 (bumped to seq)", got)
	}
}

func TestNewFromParentNilParent(t *testing.T) {
	cv := NewFromParent(nil, 2, 1)
	if got := cv.GetClock(2); got != 1 {
		t.Errorf("GetClock(2) = %d, want 1", got)
	}
	if got := cv.GetClock(0); got != 0 {
		t.Errorf("GetClock(0) = %d, want 0 (unknown thread)", got)
	}
}

func TestMergeIsPointwiseMax(t *testing.T) {
	a := New()
	a.Set(0, 1)
	a.Set(1, 5)
	b := New()
	b.Set(0, 3)
	b.Set(2, 2)

	changed := a.Merge(b)
	if !changed {
		t.Fatal("Merge should report a change")
	}
	if got := a.GetClock(0); got != 3 {
		t.Errorf("GetClock(0) = %d, want 3", got)
	}
	if got := a.GetClock(1); got != 5 {
		t.Errorf("GetClock(1) = %d, want 5 (unchanged)", got)
	}
	if got := a.GetClock(2); got != 2 {
		t.Errorf("GetClock(2) = %d, want 2 (grown)", got)
	}
}

func TestMergeNilAndSelfAreNoOps(t *testing.T) {
	a := New()
	a.Set(0, 1)

	if a.Merge(nil) {
		t.Error("Merge(nil) should report no change")
	}
	if a.Merge(a) {
		t.Error("Merge(self) should report no change")
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := New()
	a.Set(0, 1)
	b := New()
	b.Set(0, 4)

	a.Merge(b)
	before := a.Clone()
	a.Merge(b)
	if !before.LessOrEqual(a) || !a.LessOrEqual(before) {
		t.Error("merging the same vector twice should be idempotent")
	}
}

func TestLessOrEqual(t *testing.T) {
	a := New()
	a.Set(0, 1)
	b := New()
	b.Set(0, 2)
	b.Set(1, 9)

	if !a.LessOrEqual(b) {
		t.Error("a should be <= b")
	}
	if b.LessOrEqual(a) {
		t.Error("b should not be <= a")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	a.Set(0, 1)
	clone := a.Clone()
	a.Set(0, 99)

	if got := clone.GetClock(0); got != 1 {
		t.Errorf("clone.GetClock(0) = %d, want 1 (independent of source mutation)", got)
	}
}

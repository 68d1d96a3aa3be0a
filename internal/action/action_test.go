package action

import "testing"

func TestPredicates(t *testing.T) {
	read := New(AtomicRead, Acquire, 1, 0, 8, 1)
	if !read.IsRead() || read.IsWrite() {
		t.Error("atomic read should be IsRead, not IsWrite")
	}
	if !read.IsAcquire() {
		t.Error("acquire read should be IsAcquire")
	}

	write := New(AtomicWrite, Release, 1, 0, 8, 1)
	if !write.IsWrite() || write.IsRead() {
		t.Error("atomic write should be IsWrite, not IsRead")
	}
	if !write.IsRelease() {
		t.Error("release write should be IsRelease")
	}

	fence := New(Fence, SeqCst, 0, 0, 0, 1)
	if !fence.IsFence() || !fence.IsSeqCst() || !fence.IsAcquire() || !fence.IsRelease() {
		t.Error("seq-cst fence should be fence, seq-cst, acquire, and release")
	}

	lock := New(Lock, Relaxed, 1, 0, 0, 1)
	if !lock.IsLock() || !lock.IsMutexOp() {
		t.Error("lock should be IsLock and IsMutexOp")
	}
}

func TestHappensBefore(t *testing.T) {
	a := New(AtomicWrite, Relaxed, 1, 1, 8, 1)
	a.CreateCV(nil, 1)

	b := New(AtomicRead, Relaxed, 1, 0, 8, 1)
	b.CreateCV(a, 2)

	if !a.HappensBefore(b) {
		t.Error("a should happen-before its sequenced successor b")
	}
	if b.HappensBefore(a) {
		t.Error("b should not happen-before its sequenced predecessor a")
	}
}

func TestHappensBeforeNilCV(t *testing.T) {
	a := New(AtomicWrite, Relaxed, 1, 1, 8, 1)
	b := New(AtomicRead, Relaxed, 1, 0, 8, 1)
	if a.HappensBefore(b) {
		t.Error("an action with no CV can't happen-before anything")
	}
}

func TestValEquals(t *testing.T) {
	cases := []struct {
		a, b uint64
		size int
		want bool
	}{
		{0xff, 0x1ff, 1, true},
		{0xff, 0x2fe, 1, false},
		{0x1234, 0xffff1234, 2, true},
		{1, 1, 8, true},
		{1, 2, 8, false},
	}
	for _, c := range cases {
		if got := ValEquals(c.a, c.b, c.size); got != c.want {
			t.Errorf("ValEquals(%x, %x, %d) = %v, want %v", c.a, c.b, c.size, got, c.want)
		}
	}
}

func TestValEqualsInvalidSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ValEquals with an invalid size should panic (B1)")
		}
	}()
	ValEquals(1, 1, 3)
}

func TestCreateCVAssignsSeq(t *testing.T) {
	a := New(AtomicRead, Relaxed, 1, 0, 8, 1)
	a.CreateCV(nil, 7)
	if a.Seq != 7 {
		t.Errorf("Seq = %d, want 7", a.Seq)
	}
	if a.CV.GetClock(1) != 7 {
		t.Errorf("CV.GetClock(1) = %d, want 7", a.CV.GetClock(1))
	}
}

func TestPruned(t *testing.T) {
	a := New(AtomicRead, Relaxed, 1, 0, 8, 1)
	if a.Pruned() {
		t.Error("a fresh action should not be pruned")
	}
	a.MarkPruned()
	if !a.Pruned() {
		t.Error("MarkPruned should set Pruned")
	}
}

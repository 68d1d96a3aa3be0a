// Package action defines the Action record: the single unit of work the
// ExecutionEngine consumes, one per instrumented atomic operation, fence,
// lock/condvar call, or thread lifecycle event.
package action

import (
	"fmt"

	"github.com/kolkov/gomc/internal/clockvector"
)

// Kind identifies what an Action represents. The set is stable and mirrors
// the instrumented operations a program-under-test can emit.
type Kind int

const (
	AtomicRead Kind = iota
	AtomicWrite
	AtomicRMWRead
	AtomicRMWCommit
	AtomicRMW
	NonAtomicWrite
	UninitWrite
	Fence
	Lock
	Trylock
	Unlock
	Wait
	TimedWait
	NotifyOne
	NotifyAll
	ThreadStart
	ThreadCreate
	ThreadJoin
	ThreadFinish
	ThreadSleep
	PthreadCreate
	PthreadJoin
)

func (k Kind) String() string {
	switch k {
	case AtomicRead:
		return "atomic-read"
	case AtomicWrite:
		return "atomic-write"
	case AtomicRMWRead:
		return "atomic-rmw-read"
	case AtomicRMWCommit:
		return "atomic-rmw-commit"
	case AtomicRMW:
		return "atomic-rmw"
	case NonAtomicWrite:
		return "non-atomic-write"
	case UninitWrite:
		return "uninit-write"
	case Fence:
		return "fence"
	case Lock:
		return "lock"
	case Trylock:
		return "trylock"
	case Unlock:
		return "unlock"
	case Wait:
		return "wait"
	case TimedWait:
		return "timed-wait"
	case NotifyOne:
		return "notify-one"
	case NotifyAll:
		return "notify-all"
	case ThreadStart:
		return "thread-start"
	case ThreadCreate:
		return "thread-create"
	case ThreadJoin:
		return "thread-join"
	case ThreadFinish:
		return "thread-finish"
	case ThreadSleep:
		return "thread-sleep"
	case PthreadCreate:
		return "pthread-create"
	case PthreadJoin:
		return "pthread-join"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MemoryOrder is the C/C++-style memory-order tag carried by every atomic
// Action. Orthogonal to Kind: a read, write, or RMW may carry any order.
type MemoryOrder int

const (
	Relaxed MemoryOrder = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

func (o MemoryOrder) String() string {
	switch o {
	case Relaxed:
		return "relaxed"
	case Acquire:
		return "acquire"
	case Release:
		return "release"
	case AcqRel:
		return "acq_rel"
	case SeqCst:
		return "seq_cst"
	default:
		return "unknown"
	}
}

// Location is the opaque, pointer-sized key identifying the memory location
// an atomic Action touches. The model checker never dereferences it; it is
// only ever compared for equality and used as a map key.
type Location uintptr

// ModelThreadID is the id reserved for the synthetic model thread that owns
// UNINIT pseudo-writes. It is never scheduled to run.
const ModelThreadID = 0

// Action is one instrumented operation performed by one thread.
//
// An Action is identified by (ThreadID, Seq); Seq is assigned once, by the
// engine, at initialization, and is unique and monotonically increasing
// across an entire execution (P1).
type Action struct {
	Kind   Kind
	Order  MemoryOrder
	Loc    Location
	Value  uint64
	Size   int // access size in bytes, one of {1, 2, 4, 8} for atomics
	ThreadID int
	Seq    uint64

	// Operand carries the thread id being joined/created (for thread
	// lifecycle actions) or the mutex id (for lock/condvar actions).
	Operand int

	// CV is this Action's own clock vector. Set exactly once at
	// initialization (NewFromParent) and mutated thereafter only by Merge.
	CV *clockvector.ClockVector

	// ReadsFrom is set on a committed read: the write it observed.
	ReadsFrom *Action

	// LastFenceRelease is the most recent release fence the issuing
	// thread had seen at the time this Action was issued, or nil.
	LastFenceRelease *Action

	// ReleaseCV caches get_hb_from_write's result for this Action when it
	// is used as an rf target. Write-once: never overwritten after being
	// set (see package engine's release-sequence walk).
	ReleaseCV *clockvector.ClockVector

	// Expected is the comparand for a CAS-style RMW read; only meaningful
	// when Kind == AtomicRMWRead and the RMW is a compare-and-swap.
	Expected    uint64
	IsCAS       bool
	CASSucceeded bool

	// pruned marks an Action that process_read removed from the
	// per-thread/per-location index because it was redundant with an
	// earlier same-thread choice (see r_modification_order's canprune).
	pruned bool
}

// New constructs an Action in its pre-initialization state: Kind/Order/
// Loc/Value/Size/ThreadID/Operand are caller-supplied, everything the engine
// assigns (Seq, CV, ...) is left zero until check_current_action runs.
func New(kind Kind, order MemoryOrder, loc Location, value uint64, size int, tid int) *Action {
	return &Action{
		Kind:     kind,
		Order:    order,
		Loc:      loc,
		Value:    value,
		Size:     size,
		ThreadID: tid,
	}
}

func (a *Action) IsRead() bool {
	switch a.Kind {
	case AtomicRead, AtomicRMWRead:
		return true
	default:
		return false
	}
}

func (a *Action) IsWrite() bool {
	switch a.Kind {
	case AtomicWrite, AtomicRMWCommit, AtomicRMW, NonAtomicWrite, UninitWrite:
		return true
	default:
		return false
	}
}

func (a *Action) IsRMW() bool       { return a.Kind == AtomicRMW }
func (a *Action) IsRMWCommit() bool { return a.Kind == AtomicRMWCommit }
func (a *Action) IsRMWRead() bool   { return a.Kind == AtomicRMWRead }

func (a *Action) IsSeqCst() bool { return a.Order == SeqCst }
func (a *Action) IsAcquire() bool {
	return a.Order == Acquire || a.Order == AcqRel || a.Order == SeqCst
}
func (a *Action) IsRelease() bool {
	return a.Order == Release || a.Order == AcqRel || a.Order == SeqCst
}

func (a *Action) IsFence() bool { return a.Kind == Fence }

func (a *Action) IsLock() bool {
	return a.Kind == Lock || a.Kind == Trylock
}

func (a *Action) IsMutexOp() bool {
	switch a.Kind {
	case Lock, Trylock, Unlock, Wait, TimedWait, NotifyOne, NotifyAll:
		return true
	default:
		return false
	}
}

func (a *Action) IsThreadJoin() bool {
	return a.Kind == ThreadJoin || a.Kind == PthreadJoin
}

func (a *Action) IsThreadCreate() bool {
	return a.Kind == ThreadCreate || a.Kind == PthreadCreate
}

func (a *Action) IsThreadFinish() bool {
	return a.Kind == ThreadFinish
}

func (a *Action) IsSleep() bool { return a.Kind == ThreadSleep }

// HappensBefore reports whether a is sequenced/synchronized before b: the
// Action-level lifting of ClockVector.LessOrEqual, with the convention that
// an action happens-before itself is never asked (callers skip act == curr).
func (a *Action) HappensBefore(b *Action) bool {
	if a.CV == nil || b.CV == nil {
		return false
	}
	return a.CV.GetClock(a.ThreadID) <= b.CV.GetClock(a.ThreadID)
}

// Less orders two actions by sequence number, used only for comparing an
// action against a fence position ("act < fence").
func (a *Action) Less(b *Action) bool {
	return a.Seq < b.Seq
}

// ValEquals compares two raw values as if truncated to size bytes. Sizes
// outside {1,2,4,8} are an InternalInvariant (B1) and panic: the caller
// (build_may_read_from for a CAS read) must never supply anything else.
func ValEquals(a, b uint64, size int) bool {
	var mask uint64
	switch size {
	case 1:
		mask = 0xff
	case 2:
		mask = 0xffff
	case 4:
		mask = 0xffffffff
	case 8:
		mask = ^uint64(0)
	default:
		panic(fmt.Sprintf("action: invalid access size %d (must be 1, 2, 4, or 8)", size))
	}
	return a&mask == b&mask
}

// CreateCV initializes curr's clock vector by copying parent (the issuing
// thread's previous action, or nil for the thread's first action) and
// bumping the thread's own entry to seq. Must be called exactly once.
func (a *Action) CreateCV(parent *Action, seq uint64) {
	var parentCV *clockvector.ClockVector
	if parent != nil {
		parentCV = parent.CV
	}
	a.CV = clockvector.NewFromParent(parentCV, a.ThreadID, seq)
	a.Seq = seq
}

// Pruned reports whether this Action has been removed from the per-location
// per-thread index as redundant (r_modification_order's canprune path).
func (a *Action) Pruned() bool { return a.pruned }

// MarkPruned records that this Action has been dropped from obj_thrd_map.
func (a *Action) MarkPruned() { a.pruned = true }

func (a *Action) String() string {
	return fmt.Sprintf("#%d T%d %s(%s) loc=%v val=%d", a.Seq, a.ThreadID, a.Kind, a.Order, a.Loc, a.Value)
}

// Package mutexstate tracks per-lock and per-condvar state for one
// execution: who (if anyone) holds each mutex, and which Actions are parked
// waiting on each condition variable.
package mutexstate

import "github.com/kolkov/gomc/internal/action"

// unlockedTID is the sentinel Locked value meaning "no thread holds this
// lock." Thread 0 is reserved for the synthetic model thread and is never a
// real lock holder, so it cannot be confused with a genuine owner.
const unlockedTID = -1

// MutexState is the per-lock record: who holds it, and the last unlock seen
// on it (so ATOMIC_LOCK can synchronize with its predecessor).
type MutexState struct {
	Locked     int // thread id holding the lock, or unlockedTID
	LastUnlock *action.Action
}

// Table is the per-execution map from mutex location to MutexState, plus
// the parallel condvar_waiters_map keyed the same way (a condvar and the
// mutex it is used with may share a location in the program-under-test, but
// the model checker never conflates the two tables).
type Table struct {
	mutexes   map[action.Location]*MutexState
	waiters   map[action.Location][]*action.Action
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		mutexes: make(map[action.Location]*MutexState),
		waiters: make(map[action.Location][]*action.Action),
	}
}

// Mutex returns the MutexState for loc, creating it (unlocked, no prior
// unlock) on first reference.
func (t *Table) Mutex(loc action.Location) *MutexState {
	m, ok := t.mutexes[loc]
	if !ok {
		m = &MutexState{Locked: unlockedTID}
		t.mutexes[loc] = m
	}
	return m
}

// IsUnlocked reports whether the lock at loc is currently free. Used by
// check_action_enabled: a LOCK is only enabled while its mutex is free.
func (m *MutexState) IsUnlocked() bool { return m.Locked == unlockedTID }

// Acquire records that tid now holds the lock, and returns the previous
// holder's last unlock (if any) so the caller can synchronize with it.
func (m *MutexState) Acquire(tid int) *action.Action {
	m.Locked = tid
	return m.LastUnlock
}

// Release records that the lock is free and remembers unlockAct as the
// unlock later LOCKs should synchronize with.
func (m *MutexState) Release(unlockAct *action.Action) {
	m.Locked = unlockedTID
	m.LastUnlock = unlockAct
}

// AddWaiter appends wait to the condvar waiter list at loc.
func (t *Table) AddWaiter(loc action.Location, wait *action.Action) {
	t.waiters[loc] = append(t.waiters[loc], wait)
}

// Waiters returns the condvar waiter list at loc without modifying it.
func (t *Table) Waiters(loc action.Location) []*action.Action {
	return t.waiters[loc]
}

// ClearWaiters empties the condvar waiter list at loc, used by NOTIFY_ALL
// once every waiter has been woken.
func (t *Table) ClearWaiters(loc action.Location) {
	delete(t.waiters, loc)
}

// Package index implements the layered views the engine keeps over an
// execution's Actions: the total trace, per-location ordering, per-location
// per-thread ordering, and the derived write-only and last-seq-cst views.
package index

import "github.com/kolkov/gomc/internal/action"

// perLocation is the bookkeeping kept for one memory location.
type perLocation struct {
	all       []*action.Action   // obj_map: every Action at this location, append order
	perThread [][]*action.Action // obj_thrd_map: resized lazily as threads appear
	writes    [][]*action.Action // obj_wr_thrd_map: same shape, writes only
	lastSC    *action.Action     // obj_last_sc_map
}

func (p *perLocation) growTo(tid int) {
	for len(p.perThread) <= tid {
		p.perThread = append(p.perThread, nil)
		p.writes = append(p.writes, nil)
	}
}

// ActionIndex is the engine's total and per-location bookkeeping for one
// execution. It is never shared across executions: a fresh ActionIndex is
// built per run and discarded with the rest of the execution's arena.
type ActionIndex struct {
	trace              []*action.Action // action_trace
	byLoc              map[action.Location]*perLocation
	lastAction         map[int]*action.Action // thrd_last_action
	lastFenceRelease   map[int]*action.Action // thrd_last_fence_release
	fences             []*action.Action        // every fence, in trace order (all threads)
	perThreadTrace     map[int][]*action.Action // each thread's own sequential history
}

// New returns an empty ActionIndex.
func New() *ActionIndex {
	return &ActionIndex{
		byLoc:            make(map[action.Location]*perLocation),
		lastAction:       make(map[int]*action.Action),
		lastFenceRelease: make(map[int]*action.Action),
		perThreadTrace:   make(map[int][]*action.Action),
	}
}

func (x *ActionIndex) location(loc action.Location) *perLocation {
	p, ok := x.byLoc[loc]
	if !ok {
		p = &perLocation{}
		x.byLoc[loc] = p
	}
	return p
}

// Trace returns the total order of every Action indexed so far, by seq#.
func (x *ActionIndex) Trace() []*action.Action { return x.trace }

// AddToTrace appends act to the total order and records it as the issuing
// thread's most recent action. Called once per Action, after any rf choice
// has been committed (step 6 of check_current_action).
func (x *ActionIndex) AddToTrace(act *action.Action) {
	x.trace = append(x.trace, act)
	x.lastAction[act.ThreadID] = act
	x.perThreadTrace[act.ThreadID] = append(x.perThreadTrace[act.ThreadID], act)
	if act.IsFence() {
		x.fences = append(x.fences, act)
		if act.IsRelease() {
			x.lastFenceRelease[act.ThreadID] = act
		}
	}
}

// ThreadTrace returns thread tid's own sequential history, the order used by
// an acquire fence's backward scan for non-acquire reads sequenced before it.
func (x *ActionIndex) ThreadTrace(tid int) []*action.Action { return x.perThreadTrace[tid] }

// Fences returns every fence Action seen so far, across all threads, in
// trace order. get_last_seq_cst_fence scans this list, filtering by thread.
func (x *ActionIndex) Fences() []*action.Action { return x.fences }

// AddAtLocation records act in obj_map and obj_thrd_map for its location.
// Every Action that touches a location (read, write, or UNINIT) goes through
// this, not only writes.
func (x *ActionIndex) AddAtLocation(act *action.Action) {
	p := x.location(act.Loc)
	p.all = append(p.all, act)
	p.growTo(act.ThreadID)
	p.perThread[act.ThreadID] = append(p.perThread[act.ThreadID], act)
}

// AddWrite additionally records a write in obj_wr_thrd_map and, if it is
// seq-cst, updates obj_last_sc_map for its location.
func (x *ActionIndex) AddWrite(act *action.Action) {
	p := x.location(act.Loc)
	p.growTo(act.ThreadID)
	p.writes[act.ThreadID] = append(p.writes[act.ThreadID], act)
	if act.IsSeqCst() {
		p.lastSC = act
	}
}

// AllAtLocation returns obj_map[loc], the total order of every Action that
// has touched loc.
func (x *ActionIndex) AllAtLocation(loc action.Location) []*action.Action {
	if p, ok := x.byLoc[loc]; ok {
		return p.all
	}
	return nil
}

// PerThreadAtLocation returns obj_thrd_map[loc][tid], or nil if thread tid
// has never touched loc (the slice is only grown as threads appear).
func (x *ActionIndex) PerThreadAtLocation(loc action.Location, tid int) []*action.Action {
	p, ok := x.byLoc[loc]
	if !ok || tid >= len(p.perThread) {
		return nil
	}
	return p.perThread[tid]
}

// NumThreadsAtLocation returns the width of obj_thrd_map[loc], i.e. one past
// the highest thread id that has ever touched loc.
func (x *ActionIndex) NumThreadsAtLocation(loc action.Location) int {
	if p, ok := x.byLoc[loc]; ok {
		return len(p.perThread)
	}
	return 0
}

// WritesPerThreadAtLocation returns obj_wr_thrd_map[loc][tid].
func (x *ActionIndex) WritesPerThreadAtLocation(loc action.Location, tid int) []*action.Action {
	p, ok := x.byLoc[loc]
	if !ok || tid >= len(p.writes) {
		return nil
	}
	return p.writes[tid]
}

// NumWriteThreadsAtLocation returns the width of obj_wr_thrd_map[loc].
func (x *ActionIndex) NumWriteThreadsAtLocation(loc action.Location) int {
	if p, ok := x.byLoc[loc]; ok {
		return len(p.writes)
	}
	return 0
}

// LastSeqCstWrite returns obj_last_sc_map[loc], or nil.
func (x *ActionIndex) LastSeqCstWrite(loc action.Location) *action.Action {
	if p, ok := x.byLoc[loc]; ok {
		return p.lastSC
	}
	return nil
}

// SetLastSeqCstWrite overwrites obj_last_sc_map[loc]. Exposed separately
// from AddWrite so w_modification_order can read the *previous* value
// before installing curr as the new one.
func (x *ActionIndex) SetLastSeqCstWrite(loc action.Location, act *action.Action) {
	x.location(loc).lastSC = act
}

// LastAction returns thrd_last_action[tid], the Action the engine will use
// as the parent when it next initializes a new Action from thread tid.
func (x *ActionIndex) LastAction(tid int) *action.Action {
	return x.lastAction[tid]
}

// LastFenceRelease returns thrd_last_fence_release[tid].
func (x *ActionIndex) LastFenceRelease(tid int) *action.Action {
	return x.lastFenceRelease[tid]
}

// PruneReadTail removes the most recently added Action from
// obj_thrd_map[loc][tid], used when process_read's canprune flag fires: the
// read is dominated by an earlier same-thread rf choice and need not be
// considered by any later r_modification_order walk.
func (x *ActionIndex) PruneReadTail(loc action.Location, tid int) {
	p, ok := x.byLoc[loc]
	if !ok || tid >= len(p.perThread) || len(p.perThread[tid]) == 0 {
		return
	}
	last := p.perThread[tid]
	last[len(last)-1].MarkPruned()
	p.perThread[tid] = last[:len(last)-1]
}

// InsertNonAtomicWrite performs the lazy insertion the race detector uses to
// record a non-atomic write's place in obj_map[loc] after the fact: it walks
// to the first existing entry with the same sequence number and inserts act
// immediately after it, appending if the list is empty.
//
// It reports false if the list is non-empty and no matching sequence number
// was found; per the design notes this outcome is an InternalInvariant that
// the caller must raise, not silently ignore.
func (x *ActionIndex) InsertNonAtomicWrite(loc action.Location, act *action.Action) bool {
	p := x.location(loc)
	if len(p.all) == 0 {
		p.all = append(p.all, act)
		return true
	}
	for i, sibling := range p.all {
		if sibling.Seq == act.Seq {
			p.all = append(p.all, nil)
			copy(p.all[i+2:], p.all[i+1:])
			p.all[i+1] = act
			return true
		}
	}
	return false
}

// Package engine implements ModelExecution: the per-execution core that
// consumes one Action at a time, assigns it a clock vector, chooses its
// reads-from write through the fuzzer, folds it into the modification-order
// graph, and drives the mutex/condvar and thread-lifecycle state machines.
//
// An Engine is built fresh for every execution and discarded with it; it
// keeps no state across executions (that is the outer driver's job, along
// with thread-ordering policy and snapshot/rollback, neither of which this
// package touches).
package engine

import (
	"github.com/kolkov/gomc/internal/action"
	"github.com/kolkov/gomc/internal/clockvector"
	"github.com/kolkov/gomc/internal/fuzzer"
	"github.com/kolkov/gomc/internal/index"
	"github.com/kolkov/gomc/internal/mograph"
	"github.com/kolkov/gomc/internal/mutexstate"
	"github.com/kolkov/gomc/internal/report"
	"github.com/kolkov/gomc/internal/scheduler"
)

// initThreadID is the id of the program's first real thread. Id 0
// (action.ModelThreadID) is reserved for the synthetic model thread.
const initThreadID = 1

// Engine is one execution's ModelExecution. Every exported method that takes
// an Action expects the engine to be the only caller driving it: nothing
// here is safe for concurrent use, by design (the core is cooperative).
type Engine struct {
	sched   scheduler.Scheduler
	fz      fuzzer.Fuzzer
	idx     *index.ActionIndex
	graph   *mograph.CycleGraph
	mutexes *mutexstate.Table
	bugs    report.List

	threads map[int]*scheduler.Thread
	nextTID int
	nextSeq uint64

	asserted bool
	finished bool
}

// New returns a fresh Engine with the initial thread already registered and
// added to sched. fz resolves every choice point (rf, notify, wait/sleep);
// sched tracks which threads exist and which are asleep.
func New(sched scheduler.Scheduler, fz fuzzer.Fuzzer) *Engine {
	e := &Engine{
		sched:   sched,
		fz:      fz,
		idx:     index.New(),
		graph:   mograph.New(),
		mutexes: mutexstate.New(),
		threads: make(map[int]*scheduler.Thread),
		nextTID: initThreadID + 1,
		nextSeq: 1,
	}
	e.threads[action.ModelThreadID] = &scheduler.Thread{ID: action.ModelThreadID, State: scheduler.Model}
	init := scheduler.NewThread(initThreadID)
	e.threads[initThreadID] = init
	sched.AddThread(init)
	return e
}

// InitThread returns the program's first thread.
func (e *Engine) InitThread() *scheduler.Thread { return e.threads[initThreadID] }

// Thread looks up a thread by id, or nil if none exists yet.
func (e *Engine) Thread(tid int) *scheduler.Thread { return e.threads[tid] }

// Bugs returns the bug list accumulated so far.
func (e *Engine) Bugs() *report.List { return &e.bugs }

// Graph exposes the modification-order graph, for report.DumpGraph.
func (e *Engine) Graph() *mograph.CycleGraph { return e.graph }

// Trace returns the total order of every Action committed so far.
func (e *Engine) Trace() []*action.Action { return e.idx.Trace() }

func (e *Engine) nextThreadID() int {
	id := e.nextTID
	e.nextTID++
	return id
}

func (e *Engine) nextSeqNum() uint64 {
	seq := e.nextSeq
	e.nextSeq++
	return seq
}

func isCommitHalf(a *action.Action) bool {
	return a.Kind == action.AtomicRMWCommit || a.Kind == action.AtomicRMW
}

func isAtomicVar(a *action.Action) bool {
	switch a.Kind {
	case action.AtomicRead, action.AtomicWrite, action.AtomicRMWRead, action.AtomicRMWCommit, action.AtomicRMW:
		return true
	default:
		return false
	}
}

// CheckActionEnabled reports whether curr could run right now, independent
// of whether any other thread also could. The driver must call this before
// TakeStep; TakeStep itself refuses a disabled action as an invariant
// violation rather than silently blocking its caller.
func (e *Engine) CheckActionEnabled(curr *action.Action) bool {
	switch {
	case curr.IsLock():
		return e.mutexes.Mutex(curr.Loc).IsUnlocked()
	case curr.IsThreadJoin():
		target := e.threads[curr.Operand]
		return target != nil && target.IsComplete()
	case curr.Kind == action.ThreadSleep:
		return e.fz.ShouldSleep(curr)
	default:
		return true
	}
}

// NotifyBlocked records that curr was found not enabled by
// CheckActionEnabled and the driver is parking its thread instead of calling
// TakeStep. It is the engine's own bookkeeping for who wakes this thread
// later: THREAD_FINISH wakes a blocked joiner, UNLOCK/WAIT wake a blocked
// locker, both by scanning Pending/WaitingOn rather than guessing.
func (e *Engine) NotifyBlocked(curr *action.Action) {
	th := e.threads[curr.ThreadID]
	th.Pending = curr
	th.State = scheduler.Blocked
	if curr.IsThreadJoin() {
		th.WaitingOn = e.threads[curr.Operand]
	}
}

// TakeStep commits curr as the next step of its issuing thread: it assigns
// curr's clock vector and sequence number, resolves any rf choice, folds the
// result into the modification-order graph, and dispatches the mutex/condvar
// or thread-lifecycle state machine. It returns the thread the driver should
// prefer to schedule next (non-nil only when curr pins the next step, as an
// RMW-read half or a freshly-created thread's THREAD_START), or nil when the
// driver is free to pick any enabled thread.
func (e *Engine) TakeStep(curr *action.Action) (*scheduler.Thread, error) {
	th := e.threads[curr.ThreadID]
	if th == nil || th.State != scheduler.Ready {
		return nil, invariantf("take_step: thread %d is not ready", curr.ThreadID)
	}
	if !e.CheckActionEnabled(curr) {
		return nil, invariantf("take_step: action %s is not enabled", curr)
	}
	committed, err := e.checkCurrentAction(curr)
	if err != nil {
		return nil, err
	}
	if th.IsBlocked() || th.IsComplete() {
		e.sched.RemoveThread(th)
	}
	return e.nextPinnedThread(committed), nil
}

func (e *Engine) nextPinnedThread(curr *action.Action) *scheduler.Thread {
	if curr.IsRMWRead() {
		return e.threads[curr.ThreadID]
	}
	if curr.IsThreadCreate() {
		return e.threads[curr.Operand]
	}
	return nil
}

// checkCurrentAction is the seven-step dispatch every Action passes through:
// initialize (or merge, for an RMW-commit half), wake any sleepers its
// effect might unblock, resolve a read's rf if it is one, index it, and
// finally run the kind-specific state machine.
func (e *Engine) checkCurrentAction(curr *action.Action) (*action.Action, error) {
	secondHalf := isCommitHalf(curr)

	curr, freshlyInitialized, err := e.initializeCurrAction(curr)
	if err != nil {
		return nil, err
	}

	e.wakeUpSleepingActions(curr)

	if !secondHalf {
		e.addUninitActionToLists(curr)
	}

	var rfSet []*action.Action
	if freshlyInitialized && curr.IsRead() {
		rfSet = e.buildMayReadFrom(curr)
	}

	if curr.IsRead() && !secondHalf {
		ok, err := e.processRead(curr, rfSet)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.bugs.Add(report.InfeasibleRead, "thread %d: no feasible write for read at location %v", curr.ThreadID, curr.Loc)
			e.asserted = true
		}
	}

	if !secondHalf {
		e.idx.AddAtLocation(curr)
		e.idx.AddToTrace(curr)
	}

	e.processThreadAction(curr)

	if curr.IsWrite() {
		// wModificationOrder reads the previous seq-cst write before
		// AddWrite installs curr as the location's last one.
		e.wModificationOrder(curr)
		e.idx.AddWrite(curr)
	}
	if curr.IsFence() {
		e.processFence(curr)
	}
	if curr.IsMutexOp() {
		if err := e.processMutex(curr); err != nil {
			return nil, err
		}
	}

	return curr, nil
}

func (e *Engine) getParentAction(tid int) *action.Action {
	if p := e.idx.LastAction(tid); p != nil {
		return p
	}
	if t := e.threads[tid]; t != nil {
		return t.Creation
	}
	return nil
}

// initializeCurrAction assigns curr its seq# and clock vector, or, if curr
// is the commit half of a split RMW, merges it into the matching pending
// read instead of treating it as a new Action. It reports whether curr was
// freshly initialized (false for a merged RMW commit, which already went
// through this once as its read half).
func (e *Engine) initializeCurrAction(curr *action.Action) (*action.Action, bool, error) {
	if isCommitHalf(curr) {
		merged, err := e.processRMW(curr)
		if err != nil {
			return nil, false, err
		}
		return merged, false, nil
	}
	parent := e.getParentAction(curr.ThreadID)
	curr.CreateCV(parent, e.nextSeqNum())
	curr.LastFenceRelease = e.idx.LastFenceRelease(curr.ThreadID)
	return curr, true, nil
}

// processRMW merges a commit half into the matching pending RMW-read,
// turning the pair into one AtomicRMW write in place: the read determined
// which write the RMW observed, the commit supplies the value it stores.
func (e *Engine) processRMW(commit *action.Action) (*action.Action, error) {
	pending := e.idx.LastAction(commit.ThreadID)
	if pending == nil || !pending.IsRMWRead() {
		return nil, invariantf("process_rmw: thread %d has no pending rmw-read to merge into", commit.ThreadID)
	}
	pending.Kind = action.AtomicRMW
	pending.Value = commit.Value
	pending.CASSucceeded = commit.CASSucceeded
	if pending.ReadsFrom != nil && (!pending.IsCAS || pending.CASSucceeded) {
		e.graph.AddRMWEdge(pending.ReadsFrom, pending)
	}
	return pending, nil
}

// addUninitActionToLists synthesizes the UNINIT pseudo-write the very first
// touch of an atomic location needs: a write by the model thread, seq# 0 (a
// sentinel shared by every location's UNINIT, never added to the trace, and
// excluded from P1's per-trace uniqueness), happens-before everything.
func (e *Engine) addUninitActionToLists(curr *action.Action) {
	if !isAtomicVar(curr) {
		return
	}
	if len(e.idx.AllAtLocation(curr.Loc)) != 0 {
		return
	}
	uninit := action.New(action.UninitWrite, action.Relaxed, curr.Loc, 0, curr.Size, action.ModelThreadID)
	uninit.CreateCV(nil, 0)
	e.idx.AddAtLocation(uninit)
	e.idx.AddWrite(uninit)
}

// wakeUpSleepingActions wakes every sleeping thread whose pending action's
// wake condition curr newly satisfies. A partial RMW (the read half, still
// awaiting its commit) never wakes anyone: its effect is not yet final.
func (e *Engine) wakeUpSleepingActions(curr *action.Action) {
	if curr.Kind == action.AtomicRMWRead {
		return
	}
	for _, t := range e.sched.SleepingThreads() {
		if e.shouldWakeUp(curr, t) {
			e.sched.Wake(t)
		}
	}
}

// shouldWakeUp implements the four independent wake conditions a sleeping
// thread's pending action may satisfy once curr commits.
func (e *Engine) shouldWakeUp(curr *action.Action, t *scheduler.Thread) bool {
	pending := t.Pending
	if pending == nil {
		return false
	}
	if e.couldSynchronizeWith(pending, curr) {
		return true
	}
	if pending.IsFence() && pending.IsAcquire() && curr.IsRelease() {
		return true
	}
	if pending.IsRead() && pending.IsAcquire() && pending.Loc == curr.Loc && curr.IsWrite() && curr.IsRelease() {
		lastFenceRelease := e.idx.LastFenceRelease(curr.ThreadID)
		threadLast := e.idx.LastAction(t.ID)
		if lastFenceRelease != nil && threadLast != nil && threadLast.Seq < lastFenceRelease.Seq {
			return true
		}
	}
	if pending.Kind == action.ThreadSleep && e.fz.ShouldWake(pending) {
		return true
	}
	return false
}

// couldSynchronizeWith reports whether curr is the write a pending acquire
// read at the same location could now observe.
func (e *Engine) couldSynchronizeWith(pending, curr *action.Action) bool {
	return pending.IsRead() && pending.IsAcquire() && pending.Loc == curr.Loc && curr.IsWrite()
}

// buildMayReadFrom computes the candidate set a fresh read may observe: the
// writes at its location restricted by memory order (a seq-cst read may not
// see any seq-cst write, nor any write hb-before the last seq-cst write,
// other than the last seq-cst write itself), CAS value matching, and
// exclusion of any write already claimed by a committed RMW — which only
// bars a second RMW from re-claiming it, never a plain read.
func (e *Engine) buildMayReadFrom(curr *action.Action) []*action.Action {
	var out []*action.Action

	for tid := 0; tid < e.idx.NumWriteThreadsAtLocation(curr.Loc); tid++ {
		writes := e.idx.WritesPerThreadAtLocation(curr.Loc, tid)
		for i := len(writes) - 1; i >= 0; i-- {
			w := writes[i]
			if w.Pruned() {
				continue
			}
			if curr.IsRMWRead() && e.graph.GetRMW(w) != nil {
				if !(curr.IsCAS && !action.ValEquals(curr.Expected, w.Value, w.Size)) {
					continue
				}
			}
			if curr.IsSeqCst() {
				lastSC := e.idx.LastSeqCstWrite(curr.Loc)
				if (w.IsSeqCst() || (lastSC != nil && w.HappensBefore(lastSC))) && w != lastSC {
					continue
				}
			}
			// A CAS read that would fail against w (valequals false) still
			// belongs in the candidate set: a failing compare is itself a
			// legitimate outcome, not a reason to exclude w.
			out = append(out, w)
			if w.HappensBefore(curr) {
				break
			}
		}
	}
	return out
}

// lastSeqCstFence returns the most recent seq-cst fence issued by tid,
// strictly before the position marker before (nil meaning "the whole trace
// so far").
// Scanning the global fence list rather than tid's own trace mirrors
// FENCE_LOCATION: fences are not per-location, so no per-location index
// would help here.
func (e *Engine) lastSeqCstFence(tid int, before *action.Action) *action.Action {
	var last *action.Action
	for _, f := range e.idx.Fences() {
		if f.ThreadID != tid || !f.IsSeqCst() {
			continue
		}
		if before != nil && !f.Less(before) {
			continue
		}
		if last == nil || last.Less(f) {
			last = f
		}
	}
	return last
}

// processRead runs the fuzzer-guided rf-choice loop: it asks the fuzzer to
// pick a candidate, checks the candidate keeps the modification order
// acyclic via r_modification_order, and retries with the candidate dropped
// if it would not. It reports false once the fuzzer gives up (-1) or every
// candidate has been exhausted, meaning the read is infeasible.
func (e *Engine) processRead(curr *action.Action, rfSet []*action.Action) (bool, error) {
	candidates := append([]*action.Action(nil), rfSet...)
	for {
		choice := e.fz.SelectWrite(curr, candidates)
		if choice == -1 {
			return false, nil
		}
		if choice < 0 || choice >= len(candidates) {
			return false, invariantf("select_write: index %d out of range for %d candidates", choice, len(candidates))
		}
		rf := candidates[choice]
		priorset, canPrune, ok, err := e.rModificationOrder(curr, rf)
		if err != nil {
			return false, err
		}
		if ok {
			e.graph.AddEdges(priorset, rf)
			e.readFrom(curr, rf)
			if canPrune && curr.Kind == action.AtomicRead {
				e.idx.PruneReadTail(curr.Loc, curr.ThreadID)
			}
			return true, nil
		}
		candidates[choice] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
	}
}

func (e *Engine) readFrom(curr, rf *action.Action) {
	curr.ReadsFrom = rf
	if curr.IsAcquire() {
		if hb := e.getHBFromWrite(rf); hb != nil {
			curr.CV.Merge(hb)
		}
	}
}

func nextTid(tid, numThreads int) int {
	if tid+1 == numThreads {
		return 0
	}
	return tid + 1
}

// rModificationOrder checks whether curr reading from rf keeps the
// modification order acyclic. It walks every thread's actions at curr's
// location, starting at curr's own thread and wrapping around, collecting
// the set of writes that must precede rf (the priorset) and bailing out the
// moment a candidate would already be reachable the wrong way round the
// graph. It also reports canPrune: whether curr's own thread already has an
// earlier read at this location, hb-before curr, that reads from the same
// rf, making curr itself redundant for any future r_modification_order walk.
func (e *Engine) rModificationOrder(curr, rf *action.Action) (priorset []*action.Action, canPrune bool, ok bool, err error) {
	loc := curr.Loc
	numThreads := e.idx.NumThreadsAtLocation(loc)
	if numThreads <= curr.ThreadID {
		// curr is not indexed yet; widen so the walk still wraps to thread 0.
		numThreads = curr.ThreadID + 1
	}
	lastSCFenceLocal := e.lastSeqCstFence(curr.ThreadID, nil)

	var prevSameThread *action.Action
	tid := curr.ThreadID
	for ti := 0; ti < numThreads; ti, tid = ti+1, nextTid(tid, numThreads) {
		var lastSCFenceThreadLocal *action.Action
		if ti != 0 {
			lastSCFenceThreadLocal = e.lastSeqCstFence(tid, nil)
		}
		var lastSCFenceThreadBefore *action.Action
		if lastSCFenceLocal != nil {
			lastSCFenceThreadBefore = e.lastSeqCstFence(tid, lastSCFenceLocal)
		}
		if prevSameThread != nil &&
			prevSameThread.CV.GetClock(tid) == curr.CV.GetClock(tid) &&
			(lastSCFenceThreadLocal == nil || !lastSCFenceThreadLocal.Less(prevSameThread)) {
			continue
		}

		list := e.idx.PerThreadAtLocation(loc, tid)
		for ai := len(list) - 1; ai >= 0; ai-- {
			act := list[ai]
			if act == curr {
				continue
			}
			if act == rf {
				if act.HappensBefore(curr) {
					break
				}
				continue
			}
			if act.IsWrite() {
				switch {
				case curr.IsSeqCst() && lastSCFenceThreadLocal != nil && act.Less(lastSCFenceThreadLocal):
					if e.graph.CheckReachable(rf, act) {
						return nil, false, false, nil
					}
					priorset = append(priorset, act)
				case curr.IsSeqCst() && lastSCFenceLocal != nil && act.Less(lastSCFenceLocal):
					if e.graph.CheckReachable(rf, act) {
						return nil, false, false, nil
					}
					priorset = append(priorset, act)
				case lastSCFenceThreadBefore != nil && act.Less(lastSCFenceThreadBefore):
					if e.graph.CheckReachable(rf, act) {
						return nil, false, false, nil
					}
					priorset = append(priorset, act)
				}
			}
			if act.HappensBefore(curr) {
				if ti == 0 && (lastSCFenceLocal == nil || lastSCFenceLocal.Less(act)) {
					prevSameThread = act
				}
				if act.IsWrite() {
					if e.graph.CheckReachable(rf, act) {
						return nil, false, false, nil
					}
					priorset = append(priorset, act)
				} else if act.ReadsFrom != nil {
					if act.ReadsFrom != rf {
						if e.graph.CheckReachable(rf, act.ReadsFrom) {
							return nil, false, false, nil
						}
						priorset = append(priorset, act.ReadsFrom)
					} else if act.ThreadID == curr.ThreadID {
						canPrune = true
					}
				}
				break
			}
		}
	}
	return priorset, canPrune, true, nil
}

// wModificationOrder folds a freshly-committed write into the modification
// order graph: a seq-cst write is ordered after the previous seq-cst write
// at this location, and every thread contributes at most one edge, from
// whichever of its actions at this location curr's clock vector already
// observed (a write directly, or a read's own rf).
func (e *Engine) wModificationOrder(curr *action.Action) {
	loc := curr.Loc

	if curr.IsSeqCst() {
		if lastSC := e.idx.LastSeqCstWrite(loc); lastSC != nil {
			e.graph.AddEdge(lastSC, curr)
		}
		e.idx.SetLastSeqCstWrite(loc, curr)
	}

	lastSCFenceLocal := e.lastSeqCstFence(curr.ThreadID, nil)
	numThreads := e.idx.NumThreadsAtLocation(loc)
	var edgeset []*action.Action

	for tid := 0; tid < numThreads; tid++ {
		var lastSCFenceThreadBefore *action.Action
		if lastSCFenceLocal != nil && tid != curr.ThreadID {
			lastSCFenceThreadBefore = e.lastSeqCstFence(tid, lastSCFenceLocal)
		}
		list := e.idx.PerThreadAtLocation(loc, tid)
		for i := len(list) - 1; i >= 0; i-- {
			act := list[i]
			if act == curr {
				if curr.IsRMW() && curr.ReadsFrom != nil {
					break
				}
				continue
			}
			if lastSCFenceThreadBefore != nil && act.IsWrite() && act.Less(lastSCFenceThreadBefore) {
				edgeset = append(edgeset, act)
				break
			}
			if act.HappensBefore(curr) {
				if act.IsWrite() {
					edgeset = append(edgeset, act)
				} else if act.ReadsFrom != nil {
					edgeset = append(edgeset, act.ReadsFrom)
				}
				break
			}
		}
	}
	e.graph.AddEdges(edgeset, curr)
}

// getHBFromWrite computes the clock vector an acquire observing rf
// synchronizes with: the release sequence headed by rf, walked back through
// any chain of RMWs that also read-modify-wrote this location, to the first
// link with its own cached or computable release clock, then forward again
// merging each link's contribution (and its last seen release fence, for a
// non-release RMW link).
func (e *Engine) getHBFromWrite(rf *action.Action) *clockvector.ClockVector {
	var chain []*action.Action
	cur := rf
	for cur != nil && cur.IsRMW() && cur.ReleaseCV == nil && !(cur.IsAcquire() && cur.IsRelease()) {
		chain = append(chain, cur)
		cur = cur.ReadsFrom
	}
	if cur == nil {
		return nil
	}

	var vec *clockvector.ClockVector
	walk := cur
	i := len(chain)
	for {
		switch {
		case walk.ReleaseCV != nil:
			vec = walk.ReleaseCV
		case walk.IsAcquire() && walk.IsRelease():
			vec = walk.CV
		case walk.IsRelease() && !walk.IsRMW():
			vec = walk.CV
		case walk.IsRelease():
			merged := clockvector.New()
			if vec != nil {
				merged.Merge(vec)
			}
			merged.Merge(walk.CV)
			vec = merged
			walk.ReleaseCV = vec
		default:
			if walk.LastFenceRelease != nil {
				merged := clockvector.New()
				if vec != nil {
					merged.Merge(vec)
				}
				merged.Merge(walk.LastFenceRelease.CV)
				vec = merged
			}
			walk.ReleaseCV = vec
		}
		i--
		if i < 0 {
			break
		}
		walk = chain[i]
	}
	return vec
}

// processFence runs an acquire fence's backward scan of its own thread's
// trace: for every non-acquire read sequenced before the fence, up to the
// thread's start or an earlier acquire fence, the fence additionally
// synchronizes with whatever that read's own rf synchronized with.
func (e *Engine) processFence(curr *action.Action) {
	if !curr.IsAcquire() {
		return
	}
	trace := e.idx.ThreadTrace(curr.ThreadID)
	for i := len(trace) - 1; i >= 0; i-- {
		x := trace[i]
		if x == curr {
			continue
		}
		if x.Kind == action.ThreadStart {
			break
		}
		if x.IsFence() && x.IsAcquire() {
			break
		}
		if x.IsRead() && !x.IsAcquire() && x.ReadsFrom != nil {
			if hb := e.getHBFromWrite(x.ReadsFrom); hb != nil {
				curr.CV.Merge(hb)
			}
		}
	}
}

// processMutex runs the lock/condvar state machine for one mutex Action.
func (e *Engine) processMutex(curr *action.Action) error {
	switch curr.Kind {
	case action.Trylock:
		m := e.mutexes.Mutex(curr.Loc)
		if !m.IsUnlocked() {
			curr.Value = 0
			return nil
		}
		curr.Value = 1
		fallthrough
	case action.Lock:
		m := e.mutexes.Mutex(curr.Loc)
		if unlock := m.Acquire(curr.ThreadID); unlock != nil {
			curr.CV.Merge(unlock.CV)
		}

	case action.Wait:
		// curr.Loc is the condvar; Operand names the mutex it gives up.
		mu := action.Location(curr.Operand)
		e.wakeLockWaiters(curr.ThreadID, mu)
		e.mutexes.Mutex(mu).Release(nil)
		if e.fz.ShouldWait(curr) {
			e.mutexes.AddWaiter(curr.Loc, curr)
			th := e.threads[curr.ThreadID]
			th.Pending = curr
			e.sched.Sleep(th)
		}

	case action.TimedWait, action.Unlock:
		e.wakeLockWaiters(curr.ThreadID, curr.Loc)
		e.mutexes.Mutex(curr.Loc).Release(curr)

	case action.NotifyAll:
		for _, w := range e.mutexes.Waiters(curr.Loc) {
			if t := e.threads[w.ThreadID]; t != nil {
				e.sched.Wake(t)
			}
		}
		e.mutexes.ClearWaiters(curr.Loc)

	case action.NotifyOne:
		waiters := e.mutexes.Waiters(curr.Loc)
		if len(waiters) == 0 {
			return nil
		}
		chosen := e.fz.SelectNotify(waiters)
		if chosen == nil {
			return nil
		}
		if t := e.threads[chosen.ID]; t != nil {
			e.sched.Wake(t)
		}

	default:
		return invariantf("process_mutex: unexpected kind %s", curr.Kind)
	}
	return nil
}

// wakeLockWaiters wakes every thread other than tid whose pending action is a
// LOCK on mutex loc: an UNLOCK, a TIMEDWAIT's reacquire, or a WAIT giving up
// the lock before parking, may all let a blocked locker proceed.
func (e *Engine) wakeLockWaiters(tid int, loc action.Location) {
	for id, t := range e.threads {
		if id == tid {
			continue
		}
		if t.Pending != nil && t.Pending.IsLock() && t.Pending.Loc == loc {
			e.sched.Wake(t)
		}
	}
}

// processThreadAction runs the thread-lifecycle state machine: spawning a
// child on THREAD_CREATE/PTHREAD_CREATE, synchronizing with a completed
// child on THREAD_JOIN/PTHREAD_JOIN, marking a thread complete and waking
// any joiners on THREAD_FINISH, and registering a sleep on THREAD_SLEEP.
func (e *Engine) processThreadAction(curr *action.Action) {
	switch curr.Kind {
	case action.ThreadCreate, action.PthreadCreate:
		id := e.nextThreadID()
		child := scheduler.NewThread(id)
		child.Creation = curr
		e.threads[id] = child
		e.sched.AddThread(child)
		curr.Operand = id

	case action.ThreadJoin, action.PthreadJoin:
		if target := e.threads[curr.Operand]; target != nil {
			if last := e.idx.LastAction(target.ID); last != nil {
				curr.CV.Merge(last.CV)
			}
		}

	case action.ThreadFinish:
		th := e.threads[curr.ThreadID]
		th.Complete()
		for _, t := range e.threads {
			if t.WaitingOn == th && t.Pending != nil && t.Pending.IsThreadJoin() {
				e.sched.Wake(t)
			}
		}
		if curr.ThreadID == initThreadID {
			e.finished = true
		}

	case action.ThreadSleep:
		th := e.threads[curr.ThreadID]
		th.Pending = curr
		e.sched.AddSleep(th)
	}
}

// IsDeadlocked reports whether every non-model, non-complete thread is
// currently disabled: no thread can make progress and the program is not
// done, the execution-ending condition distinct from ordinary completion.
func (e *Engine) IsDeadlocked() bool {
	sawIncomplete := false
	for tid, th := range e.threads {
		if tid == action.ModelThreadID {
			continue
		}
		if th.IsComplete() {
			continue
		}
		sawIncomplete = true
		if e.sched.IsEnabled(th) {
			return false
		}
	}
	return sawIncomplete
}

// IsCompleteExecution reports whether this execution ran to a clean end: no
// assertion or infeasible read fired, no deadlock, not every thread asleep,
// and the initial thread reached THREAD_FINISH.
func (e *Engine) IsCompleteExecution() bool {
	if e.asserted {
		return false
	}
	if e.IsDeadlocked() {
		return false
	}
	if e.sched.AllThreadsSleeping() {
		return false
	}
	return e.finished
}

// HasAsserted reports whether an AssertBug or InfeasibleRead has fired.
func (e *Engine) HasAsserted() bool { return e.asserted }

// AssertBug records a user-instrumented assertion failure and marks the
// execution as having asserted, the same terminal condition an infeasible
// read produces.
func (e *Engine) AssertBug(format string, args ...any) {
	e.bugs.Add(report.AssertBug, format, args...)
	e.asserted = true
}

// ReportDeadlock records a detected deadlock. The driver calls this once it
// observes IsDeadlocked(), since detecting it is the engine's job but
// deciding when to stop exploring and report it is the driver's.
func (e *Engine) ReportDeadlock() {
	e.bugs.Add(report.Deadlock, "execution deadlocked: every live thread is disabled")
}

// ReportDataRace forwards a race found by the external data-race detector
// collaborator into this execution's bug list; the engine never runs race
// detection itself.
func (e *Engine) ReportDataRace(format string, args ...any) {
	e.bugs.Add(report.DataRace, format, args...)
}

// Package scheduler implements the cooperative, time-sliced task runner
// that the rest of this module's concurrency rests on: a single update
// call drains a fixed time budget across the Running tasks, lowest
// accumulated runtime first, never preempting a task mid-Run and never
// touching locks or atomics. Waiting tasks are not run.
package scheduler

import (
	"container/heap"
	"fmt"

	aicore "github.com/go-kratos/aicore"
)

// Listener observes scheduler bookkeeping events. Embed NoopListener to
// implement only the callbacks a particular observer cares about.
type Listener interface {
	OnTaskAdded(task aicore.Task)
	OnTaskRemoved(task aicore.Task)
	OnBeginRunTask(task aicore.Task)
}

// NoopListener implements Listener with no-ops, for embedding.
type NoopListener struct{}

func (NoopListener) OnTaskAdded(aicore.Task)    {}
func (NoopListener) OnTaskRemoved(aicore.Task)  {}
func (NoopListener) OnBeginRunTask(aicore.Task) {}

// entry is one task's position in one of the scheduler's two heaps.
type entry struct {
	task      aicore.Task
	seq       uint64
	heapIndex int
}

// taskHeap orders entries by ascending Runtime(), tie-broken by
// insertion sequence so equal-runtime tasks run in FIFO order. The
// original tie-broke on raw pointer address, which is deterministic
// within a single process run but not reproducible across runs or
// platforms; a monotonic sequence number gives the same determinism
// without depending on memory layout.
type taskHeap []*entry

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	ri, rj := h[i].task.Runtime(), h[j].task.Runtime()
	if ri == rj {
		return h[i].seq < h[j].seq
	}
	return ri < rj
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}
func (h *taskHeap) Push(x any) {
	e := x.(*entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Scheduler cooperatively runs a pool of aicore.Tasks, giving each update
// slice to whichever eligible task has run the least so far.
type Scheduler struct {
	clock    aicore.Clock
	listener Listener

	running      taskHeap
	waiting      taskHeap
	runningIndex map[aicore.Task]*entry
	waitingIndex map[aicore.Task]*entry
	nextSeq      uint64
}

// New returns an empty Scheduler that measures elapsed run time using clock.
func New(clock aicore.Clock) *Scheduler {
	return &Scheduler{
		clock:        clock,
		runningIndex: make(map[aicore.Task]*entry),
		waitingIndex: make(map[aicore.Task]*entry),
	}
}

// SetListener installs l as the scheduler's bookkeeping listener,
// replacing any previous one. Pass nil to stop receiving callbacks.
func (s *Scheduler) SetListener(l Listener) {
	s.listener = l
}

// Clear terminates every task currently tracked by the scheduler, running
// or waiting. Termination is driven through each task's own SetStatus so
// it participates in the normal OnStatusChanged removal path rather than
// being spliced out of the heaps directly.
func (s *Scheduler) Clear() {
	for s.running.Len() > 0 {
		s.running[0].task.SetStatus(aicore.StatusTerminated)
	}
	for s.waiting.Len() > 0 {
		s.waiting[0].task.SetStatus(aicore.StatusTerminated)
	}
}

// Enqueue adds task to the scheduler. A task already in StatusWaiting is
// filed into the waiting set as-is; any other task is moved to
// StatusRunning with its runtime reset and filed into the running set.
// Enqueue installs the scheduler as the task's Listener so subsequent
// status changes (including reaching StatusTerminated) are tracked
// automatically.
func (s *Scheduler) Enqueue(task aicore.Task) {
	if task == nil {
		panic("scheduler: Enqueue called with a nil task")
	}

	if task.Status() == aicore.StatusWaiting {
		s.push(&s.waiting, s.waitingIndex, task)
	} else {
		task.SetStatus(aicore.StatusRunning)
		task.ResetRuntime()
		s.push(&s.running, s.runningIndex, task)
	}
	task.SetListener(s)

	if s.listener != nil {
		s.listener.OnTaskAdded(task)
	}
}

func (s *Scheduler) push(h *taskHeap, index map[aicore.Task]*entry, task aicore.Task) {
	s.nextSeq++
	e := &entry{task: task, seq: s.nextSeq}
	heap.Push(h, e)
	index[task] = e
}

// Dequeue removes task from the scheduler. task must currently be
// StatusWaiting or StatusRunning; any other status is a contract
// violation and panics.
func (s *Scheduler) Dequeue(task aicore.Task) {
	if task == nil {
		panic("scheduler: Dequeue called with a nil task")
	}

	switch task.Status() {
	case aicore.StatusWaiting:
		s.removeWaiting(task)
	case aicore.StatusRunning:
		s.removeRunning(task)
	default:
		panic("scheduler: only Waiting or Running tasks may be dequeued")
	}
}

func (s *Scheduler) removeWaiting(task aicore.Task) {
	s.removeFrom(&s.waiting, s.waitingIndex, task)
}

func (s *Scheduler) removeRunning(task aicore.Task) {
	s.removeFrom(&s.running, s.runningIndex, task)
}

func (s *Scheduler) removeFrom(h *taskHeap, index map[aicore.Task]*entry, task aicore.Task) {
	e, ok := index[task]
	if !ok {
		panic("scheduler: couldn't find task to remove")
	}
	heap.Remove(h, e.heapIndex)
	delete(index, task)
	task.SetListener(nil)

	if s.listener != nil {
		s.listener.OnTaskRemoved(task)
	}
}

// Update runs Running tasks, lowest-runtime first, until either maxRuntime
// has been spent or no Running task remains, and returns the actual time
// spent. dt is handed to the tasks' Run only indirectly (tasks read it
// from wherever the host wires it in; the scheduler itself is agnostic to
// game time and only measures wall-clock run duration).
//
// A task still Running or Waiting after its Run is charged the elapsed
// time and passed back through Enqueue; for a Running task Enqueue resets
// the runtime to zero, so tasks that stay Running are dispatched in
// enqueue order.
func (s *Scheduler) Update(maxRuntime aicore.Timestamp, dt float64) aicore.Timestamp {
	_ = dt // reserved for host-level frame pacing; the core itself only meters wall time.

	var currentRuntime aicore.Timestamp
	for s.running.Len() > 0 && currentRuntime <= maxRuntime {
		start := s.clock.Now()

		top := heap.Pop(&s.running).(*entry)
		delete(s.runningIndex, top.task)

		if s.listener != nil {
			s.listener.OnBeginRunTask(top.task)
		}

		// Ignore status changes triggered by Run itself; the scheduler
		// re-evaluates the task's final status explicitly below.
		top.task.SetListener(nil)

		if top.task.Status() != aicore.StatusRunning {
			panic(fmt.Sprintf("scheduler: dequeued task has status %v, want Running", top.task.Status()))
		}

		top.task.Run()

		duration := s.clock.Now() - start
		currentRuntime += duration

		status := top.task.Status()
		if status == aicore.StatusRunning || status == aicore.StatusWaiting {
			top.task.AddRuntime(duration)
			s.Enqueue(top.task)
		}
		if status != aicore.StatusTerminated {
			top.task.SetListener(s)
		}
	}

	return currentRuntime
}

// OnStatusChanged implements aicore.Listener. It is how the scheduler
// learns that a task it isn't actively running has changed status (e.g.
// a Behavior signalling success from within a nested Run), and re-files
// the task into the correct heap or drops it once Terminated.
func (s *Scheduler) OnStatusChanged(task aicore.Task, from aicore.Status) {
	switch from {
	case aicore.StatusWaiting:
		s.removeWaiting(task)
	case aicore.StatusRunning:
		s.removeRunning(task)
	}

	switch task.Status() {
	case aicore.StatusRunning, aicore.StatusWaiting:
		s.Enqueue(task)
	case aicore.StatusTerminated:
		task.SetListener(nil)
	}
}

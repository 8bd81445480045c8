package behaviortree

import (
	"fmt"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/scheduler"
)

// MaxParallelChildren bounds Parallel's child count: its per-child result
// tracking is a fixed array sized for this many children, same trade-off
// the original makes to avoid a heap allocation per Parallel node.
const MaxParallelChildren = 8

// returnCode is one child's most recently reported result within a
// Parallel node's current run.
type returnCode uint8

const (
	returnNone returnCode = iota
	returnSuccess
	returnFailure
)

// Parallel runs every child concurrently within the scheduler (i.e. all
// enqueued in the same tick, each stepped independently thereafter): it
// succeeds once every child has succeeded, fails as soon as any child
// fails (terminating the rest), and can be revived back to Running if a
// previously-failed child later resets while no other child remains
// failed.
type Parallel struct {
	Composite

	codes [MaxParallelChildren]returnCode
}

// NewParallel constructs a Parallel over children, scheduled via sched.
// It panics if len(children) exceeds MaxParallelChildren.
func NewParallel(sched *scheduler.Scheduler, children []Behavior) *Parallel {
	if len(children) > MaxParallelChildren {
		panic(fmt.Sprintf("behaviortree: Parallel can't run more than %d children, got %d", MaxParallelChildren, len(children)))
	}
	p := &Parallel{}
	p.init(p, sched, children, p)
	return p
}

// Run schedules every child at once, or succeeds immediately if this node
// has no children. Children are enqueued in declaration order so that,
// given the scheduler's FIFO tie-breaking among equal runtimes, execution
// order matches left-to-right declaration order.
func (p *Parallel) Run() {
	if len(p.children) == 0 {
		p.NotifySuccess(p)
		return
	}
	for i := 0; i < len(p.children); i++ {
		p.scheduler.Enqueue(p.children[i])
	}
	p.SetStatus(aicore.StatusWaiting)
}

// Terminate resets all per-child result tracking and force-terminates
// every child before marking this node Terminated.
func (p *Parallel) Terminate() {
	p.resetCodes()
	for _, child := range p.children {
		child.Terminate()
	}
	p.BehaviorBase.Terminate()
}

func (p *Parallel) resetCodes() {
	for i := range p.codes {
		p.codes[i] = returnNone
	}
}

func (p *Parallel) allChildrenSucceeded() bool {
	for i := range p.children {
		if p.codes[i] != returnSuccess {
			return false
		}
	}
	return true
}

func (p *Parallel) anyChildrenFailed() bool {
	for i := range p.children {
		if p.codes[i] == returnFailure {
			return true
		}
	}
	return false
}

func (p *Parallel) OnSuccess(behavior Behavior) {
	idx := p.indexOf(behavior)
	before := p.codes[idx]
	p.codes[idx] = returnSuccess

	if p.allChildrenSucceeded() {
		p.NotifySuccess(p)
	} else if before == returnFailure && !p.anyChildrenFailed() {
		// The only failing child just reset to success: this node's
		// overall result is uncertain again, so it comes back to life
		// and tells its own parent the same.
		p.SetStatus(aicore.StatusRunning)
		p.NotifyReset(p)
	}
}

func (p *Parallel) OnFailure(behavior Behavior) {
	idx := p.indexOf(behavior)
	wasFailed := p.anyChildrenFailed()
	p.codes[idx] = returnFailure

	if !wasFailed {
		for _, child := range p.children {
			status := child.Status()
			if status == aicore.StatusRunning || status == aicore.StatusWaiting {
				child.Terminate()
			}
		}
		p.NotifyFailure(p)
	}
}

func (p *Parallel) OnReset(behavior Behavior) {
	idx := p.indexOf(behavior)
	wasSuccess := p.allChildrenSucceeded()
	before := p.codes[idx]
	p.codes[idx] = returnNone

	if (before == returnSuccess && wasSuccess) || (before == returnFailure && !p.anyChildrenFailed()) {
		p.SetStatus(aicore.StatusWaiting)
		p.NotifyReset(p)
	}
}

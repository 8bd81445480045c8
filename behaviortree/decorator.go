package behaviortree

import (
	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/scheduler"
	"github.com/go-kratos/aicore/value"
)

// Decorator wraps a single child, passing its result straight through by
// default. It exists as a base for node types that want to intercept or
// transform a child's success/failure/reset signal (e.g. inverters,
// repeaters) without reimplementing scheduling; this package provides
// only the passthrough base, since the spec's Non-goals exclude decorator
// policy variants.
type Decorator struct {
	BehaviorBase

	scheduler *scheduler.Scheduler
	child     Behavior
	self      Behavior
}

// NewDecorator constructs a passthrough Decorator wrapping child,
// scheduled via sched. It panics if child is nil.
func NewDecorator(sched *scheduler.Scheduler, child Behavior) *Decorator {
	if child == nil {
		panic("behaviortree: Decorator requires a non-nil child")
	}
	d := &Decorator{scheduler: sched, child: child}
	d.self = d
	d.TaskBase.Init(d)
	child.SetBehaviorListener(d)
	return d
}

// Child returns the wrapped behavior.
func (d *Decorator) Child() Behavior {
	return d.child
}

// Run schedules the child behavior.
func (d *Decorator) Run() {
	d.scheduler.Enqueue(d.child)
	d.SetStatus(aicore.StatusWaiting)
}

// Terminate force-terminates the child before marking this node
// Terminated.
func (d *Decorator) Terminate() {
	d.child.Terminate()
	d.BehaviorBase.Terminate()
}

// SetUserData cascades data to the wrapped child.
func (d *Decorator) SetUserData(data value.Any) {
	d.BehaviorBase.SetUserData(data)
	d.child.SetUserData(data)
}

func (d *Decorator) OnSuccess(Behavior) { d.NotifySuccess(d.self) }
func (d *Decorator) OnFailure(Behavior) { d.NotifyFailure(d.self) }
func (d *Decorator) OnReset(Behavior)   { d.NotifyReset(d.self) }

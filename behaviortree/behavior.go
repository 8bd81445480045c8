// Package behaviortree implements a behavior-tree engine on top of
// aicore's cooperative scheduler: composite, sequential, parallel,
// decorator, and randomized nodes, each an aicore.Task whose success,
// failure, and reset signals propagate to a parent Listener.
package behaviortree

import (
	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/value"
)

// Listener receives the result signals a Behavior can produce. OnReset is
// optional to implement meaningfully; BaseListener's no-op default covers
// the common case of a behavior with no interest in mid-flight resets.
type Listener interface {
	OnSuccess(behavior Behavior)
	OnFailure(behavior Behavior)
	OnReset(behavior Behavior)
}

// BaseListener implements OnReset as a no-op, matching the optional
// virtual in the original listener contract; embed it and override
// OnSuccess/OnFailure (and OnReset, if needed).
type BaseListener struct{}

func (BaseListener) OnReset(Behavior) {}

// Behavior is a node in the tree: an aicore.Task that additionally
// reports success/failure/reset to a Listener and carries host user data
// down to its descendants.
type Behavior interface {
	aicore.Task

	SetBehaviorListener(listener Listener)
	// ClearBehaviorListener detaches the current parent listener, if any,
	// so this behavior may legally be given a new one. A parent reusing a
	// child elsewhere must clear the existing relationship first.
	ClearBehaviorListener()
	// Terminate is called by a parent forcefully removing this behavior
	// from the scheduler before it reached a natural conclusion.
	Terminate()
	SetUserData(data value.Any)
	UserData() value.Any
}

// BehaviorBase implements the bookkeeping shared by every Behavior:
// status/runtime via the embedded TaskBase, the result listener, and the
// user-data payload cascaded down from an ancestor.
type BehaviorBase struct {
	aicore.TaskBase

	listener Listener
	userData value.Any
}

// SetBehaviorListener installs listener as the receiver of this
// behavior's success/failure/reset notifications. A behavior already
// claimed by a parent must have that relationship cleared via
// ClearBehaviorListener before a different listener can be installed;
// reparenting directly is a contract violation and panics.
func (b *BehaviorBase) SetBehaviorListener(listener Listener) {
	if listener != nil && b.listener != nil {
		panic("behaviortree: SetBehaviorListener called on a behavior that already has a parent listener; call ClearBehaviorListener first")
	}
	b.listener = listener
}

// ClearBehaviorListener detaches the current parent listener, if any.
func (b *BehaviorBase) ClearBehaviorListener() {
	b.listener = nil
}

// Terminate marks this behavior Terminated without notifying the
// listener, the same as a forced shutdown in the original.
func (b *BehaviorBase) Terminate() {
	b.SetStatus(aicore.StatusTerminated)
}

// NotifySuccess reports success to the listener (if any) and returns the
// behavior to StatusDormant so a subsequent run starts fresh.
func (b *BehaviorBase) NotifySuccess(self Behavior) {
	if b.listener != nil {
		b.listener.OnSuccess(self)
	}
	b.SetStatus(aicore.StatusDormant)
}

// NotifyFailure reports failure to the listener (if any) and returns the
// behavior to StatusDormant.
func (b *BehaviorBase) NotifyFailure(self Behavior) {
	if b.listener != nil {
		b.listener.OnFailure(self)
	}
	b.SetStatus(aicore.StatusDormant)
}

// NotifyReset reports a reset to the listener (if any). Unlike
// NotifySuccess/NotifyFailure this does not itself change status; the
// caller is responsible for whatever status follows a reset.
func (b *BehaviorBase) NotifyReset(self Behavior) {
	if b.listener != nil {
		b.listener.OnReset(self)
	}
}

// SetUserData stores data for retrieval via UserData. Composite types
// override this to cascade the value to their children.
func (b *BehaviorBase) SetUserData(data value.Any) {
	b.userData = data
}

// UserData returns the most recently set user data payload.
func (b *BehaviorBase) UserData() value.Any {
	return b.userData
}

package behaviortree

import (
	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/scheduler"
	"github.com/go-kratos/aicore/value"
)

// Composite is a Behavior that owns a fixed list of children and listens
// to each of their results; it is the shared base of the sequential
// (Selector/Sequence) and Parallel composites.
type Composite struct {
	BehaviorBase

	children  []Behavior
	scheduler *scheduler.Scheduler
}

func (c *Composite) init(self Behavior, sched *scheduler.Scheduler, children []Behavior, listener Listener) {
	c.TaskBase.Init(self)
	c.scheduler = sched
	c.children = children
	for _, child := range children {
		child.SetBehaviorListener(listener)
	}
}

// Children returns this composite's child list, in original order.
func (c *Composite) Children() []Behavior {
	return c.children
}

// SetUserData cascades data to every child in addition to storing it on
// this node, matching the original's "pass user data down the tree"
// contract.
func (c *Composite) SetUserData(data value.Any) {
	c.BehaviorBase.SetUserData(data)
	for _, child := range c.children {
		child.SetUserData(data)
	}
}

// indexOf returns the position of child within this composite's children.
// It panics if child does not belong here, since that can only happen
// from a wiring bug (a listener notification arriving from an
// unaffiliated behavior).
func (c *Composite) indexOf(child Behavior) int {
	for i, ch := range c.children {
		if ch == child {
			return i
		}
	}
	panic("behaviortree: notification from a behavior that isn't a child of this composite")
}

// SequentialComposite runs its children one at a time, in order, tracking
// which one is current. Selector and Sequence differ only in how they
// react to a child's success or failure.
type SequentialComposite struct {
	Composite

	current int
	self    Behavior
}

func newSequentialComposite(self Behavior, sched *scheduler.Scheduler, children []Behavior, listener Listener) SequentialComposite {
	var s SequentialComposite
	s.self = self
	s.init(self, sched, children, listener)
	return s
}

// Run schedules the current child, or succeeds immediately if this node
// has no children.
func (s *SequentialComposite) Run() {
	if len(s.children) == 0 {
		s.NotifySuccess(selfOf(s))
		return
	}
	s.scheduler.Enqueue(s.children[s.current])
	s.SetStatus(aicore.StatusWaiting)
}

// Terminate forcibly ends every child from index 0 up to and including
// the current one (later children have not been started), then marks this
// node Terminated.
func (s *SequentialComposite) Terminate() {
	s.terminateFromIndex(0)
	s.BehaviorBase.Terminate()
}

// onReset handles a child resetting mid-sequence: every child after it, up
// to and including the current one, is terminated, the current index
// rewinds to the resetting child, and the reset is forwarded to this
// node's own listener. A reset from a child after the current one panics.
func (s *SequentialComposite) onReset(behavior Behavior) {
	idx := s.indexOf(behavior)
	if idx > s.current {
		panic("behaviortree: a behavior running after the current one reset this sequential composite")
	}
	s.terminateFromIndex(idx + 1)
	s.NotifyReset(selfOf(s))
}

func (s *SequentialComposite) indexIsCurrent(idx int) bool {
	return idx == s.current
}

func (s *SequentialComposite) currentIsLastBehavior() bool {
	return s.current+1 == len(s.children)
}

func (s *SequentialComposite) scheduleNextBehavior() {
	s.current++
	s.scheduler.Enqueue(s.children[s.current])
}

func (s *SequentialComposite) terminateFromIndex(idx int) {
	if idx >= len(s.children) {
		return
	}
	for i := idx; i <= s.current; i++ {
		s.children[i].Terminate()
	}
	if idx == 0 {
		s.current = 0
	} else {
		s.current = idx - 1
	}
}

// selfOf recovers the outermost concrete Behavior (*Selector or
// *Sequence) from an embedded SequentialComposite, the same self-pointer
// idiom aicore.TaskBase uses: Run and Terminate are defined once on
// SequentialComposite but must report results carrying the concrete
// type's identity, not SequentialComposite's.
func selfOf(s *SequentialComposite) Behavior {
	return s.self
}

// Selector runs children in order until one succeeds (selector/"OR"
// semantics): success of any child succeeds the whole node; failure
// advances to the next child, and failure of the last child fails the
// node.
type Selector struct {
	SequentialComposite
}

// NewSelector constructs a Selector over children, scheduled via sched.
func NewSelector(sched *scheduler.Scheduler, children []Behavior) *Selector {
	s := &Selector{}
	s.SequentialComposite = newSequentialComposite(s, sched, children, s)
	return s
}

func (s *Selector) OnSuccess(behavior Behavior) {
	idx := s.indexOf(behavior)
	if !s.indexIsCurrent(idx) {
		s.terminateFromIndex(idx + 1)
	}
	s.NotifySuccess(s)
}

func (s *Selector) OnFailure(behavior Behavior) {
	idx := s.indexOf(behavior)
	if !s.indexIsCurrent(idx) {
		s.terminateFromIndex(idx + 1)
	}
	if s.currentIsLastBehavior() {
		s.NotifyFailure(s)
	} else {
		s.scheduleNextBehavior()
	}
}

func (s *Selector) OnReset(behavior Behavior) { s.onReset(behavior) }

// Sequence runs children in order requiring every one to succeed ("AND"
// semantics): failure of any child fails the whole node; success advances
// to the next child, and success of the last child succeeds the node.
type Sequence struct {
	SequentialComposite
}

// NewSequence constructs a Sequence over children, scheduled via sched.
func NewSequence(sched *scheduler.Scheduler, children []Behavior) *Sequence {
	s := &Sequence{}
	s.SequentialComposite = newSequentialComposite(s, sched, children, s)
	return s
}

func (s *Sequence) OnSuccess(behavior Behavior) {
	idx := s.indexOf(behavior)
	if !s.indexIsCurrent(idx) {
		s.terminateFromIndex(idx + 1)
	}
	if s.currentIsLastBehavior() {
		s.NotifySuccess(s)
	} else {
		s.scheduleNextBehavior()
	}
}

func (s *Sequence) OnFailure(behavior Behavior) {
	idx := s.indexOf(behavior)
	if !s.indexIsCurrent(idx) {
		s.terminateFromIndex(idx + 1)
	}
	s.NotifyFailure(s)
}

func (s *Sequence) OnReset(behavior Behavior) { s.onReset(behavior) }

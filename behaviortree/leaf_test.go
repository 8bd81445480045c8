package behaviortree

// leaf is a test-only Behavior that resolves to a fixed result as soon as
// it is Run, without touching any scheduler itself (the scheduler drives
// it the same as any other Task).
type leaf struct {
	BehaviorBase
	succeed bool
	runs    int
}

func newLeaf(succeed bool) *leaf {
	l := &leaf{succeed: succeed}
	l.Init(l)
	return l
}

func (l *leaf) Run() {
	l.runs++
	if l.succeed {
		l.NotifySuccess(l)
	} else {
		l.NotifyFailure(l)
	}
}

// stub is a test-only Behavior whose result is driven entirely by test
// code calling into a Parallel's/Composite's On* methods directly,
// without ever being Run by a scheduler. Its Run is a no-op; only its
// identity (for indexOf) and Status (for Parallel's termination sweep)
// matter to the composites under test.
type stub struct {
	BehaviorBase
}

func newStub() *stub {
	s := &stub{}
	s.Init(s)
	return s
}

func (s *stub) Run() {}

// delayedLeaf is a test-only Behavior that takes a fixed number of Run
// ticks before succeeding, staying StatusRunning in between so the
// scheduler re-invokes it across several Update calls — unlike leaf, which
// always resolves on its very first Run.
type delayedLeaf struct {
	BehaviorBase
	ticksRemaining int
	runs           int
}

func newDelayedLeaf(ticks int) *delayedLeaf {
	l := &delayedLeaf{ticksRemaining: ticks}
	l.Init(l)
	return l
}

func (l *delayedLeaf) Run() {
	l.runs++
	l.ticksRemaining--
	if l.ticksRemaining <= 0 {
		l.NotifySuccess(l)
	}
}

type capturingTreeListener struct {
	successes, failures, resets int
}

func (l *capturingTreeListener) OnSuccess(Behavior) { l.successes++ }
func (l *capturingTreeListener) OnFailure(Behavior) { l.failures++ }
func (l *capturingTreeListener) OnReset(Behavior)   { l.resets++ }

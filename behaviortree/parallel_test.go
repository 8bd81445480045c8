package behaviortree

import (
	"testing"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/scheduler"
)

func newTestParallel(t *testing.T, n int) (*Parallel, []*stub, *capturingTreeListener) {
	t.Helper()
	sched := scheduler.New(&fakeClock{})
	stubs := make([]*stub, n)
	children := make([]Behavior, n)
	for i := range stubs {
		stubs[i] = newStub()
		children[i] = stubs[i]
	}
	p := NewParallel(sched, children)
	listener := &capturingTreeListener{}
	p.SetBehaviorListener(listener)
	return p, stubs, listener
}

func TestParallelConstructionPanicsOverCapacity(t *testing.T) {
	sched := scheduler.New(&fakeClock{})
	children := make([]Behavior, MaxParallelChildren+1)
	for i := range children {
		children[i] = newStub()
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for more than %d children", MaxParallelChildren)
		}
	}()
	NewParallel(sched, children)
}

func TestParallelSucceedsWhenAllChildrenSucceed(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 3)
	p.OnSuccess(stubs[0])
	p.OnSuccess(stubs[1])
	if listener.successes != 0 {
		t.Fatalf("successes=%d, want 0 before the last child reports", listener.successes)
	}
	p.OnSuccess(stubs[2])
	if listener.successes != 1 {
		t.Fatalf("successes=%d, want 1 once every child has succeeded", listener.successes)
	}
}

func TestParallelFailsOnFirstFailureAndTerminatesSiblings(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 3)
	stubs[1].SetStatus(aicore.StatusRunning)
	stubs[2].SetStatus(aicore.StatusWaiting)

	p.OnFailure(stubs[0])

	if listener.failures != 1 {
		t.Fatalf("failures=%d, want 1", listener.failures)
	}
	if stubs[1].Status() != aicore.StatusTerminated || stubs[2].Status() != aicore.StatusTerminated {
		t.Fatalf("siblings not terminated: stubs[1]=%v stubs[2]=%v", stubs[1].Status(), stubs[2].Status())
	}
}

func TestParallelSecondFailureDoesNotRenotify(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 2)
	p.OnFailure(stubs[0])
	p.OnFailure(stubs[1])
	if listener.failures != 1 {
		t.Fatalf("failures=%d, want 1: only the first failure should notify", listener.failures)
	}
}

// TestParallelRevivalAfterFailure exercises Parallel.OnSuccess's revival
// path: the only failed child turns around and succeeds outright, with no
// other child failed, reviving the node to StatusRunning.
func TestParallelRevivalAfterFailure(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 2)
	stubs[1].SetStatus(aicore.StatusWaiting)
	p.OnFailure(stubs[0])
	if listener.failures != 1 {
		t.Fatalf("failures=%d, want 1", listener.failures)
	}

	p.OnSuccess(stubs[0])

	if p.Status() != aicore.StatusRunning {
		t.Fatalf("status=%v, want StatusRunning after revival", p.Status())
	}
	if listener.resets != 1 {
		t.Fatalf("resets=%d, want 1 reset notification on revival", listener.resets)
	}
	if listener.successes != 0 {
		t.Fatalf("successes=%d, want 0: not every child has succeeded yet", listener.successes)
	}
}

// TestParallelOnResetRevivalAfterFailure exercises Parallel.OnReset's
// distinct revival path: the only failed child resets to neutral, with no
// other child failed, reviving the node to StatusWaiting rather than
// StatusRunning.
func TestParallelOnResetRevivalAfterFailure(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 2)
	p.OnFailure(stubs[0])
	if listener.failures != 1 {
		t.Fatalf("failures=%d, want 1", listener.failures)
	}

	p.OnReset(stubs[0])

	if p.Status() != aicore.StatusWaiting {
		t.Fatalf("status=%v, want StatusWaiting after onReset revival", p.Status())
	}
	if listener.resets != 1 {
		t.Fatalf("resets=%d, want 1 reset notification on revival", listener.resets)
	}
}

func TestParallelOnResetOfSoleSuccessClearsSuccessState(t *testing.T) {
	p, stubs, listener := newTestParallel(t, 2)
	p.OnSuccess(stubs[0])
	p.OnSuccess(stubs[1])
	if listener.successes != 1 {
		t.Fatalf("successes=%d, want 1", listener.successes)
	}

	p.OnReset(stubs[0])

	if listener.resets != 1 {
		t.Fatalf("resets=%d, want 1: losing a success must renotify reset upward", listener.resets)
	}
}

func TestParallelTerminateResetsCodesAndTerminatesChildren(t *testing.T) {
	p, stubs, _ := newTestParallel(t, 2)
	stubs[0].SetStatus(aicore.StatusRunning)
	stubs[1].SetStatus(aicore.StatusRunning)

	p.Terminate()

	if stubs[0].Status() != aicore.StatusTerminated || stubs[1].Status() != aicore.StatusTerminated {
		t.Fatalf("children not terminated")
	}
	if p.anyChildrenFailed() || p.allChildrenSucceeded() {
		t.Fatalf("codes not reset after Terminate")
	}
}

package behaviortree

import (
	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/scheduler"
)

// shuffle performs an in-place Fisher-Yates shuffle using r for
// randomness. It draws j from [0, i) rather than [0, i], matching the
// original's rand() % i rather than the more common rand() % (i+1); both
// are valid shuffles, this just keeps the same bias characteristics.
func shuffle(children []Behavior, r aicore.Rand) {
	for i := len(children) - 1; i > 0; i-- {
		j := r.Intn(i)
		children[i], children[j] = children[j], children[i]
	}
}

func copyShuffled(children []Behavior, r aicore.Rand) []Behavior {
	shuffled := append([]Behavior(nil), children...)
	shuffle(shuffled, r)
	return shuffled
}

// RandomSelector is a Selector whose children are shuffled once at
// construction and re-shuffled every time it terminates, so repeated runs
// try children in a different order.
type RandomSelector struct {
	*Selector
	rand aicore.Rand
}

// NewRandomSelector constructs a RandomSelector over a shuffled copy of
// children.
func NewRandomSelector(sched *scheduler.Scheduler, children []Behavior, r aicore.Rand) *RandomSelector {
	return &RandomSelector{
		Selector: NewSelector(sched, copyShuffled(children, r)),
		rand:     r,
	}
}

// Terminate terminates as a normal Selector, then re-shuffles the child
// order for the next run.
func (rs *RandomSelector) Terminate() {
	rs.Selector.Terminate()
	shuffle(rs.children, rs.rand)
}

// RandomSequence is a Sequence whose children are shuffled once at
// construction and re-shuffled every time it terminates.
type RandomSequence struct {
	*Sequence
	rand aicore.Rand
}

// NewRandomSequence constructs a RandomSequence over a shuffled copy of
// children.
func NewRandomSequence(sched *scheduler.Scheduler, children []Behavior, r aicore.Rand) *RandomSequence {
	return &RandomSequence{
		Sequence: NewSequence(sched, copyShuffled(children, r)),
		rand:     r,
	}
}

// Terminate terminates as a normal Sequence, then re-shuffles the child
// order for the next run.
func (rs *RandomSequence) Terminate() {
	rs.Sequence.Terminate()
	shuffle(rs.children, rs.rand)
}

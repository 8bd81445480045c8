// Package steering implements the classic seek/flee/pursuit/evade steering
// behaviors as pure functions of position, target and velocity, each
// returning a desired steering force (not a new position); the caller
// integrates that force into its own motion model.
package steering

// Vector is the minimal vector algebra steering needs: subtraction,
// addition, uniform scaling and normalization. Any 2D or 3D vector type
// satisfying it (or wrapping one) can be steered without this package
// depending on a concrete vector representation.
type Vector[V any] interface {
	Sub(other V) V
	Add(other V) V
	Scale(s float64) V
	Normalized() V
}

// Seek returns the steering force that drives position directly toward
// target at maxVelocity, correcting for currentVelocity.
func Seek[V Vector[V]](position, target, currentVelocity V, maxVelocity float64) V {
	return target.Sub(position).Normalized().Scale(maxVelocity).Sub(currentVelocity)
}

// Flee returns the steering force that drives position directly away from
// target, the mirror image of Seek.
func Flee[V Vector[V]](position, target, currentVelocity V, maxVelocity float64) V {
	return position.Sub(target).Normalized().Scale(maxVelocity).Sub(currentVelocity)
}

// Pursuit seeks target's predicted position after lookaheadTime, given the
// target's own velocity, rather than its current position.
func Pursuit[V Vector[V]](position, target, currentVelocity, targetVelocity V, lookaheadTime, maxVelocity float64) V {
	predicted := target.Add(targetVelocity.Scale(lookaheadTime))
	return Seek(position, predicted, currentVelocity, maxVelocity)
}

// Evade flees target's predicted position after lookaheadTime, the mirror
// image of Pursuit.
func Evade[V Vector[V]](position, target, currentVelocity, targetVelocity V, lookaheadTime, maxVelocity float64) V {
	predicted := target.Add(targetVelocity.Scale(lookaheadTime))
	return Flee(position, predicted, currentVelocity, maxVelocity)
}

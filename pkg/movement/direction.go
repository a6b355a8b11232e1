package movement

import "github.com/go-gl/mathgl/mgl32"

// Resolver turns camera facing and held keys into a horizontal step.
//
// The only state it keeps is the last usable horizontal facing, which stands
// in when the camera looks straight up or down.
type Resolver struct {
	lastForward mgl32.Vec3
}

// NewResolver creates a resolver facing DefaultForward
func NewResolver() *Resolver {
	return &Resolver{lastForward: DefaultForward}
}

// HorizontalForward projects front onto the ground plane and normalizes it.
// A vertical front keeps the previous horizontal facing.
func (r *Resolver) HorizontalForward(front mgl32.Vec3) mgl32.Vec3 {
	flat := mgl32.Vec3{front.X(), 0, front.Z()}
	if flat.LenSqr() <= degenerateEpsilon {
		return r.lastForward
	}
	r.lastForward = flat.Normalize()
	return r.lastForward
}

// Resolve returns the displacement for this frame. The Y component is always
// zero. It returns false when nothing should move: no keys held, or opposing
// keys cancel out.
func (r *Resolver) Resolve(front mgl32.Vec3, keys KeyState, speed float32) (mgl32.Vec3, bool) {
	if !keys.Any() {
		return mgl32.Vec3{}, false
	}

	forward := r.HorizontalForward(front)
	right := forward.Cross(WorldUp).Normalize()

	var move mgl32.Vec3
	if keys.Forward {
		move = move.Add(forward)
	}
	if keys.Backward {
		move = move.Sub(forward)
	}
	if keys.Right {
		move = move.Add(right)
	}
	if keys.Left {
		move = move.Sub(right)
	}

	if move.LenSqr() <= degenerateEpsilon {
		return mgl32.Vec3{}, false
	}

	// Normalize first so diagonals are not faster than a single axis
	move = move.Normalize().Mul(speed)
	move[1] = 0
	return move, true
}

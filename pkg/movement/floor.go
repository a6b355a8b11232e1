package movement

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/splatwalk/pkg/collision"
)

// FloorProbe finds the walkable floor under a horizontal position by casting
// a ray straight down from ProbeHeight.
type FloorProbe struct {
	Surfaces    collision.SurfaceQuery
	ProbeHeight float32
	MaxDrop     float32
}

// HeightAt returns the floor height under (x, z). It returns false when the
// surfaces are missing, still loading, or have nothing within range.
func (p FloorProbe) HeightAt(x, z float32) (float32, bool) {
	hit, ok := p.Probe(x, z)
	if !ok {
		return 0, false
	}
	return hit.Point.Y(), true
}

// Probe is HeightAt returning the full hit
func (p FloorProbe) Probe(x, z float32) (collision.Hit, bool) {
	if p.Surfaces == nil {
		return collision.Hit{}, false
	}
	origin := mgl32.Vec3{x, p.ProbeHeight, z}
	return p.Surfaces.Raycast(origin, collision.Down, p.MaxDrop+p.ProbeHeight)
}

// Package collision answers ray queries against static triangulated surfaces.
//
// Surfaces are immutable once built. A Cell hands a fully built Set from the
// loading goroutine to the frame loop without readers ever observing a
// partially populated set.
package collision

import "github.com/go-gl/mathgl/mgl32"

// Down is the unit vector pointing towards the floor in a Y-up world.
var Down = mgl32.Vec3{0, -1, 0}

// Hit describes the nearest intersection of a ray with a surface.
type Hit struct {
	// Distance along the ray from its origin
	Distance float32
	// Point is the intersection point in world space
	Point mgl32.Vec3
	// Surface is the name of the mesh that was hit
	Surface string
	// Triangle is the index of the hit triangle within its mesh
	Triangle int
}

// SurfaceQuery is the single capability the movement code needs from the
// collision geometry: the first hit of a ray within maxDist, if any.
type SurfaceQuery interface {
	Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool)
}

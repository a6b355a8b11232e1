package collision

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// parallelEpsilon rejects rays lying in (or parallel to) the triangle plane
	parallelEpsilon = 1e-12
	// edgeTolerance keeps rays that graze a shared edge from slipping between
	// two adjacent triangles
	edgeTolerance = 1e-6
)

// Triangle is a single collision face. Faces are double sided.
type Triangle struct {
	A, B, C mgl32.Vec3
}

// Bounds returns the axis aligned box enclosing the triangle
func (t Triangle) Bounds() cube.BBox {
	return cube.Box(
		math32.Min(math32.Min(t.A.X(), t.B.X()), t.C.X()),
		math32.Min(math32.Min(t.A.Y(), t.B.Y()), t.C.Y()),
		math32.Min(math32.Min(t.A.Z(), t.B.Z()), t.C.Z()),
		math32.Max(math32.Max(t.A.X(), t.B.X()), t.C.X()),
		math32.Max(math32.Max(t.A.Y(), t.B.Y()), t.C.Y()),
		math32.Max(math32.Max(t.A.Z(), t.B.Z()), t.C.Z()),
	)
}

// Centroid returns the average of the three corners
func (t Triangle) Centroid() mgl32.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// Degenerate reports whether the triangle has (almost) no area
func (t Triangle) Degenerate() bool {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).LenSqr() <= parallelEpsilon
}

// Intersect runs a Moller-Trumbore test of the segment origin + dir*[0, maxDist]
// against the triangle. It returns the ray distance and the hit point.
//
// The point is interpolated from the corners rather than walked along the
// ray, so a probe onto a horizontal face reports that face's exact height.
func (t Triangle) Intersect(origin, dir mgl32.Vec3, maxDist float32) (float32, mgl32.Vec3, bool) {
	edge1 := t.B.Sub(t.A)
	edge2 := t.C.Sub(t.A)

	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if math32.Abs(det) < parallelEpsilon {
		return 0, mgl32.Vec3{}, false
	}
	invDet := 1 / det

	tvec := origin.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < -edgeTolerance || u > 1+edgeTolerance {
		return 0, mgl32.Vec3{}, false
	}

	qvec := tvec.Cross(edge1)
	v := dir.Dot(qvec) * invDet
	if v < -edgeTolerance || u+v > 1+edgeTolerance {
		return 0, mgl32.Vec3{}, false
	}

	dist := edge2.Dot(qvec) * invDet
	if dist < 0 || dist > maxDist {
		return 0, mgl32.Vec3{}, false
	}

	point := t.A.Add(edge1.Mul(u)).Add(edge2.Mul(v))
	return dist, point, true
}

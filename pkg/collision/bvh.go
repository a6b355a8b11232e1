package collision

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// leafSize is the maximum number of triangles kept in a leaf node
	leafSize = 4
	// boundsPadding grows every node box so that hits accepted by the
	// triangle edge tolerance are never culled by the box test
	boundsPadding = 1e-4
	// maxStackDepth bounds the traversal stack; trees are built balanced
	maxStackDepth = 64
)

// bvhNode is one entry of the flattened hierarchy. Interior nodes store
// their first child immediately after themselves and the second child at
// secondChild. Leaves reference a run of the mesh's triangle slice.
type bvhNode struct {
	bounds cube.BBox

	leaf        bool
	first       int
	count       int
	secondChild int
}

// bvh is a bounding volume hierarchy over a triangle slice. Building
// permutes an index slice so every leaf owns a contiguous run of it.
type bvh struct {
	nodes []bvhNode
}

// buildBVH builds a hierarchy by splitting on the median centroid of the
// longest axis until leaves hold at most leafSize triangles.
func buildBVH(tris []Triangle, order []int) *bvh {
	b := &bvh{nodes: make([]bvhNode, 0, 2*len(tris)/leafSize+1)}
	if len(tris) == 0 {
		return b
	}

	centroids := make([]mgl32.Vec3, len(tris))
	for i, tri := range tris {
		centroids[i] = tri.Centroid()
	}

	b.build(tris, order, centroids, 0, len(order))
	return b
}

func (b *bvh) build(tris []Triangle, order []int, centroids []mgl32.Vec3, start, end int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, bvhNode{bounds: rangeBounds(tris, order[start:end]).Grow(boundsPadding)})

	count := end - start
	if count <= leafSize {
		b.nodes[idx].leaf = true
		b.nodes[idx].first = start
		b.nodes[idx].count = count
		return idx
	}

	axis := longestAxis(centroids, order[start:end])
	run := order[start:end]
	sort.Slice(run, func(i, j int) bool {
		return centroids[run[i]][axis] < centroids[run[j]][axis]
	})

	mid := start + count/2
	b.build(tris, order, centroids, start, mid)
	second := b.build(tris, order, centroids, mid, end)
	b.nodes[idx].secondChild = second
	return idx
}

// raycast walks the hierarchy front to back and returns the closest hit.
func (b *bvh) raycast(tris []Triangle, order []int, origin, dir mgl32.Vec3, maxDist float32) (int, float32, mgl32.Vec3, bool) {
	if len(b.nodes) == 0 {
		return 0, 0, mgl32.Vec3{}, false
	}

	var stack [maxStackDepth]int
	sp := 0
	stack[sp] = 0
	sp++

	best := maxDist
	bestTri := -1
	var bestPoint mgl32.Vec3

	for sp > 0 {
		sp--
		cur := stack[sp]
		node := &b.nodes[cur]

		if _, ok := slabTest(node.bounds, origin, dir, best); !ok {
			continue
		}

		if node.leaf {
			for i := node.first; i < node.first+node.count; i++ {
				dist, point, ok := tris[order[i]].Intersect(origin, dir, best)
				if ok && (bestTri < 0 || dist < best) {
					best = dist
					bestTri = order[i]
					bestPoint = point
				}
			}
			continue
		}

		first := cur + 1
		second := node.secondChild
		firstDist, firstOK := slabTest(b.nodes[first].bounds, origin, dir, best)
		secondDist, secondOK := slabTest(b.nodes[second].bounds, origin, dir, best)

		// Push the farther child first so the nearer one is popped next
		if firstOK && secondOK && firstDist > secondDist {
			first, second = second, first
			firstOK, secondOK = secondOK, firstOK
		}
		if secondOK && sp < maxStackDepth {
			stack[sp] = second
			sp++
		}
		if firstOK && sp < maxStackDepth {
			stack[sp] = first
			sp++
		}
	}

	if bestTri < 0 {
		return 0, 0, mgl32.Vec3{}, false
	}
	return bestTri, best, bestPoint, true
}

// slabTest intersects the segment origin + dir*[0, maxDist] with a box and
// returns the entry distance.
func slabTest(box cube.BBox, origin, dir mgl32.Vec3, maxDist float32) (float32, bool) {
	lo, hi := box.Min(), box.Max()
	tMin := float32(0)
	tMax := maxDist

	for axis := 0; axis < 3; axis++ {
		if math32.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}

		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math32.Max(tMin, t1)
		tMax = math32.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

func rangeBounds(tris []Triangle, idx []int) cube.BBox {
	lo := mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	hi := mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	for _, i := range idx {
		bb := tris[i].Bounds()
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math32.Min(lo[axis], bb.Min()[axis])
			hi[axis] = math32.Max(hi[axis], bb.Max()[axis])
		}
	}
	return cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

func longestAxis(centroids []mgl32.Vec3, idx []int) int {
	lo := mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	hi := mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	for _, i := range idx {
		c := centroids[i]
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math32.Min(lo[axis], c[axis])
			hi[axis] = math32.Max(hi[axis], c[axis])
		}
	}

	extent := hi.Sub(lo)
	axis := 0
	if extent.Y() > extent[axis] {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	return axis
}

package asset

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/leterax/splatwalk/pkg/collision"
)

// loadGLTF walks the default scene and bakes every mesh node into world
// space. Nodes that are not reachable from the scene are ignored.
func loadGLTF(path string) ([]*collision.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gltf %s: %w", path, err)
	}

	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		// no scene, treat every node as a root
		for i := range doc.Nodes {
			roots = append(roots, i)
		}
	}

	w := gltfWalker{doc: doc, name: filepath.Base(path)}
	for _, n := range roots {
		if err := w.visit(n, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return w.meshes, nil
}

// maxNodeDepth guards against cyclic node graphs in malformed files
const maxNodeDepth = 64

type gltfWalker struct {
	doc    *gltf.Document
	name   string
	meshes []*collision.Mesh
}

func (w *gltfWalker) visit(idx int, parent mgl32.Mat4, depth int) error {
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return fmt.Errorf("%w: node %d out of range", ErrMalformed, idx)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("%w: node hierarchy deeper than %d", ErrMalformed, maxNodeDepth)
	}

	node := w.doc.Nodes[idx]
	world := parent.Mul4(localTransform(node))

	if node.Mesh != nil {
		tris, err := w.meshTriangles(*node.Mesh, world)
		if err != nil {
			return err
		}
		name := node.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", w.name, idx)
		}
		w.meshes = append(w.meshes, collision.NewMesh(name, tris))
	}

	for _, child := range node.Children {
		if err := w.visit(child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *gltfWalker) meshTriangles(meshIdx int, world mgl32.Mat4) ([]collision.Triangle, error) {
	if meshIdx < 0 || meshIdx >= len(w.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d out of range", ErrMalformed, meshIdx)
	}

	var tris []collision.Triangle
	for _, prim := range w.doc.Meshes[meshIdx].Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAcc, err := w.accessor(posIdx)
		if err != nil {
			return nil, err
		}
		positions, err := modeler.ReadPosition(w.doc, posAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read positions: %w", err)
		}

		var indices []uint32
		if prim.Indices != nil {
			idxAcc, err := w.accessor(*prim.Indices)
			if err != nil {
				return nil, err
			}
			indices, err = modeler.ReadIndices(w.doc, idxAcc, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		verts := make([]mgl32.Vec3, len(positions))
		for i, p := range positions {
			verts[i] = world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()
		}

		tris = appendPrimitive(tris, prim.Mode, verts, indices)
	}
	return tris, nil
}

// accessor looks up an accessor and the buffer view behind it
func (w *gltfWalker) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(w.doc.Accessors) || w.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformed, idx)
	}
	acc := w.doc.Accessors[idx]
	if acc.BufferView != nil {
		bv := *acc.BufferView
		if bv < 0 || bv >= len(w.doc.BufferViews) || w.doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("%w: accessor %d uses buffer view %d out of range", ErrMalformed, idx, bv)
		}
		view := w.doc.BufferViews[bv]
		if view.Buffer < 0 || view.Buffer >= len(w.doc.Buffers) {
			return nil, fmt.Errorf("%w: buffer view %d uses buffer %d out of range", ErrMalformed, bv, view.Buffer)
		}
		if acc.ByteOffset > view.ByteLength {
			return nil, fmt.Errorf("%w: accessor %d starts past the end of buffer view %d", ErrMalformed, idx, bv)
		}
	}
	return acc, nil
}

// appendPrimitive expands list, strip and fan modes into triangles. Point
// and line primitives carry no walkable area.
func appendPrimitive(tris []collision.Triangle, mode gltf.PrimitiveMode, verts []mgl32.Vec3, idx []uint32) []collision.Triangle {
	at := func(i uint32) (mgl32.Vec3, bool) {
		if int(i) >= len(verts) {
			return mgl32.Vec3{}, false
		}
		return verts[i], true
	}
	add := func(a, b, c uint32) {
		va, ok1 := at(a)
		vb, ok2 := at(b)
		vc, ok3 := at(c)
		if ok1 && ok2 && ok3 {
			tris = append(tris, collision.Triangle{A: va, B: vb, C: vc})
		}
	}

	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(idx); i += 3 {
			add(idx[i], idx[i+1], idx[i+2])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				add(idx[i], idx[i+1], idx[i+2])
			} else {
				add(idx[i+1], idx[i], idx[i+2])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			add(idx[0], idx[i], idx[i+1])
		}
	}
	return tris
}

// localTransform returns the node matrix, composing translation, rotation and
// scale when no explicit matrix is set.
func localTransform(node *gltf.Node) mgl32.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i := range m {
			out[i] = float32(m[i])
		}
		return out
	}

	t := node.Translation
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	rot := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// Package asset reads collision geometry from disk and turns it into
// collision meshes.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/leterax/splatwalk/pkg/collision"
)

var (
	// ErrUnsupportedFormat is returned for files that are not OBJ or glTF
	ErrUnsupportedFormat = errors.New("unsupported collision format")
	// ErrNoTriangles is returned when a file parses but holds no usable triangle
	ErrNoTriangles = errors.New("no triangles in collision asset")
	// ErrMalformed is returned when a file references data it does not contain
	ErrMalformed = errors.New("malformed collision asset")
)

// Format is the on-disk encoding of a collision asset
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
)

// Info describes a loaded asset
type Info struct {
	Path      string
	Format    Format
	Meshes    int
	Triangles int
	// Fingerprint is the xxh3 hash of the file contents
	Fingerprint uint64
}

// DetectFormat picks the decoder from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatOBJ, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads the asset at path into a collision set. Each mesh node becomes
// one walkable surface.
func Load(path string) (*collision.Set, Info, error) {
	info := Info{Path: path}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, info, err
	}
	info.Format = format

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, info, fmt.Errorf("failed to read collision asset: %w", err)
	}
	info.Fingerprint = xxh3.Hash(data)

	var meshes []*collision.Mesh
	switch format {
	case FormatOBJ:
		meshes, err = decodeOBJ(filepath.Base(path), data)
	default:
		meshes, err = loadGLTF(path)
	}
	if err != nil {
		return nil, info, err
	}

	set := collision.NewSet(meshes...)
	if set.TriangleCount() == 0 {
		return nil, info, fmt.Errorf("%w: %s", ErrNoTriangles, path)
	}
	info.Meshes = set.Len()
	info.Triangles = set.TriangleCount()
	return set, info, nil
}

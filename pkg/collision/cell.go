package collision

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrAlreadyPublished is returned when a second set is published to a Cell
var ErrAlreadyPublished = errors.New("collision set already published")

// Cell is a write-once holder for the collision Set produced by the asset
// loader. Until Publish is called the cell behaves as an empty surface: every
// ray misses.
type Cell struct {
	set       atomic.Pointer[Set]
	published atomic.Bool
	ready     chan struct{}
	closeOnce sync.Once
}

// NewCell creates an empty cell
func NewCell() *Cell {
	return &Cell{ready: make(chan struct{})}
}

// Publish stores the set. Only the first call succeeds.
func (c *Cell) Publish(s *Set) error {
	if !c.published.CompareAndSwap(false, true) {
		return ErrAlreadyPublished
	}
	if s == nil {
		s = NewSet()
	}
	c.set.Store(s)
	c.closeOnce.Do(func() { close(c.ready) })
	return nil
}

// Load returns the published set, or false while the cell is still empty
func (c *Cell) Load() (*Set, bool) {
	if c == nil {
		return nil, false
	}
	s := c.set.Load()
	return s, s != nil
}

// Loaded reports whether a set has been published
func (c *Cell) Loaded() bool {
	_, ok := c.Load()
	return ok
}

// Ready is closed once a set has been published
func (c *Cell) Ready() <-chan struct{} {
	return c.ready
}

// Raycast implements SurfaceQuery. An empty cell never reports a hit.
func (c *Cell) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	s, ok := c.Load()
	if !ok {
		return Hit{}, false
	}
	return s.Raycast(origin, dir, maxDist)
}

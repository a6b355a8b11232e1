package movement

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/splatwalk/pkg/collision"
)

type fakePose struct {
	pos    mgl32.Vec3
	front  mgl32.Vec3
	writes int
}

func (p *fakePose) Position() mgl32.Vec3 { return p.pos }

func (p *fakePose) SetPosition(pos mgl32.Vec3) {
	p.pos = pos
	p.writes++
}

func (p *fakePose) FrontVector() mgl32.Vec3 { return p.front }

// fakeSurface answers every downward ray with the height returned by floor
type fakeSurface struct {
	floor func(x, z float32) (float32, bool)
	calls int
}

func (s *fakeSurface) Raycast(origin, dir mgl32.Vec3, maxDist float32) (collision.Hit, bool) {
	s.calls++
	y, ok := s.floor(origin.X(), origin.Z())
	if !ok || origin.Y()-y > maxDist {
		return collision.Hit{}, false
	}
	return collision.Hit{Distance: origin.Y() - y, Point: mgl32.Vec3{origin.X(), y, origin.Z()}}, true
}

func flatFloor(y float32) *fakeSurface {
	return &fakeSurface{floor: func(float32, float32) (float32, bool) { return y, true }}
}

// floorMesh builds a real collision mesh: a square floor at height y spanning
// [-n, n] on both axes with the unit cells for which hole returns true left out.
func floorMesh(n int, y float32, hole func(x, z int) bool) *collision.Set {
	var tris []collision.Triangle
	for x := -n; x < n; x++ {
		for z := -n; z < n; z++ {
			if hole != nil && hole(x, z) {
				continue
			}
			a := mgl32.Vec3{float32(x), y, float32(z)}
			b := mgl32.Vec3{float32(x + 1), y, float32(z)}
			c := mgl32.Vec3{float32(x + 1), y, float32(z + 1)}
			d := mgl32.Vec3{float32(x), y, float32(z + 1)}
			tris = append(tris, collision.Triangle{A: a, B: b, C: c}, collision.Triangle{A: a, B: c, C: d})
		}
	}
	return collision.NewSet(collision.NewMesh("floor", tris))
}

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math.Abs(float64(got-want)) > float64(tol) {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func horizontalLen(v mgl32.Vec3) float32 {
	return float32(math.Hypot(float64(v.X()), float64(v.Z())))
}

func TestInput_KeyDownUpMirrorsHeldKeys(t *testing.T) {
	in := NewInput(nil)

	tests := []struct {
		code string
		want KeyState
	}{
		{KeyW, KeyState{Forward: true}},
		{ArrowUp, KeyState{Forward: true}},
		{KeyS, KeyState{Backward: true}},
		{ArrowDown, KeyState{Backward: true}},
		{KeyA, KeyState{Left: true}},
		{ArrowLeft, KeyState{Left: true}},
		{KeyD, KeyState{Right: true}},
		{ArrowRight, KeyState{Right: true}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if !in.KeyDown(tt.code) {
				t.Fatalf("KeyDown(%s) not handled", tt.code)
			}
			if got := in.State(); got != tt.want {
				t.Fatalf("state = %+v, want %+v", got, tt.want)
			}
			if !in.KeyUp(tt.code) {
				t.Fatalf("KeyUp(%s) not handled", tt.code)
			}
			if got := in.State(); got.Any() {
				t.Fatalf("state after release = %+v, want none", got)
			}
		})
	}
}

func TestInput_UnmappedKeysIgnored(t *testing.T) {
	in := NewInput(nil)
	in.KeyDown(KeyW)

	if in.KeyDown("KeyQ") || in.KeyUp("Space") {
		t.Fatalf("unmapped key reported as handled")
	}
	if got := in.State(); got != (KeyState{Forward: true}) {
		t.Fatalf("state = %+v", got)
	}
}

func TestInput_AliasReleaseClearsDirection(t *testing.T) {
	in := NewInput(nil)
	in.KeyDown(KeyW)
	in.KeyUp(ArrowUp)
	if in.State().Forward {
		t.Fatalf("forward still held after releasing its alias")
	}
}

func TestInput_RepeatedKeyDownIsIdempotent(t *testing.T) {
	in := NewInput(nil)
	for i := 0; i < 5; i++ {
		in.KeyDown(KeyD)
	}
	in.KeyUp(KeyD)
	if in.State().Any() {
		t.Fatalf("state = %+v, want none", in.State())
	}
}

func TestInput_ResetAndDescribe(t *testing.T) {
	in := NewInput(nil)
	in.KeyDown(KeyW)
	in.KeyDown(KeyA)
	in.Reset()
	if in.State().Any() {
		t.Fatalf("reset left keys held: %+v", in.State())
	}

	got := in.Describe()
	if len(got) != 8 || got[0] != "KeyW=forward" || got[7] != "ArrowRight=right" {
		t.Fatalf("describe = %v", got)
	}
}

func TestSettings_FloorProbeReach(t *testing.T) {
	settings := DefaultSettings()
	settings.ProbeHeight = 10
	settings.MaxDrop = 5

	tests := []struct {
		name   string
		floor  float32
		wantOK bool
	}{
		{"within drop", -4, true},
		{"below drop", -6, false},
		{"above ray start", 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := settings.FloorProbe(floorMesh(2, tt.floor, nil))
			h, ok := probe.HeightAt(0.3, 0.6)
			if ok != tt.wantOK {
				t.Fatalf("HeightAt ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && h != tt.floor {
				t.Fatalf("height = %v, want %v", h, tt.floor)
			}
		})
	}
}

func TestResolver_NoNetInputProducesNoMovement(t *testing.T) {
	r := NewResolver()
	front := mgl32.Vec3{0.3, -0.2, -0.9}.Normalize()

	tests := []struct {
		name string
		keys KeyState
	}{
		{"none", KeyState{}},
		{"forward+backward", KeyState{Forward: true, Backward: true}},
		{"left+right", KeyState{Left: true, Right: true}},
		{"all", KeyState{Forward: true, Backward: true, Left: true, Right: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if disp, ok := r.Resolve(front, tt.keys, DefaultMoveSpeed); ok {
				t.Fatalf("displacement = %v, want none", disp)
			}
		})
	}
}

func TestResolver_SingleDirectionMagnitudeAndHeading(t *testing.T) {
	r := NewResolver()
	// Facing -Z and pitched down: horizontal forward is -Z, right is +X
	front := mgl32.Vec3{0, -0.5, -1}.Normalize()
	const speed = float32(0.25)

	tests := []struct {
		name string
		keys KeyState
		want mgl32.Vec3
	}{
		{"forward", KeyState{Forward: true}, mgl32.Vec3{0, 0, -speed}},
		{"backward", KeyState{Backward: true}, mgl32.Vec3{0, 0, speed}},
		{"right", KeyState{Right: true}, mgl32.Vec3{speed, 0, 0}},
		{"left", KeyState{Left: true}, mgl32.Vec3{-speed, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp, ok := r.Resolve(front, tt.keys, speed)
			if !ok {
				t.Fatalf("no displacement")
			}
			if disp.Y() != 0 {
				t.Fatalf("disp.y = %v, want 0", disp.Y())
			}
			approxEqual(t, horizontalLen(disp), speed, 1e-6, "magnitude")
			approxEqual(t, disp.X(), tt.want.X(), 1e-6, "disp.x")
			approxEqual(t, disp.Z(), tt.want.Z(), 1e-6, "disp.z")
		})
	}
}

func TestResolver_DiagonalIsNotFaster(t *testing.T) {
	r := NewResolver()
	front := mgl32.Vec3{0.6, 0.1, 0.8}.Normalize()

	single, _ := r.Resolve(front, KeyState{Forward: true}, DefaultMoveSpeed)
	diag, ok := r.Resolve(front, KeyState{Forward: true, Right: true}, DefaultMoveSpeed)
	if !ok {
		t.Fatalf("no diagonal displacement")
	}
	approxEqual(t, horizontalLen(diag), horizontalLen(single), 1e-6, "diagonal magnitude")
	approxEqual(t, horizontalLen(diag), DefaultMoveSpeed, 1e-6, "diagonal magnitude")
}

func TestResolver_VerticalFrontFallsBack(t *testing.T) {
	r := NewResolver()

	// Straight down before any usable facing: default -Z
	disp, ok := r.Resolve(mgl32.Vec3{0, -1, 0}, KeyState{Forward: true}, 1)
	if !ok {
		t.Fatalf("no displacement")
	}
	approxEqual(t, disp.Z(), -1, 1e-6, "disp.z")

	// Face +X, then look straight up: keep walking along +X
	r.Resolve(mgl32.Vec3{1, 0, 0}, KeyState{Forward: true}, 1)
	disp, ok = r.Resolve(mgl32.Vec3{0, 1, 0}, KeyState{Forward: true}, 1)
	if !ok {
		t.Fatalf("no displacement")
	}
	approxEqual(t, disp.X(), 1, 1e-6, "disp.x")
	approxEqual(t, disp.Z(), 0, 1e-6, "disp.z")
}

func TestController_InactiveSkipsEverything(t *testing.T) {
	surface := flatFloor(0)
	c := NewController(surface, DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyW)
	pose := &fakePose{pos: mgl32.Vec3{1, 2, 3}, front: mgl32.Vec3{0, 0, -1}}

	step := c.Update(pose, false)
	if step.Outcome != Inactive {
		t.Fatalf("outcome = %v, want inactive", step.Outcome)
	}
	if pose.writes != 0 || surface.calls != 0 {
		t.Fatalf("writes=%d probes=%d, want none", pose.writes, surface.calls)
	}
}

func TestController_IdleDoesNotProbeOrWrite(t *testing.T) {
	surface := flatFloor(0)
	c := NewController(surface, DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyA)
	c.Input().KeyDown(KeyD)
	start := mgl32.Vec3{0.25, 5, -0.5}
	pose := &fakePose{pos: start, front: mgl32.Vec3{0, 0, -1}}

	step := c.Update(pose, true)
	if step.Outcome != Idle {
		t.Fatalf("outcome = %v, want idle", step.Outcome)
	}
	if pose.pos != start || pose.writes != 0 || surface.calls != 0 {
		t.Fatalf("pos=%v writes=%d probes=%d", pose.pos, pose.writes, surface.calls)
	}
}

func TestController_ForwardMovesBySpeedAndSnapsToFloor(t *testing.T) {
	c := NewController(floorMesh(4, 0, nil), DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyW)
	pose := &fakePose{pos: mgl32.Vec3{-0.6, 0.5, 0}, front: mgl32.Vec3{0, 0, -1}}

	step := c.Update(pose, true)
	if step.Outcome != Moved {
		t.Fatalf("outcome = %v, want moved", step.Outcome)
	}
	if pose.pos.Y() != float32(0.7) {
		t.Fatalf("y = %v, want exactly 0.7", pose.pos.Y())
	}
	approxEqual(t, pose.pos.X(), -0.6, 1e-6, "x")
	approxEqual(t, pose.pos.Z(), -DefaultMoveSpeed, 1e-6, "z")
	if step.Floor != 0 || step.Position != pose.pos {
		t.Fatalf("step = %+v", step)
	}
}

func TestController_AnyAcceptedPositionOnFlatFloorHasEyeHeight(t *testing.T) {
	settings := DefaultSettings()
	settings.MoveSpeed = 0.37
	c := NewController(floorMesh(5, 0, nil), settings, nil, nil)
	c.Input().KeyDown(KeyW)
	c.Input().KeyDown(KeyD)
	pose := &fakePose{pos: mgl32.Vec3{-4, 3, 4}, front: mgl32.Vec3{0.3, 0, -0.7}.Normalize()}

	for i := 0; i < 15; i++ {
		step := c.Update(pose, true)
		if step.Outcome == Moved && pose.pos.Y() != float32(0.7) {
			t.Fatalf("frame %d: y = %v, want exactly 0.7", i, pose.pos.Y())
		}
	}
}

func TestController_EmptySurfaceRejectsEveryFrame(t *testing.T) {
	cell := collision.NewCell()
	c := NewController(cell, DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyW)
	start := mgl32.Vec3{-0.6, 0.5, 0}
	pose := &fakePose{pos: start, front: mgl32.Vec3{0, 0, -1}}

	for i := 0; i < 10; i++ {
		if step := c.Update(pose, true); step.Outcome != Rejected {
			t.Fatalf("frame %d: outcome = %v, want rejected", i, step.Outcome)
		}
	}
	if pose.pos != start || pose.writes != 0 {
		t.Fatalf("pos = %v writes=%d, want %v untouched", pose.pos, pose.writes, start)
	}

	// Once the mesh arrives the same input walks
	if err := cell.Publish(floorMesh(2, 0, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if step := c.Update(pose, true); step.Outcome != Moved {
		t.Fatalf("outcome after publish = %v, want moved", step.Outcome)
	}
}

func TestController_NilSurfaceRejects(t *testing.T) {
	c := NewController(nil, DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyW)
	pose := &fakePose{front: mgl32.Vec3{0, 0, -1}}
	if step := c.Update(pose, true); step.Outcome != Rejected {
		t.Fatalf("outcome = %v, want rejected", step.Outcome)
	}
}

func TestController_MoveIntoHoleIsRejected(t *testing.T) {
	// Hole covers the cell [0,1) x [-1,0)
	surfaces := floorMesh(3, 0, func(x, z int) bool { return x == 0 && z == -1 })
	settings := DefaultSettings()
	settings.MoveSpeed = 0.2
	c := NewController(surfaces, settings, nil, nil)
	c.Input().KeyDown(KeyW)

	start := mgl32.Vec3{0.5, 0.9, 0.3}
	pose := &fakePose{pos: start, front: mgl32.Vec3{0, 0, -1}}

	if step := c.Update(pose, true); step.Outcome != Moved {
		t.Fatalf("first step outcome = %v, want moved", step.Outcome)
	}
	accepted := pose.pos
	if accepted.Y() != float32(0.7) {
		t.Fatalf("y = %v, want 0.7", accepted.Y())
	}

	step := c.Update(pose, true)
	if step.Outcome != Rejected {
		t.Fatalf("outcome = %v, want rejected", step.Outcome)
	}
	if pose.pos != accepted {
		t.Fatalf("pos = %v, want %v", pose.pos, accepted)
	}
	if step.Position != accepted {
		t.Fatalf("step position = %v, want %v", step.Position, accepted)
	}
}

func TestController_RejectLeavesHeightUntouched(t *testing.T) {
	surface := &fakeSurface{floor: func(x, z float32) (float32, bool) { return 0, x < 1 }}
	c := NewController(surface, DefaultSettings(), nil, nil)
	c.Input().KeyDown(KeyD)
	start := mgl32.Vec3{0.999, 4.2, 0}
	pose := &fakePose{pos: start, front: mgl32.Vec3{0, 0, -1}}

	if step := c.Update(pose, true); step.Outcome != Rejected {
		t.Fatalf("outcome = %v, want rejected", step.Outcome)
	}
	if pose.pos != start {
		t.Fatalf("pos = %v, want %v", pose.pos, start)
	}
}

func TestController_FloorBeyondRangeRejects(t *testing.T) {
	settings := DefaultSettings()
	c := NewController(flatFloor(-(settings.MaxDrop + 1)), settings, nil, nil)
	c.Input().KeyDown(KeyW)
	pose := &fakePose{front: mgl32.Vec3{0, 0, -1}}

	if step := c.Update(pose, true); step.Outcome != Rejected {
		t.Fatalf("outcome = %v, want rejected", step.Outcome)
	}
}

func TestController_PressReleaseRoundTripIsBitExact(t *testing.T) {
	c := NewController(floorMesh(2, 0, nil), DefaultSettings(), nil, nil)
	start := mgl32.Vec3{0.123456, 0.7654321, -0.5}
	pose := &fakePose{pos: start, front: mgl32.Vec3{0.2, -0.3, -0.9}.Normalize()}

	for i := 0; i < 20; i++ {
		c.Input().KeyDown(KeyW)
		c.Input().KeyUp(KeyW)
		c.Update(pose, true)
	}
	if pose.pos != start || pose.writes != 0 {
		t.Fatalf("pos = %v writes=%d, want %v", pose.pos, pose.writes, start)
	}
}

func TestController_SmoothingEasesTowardsFloor(t *testing.T) {
	settings := DefaultSettings()
	settings.Smoothing = 0.5
	c := NewController(flatFloor(1), settings, nil, nil)
	c.Input().KeyDown(KeyW)
	pose := &fakePose{pos: mgl32.Vec3{0, 0.7, 0}, front: mgl32.Vec3{0, 0, -1}}

	c.Update(pose, true)
	approxEqual(t, pose.pos.Y(), 1.2, 1e-6, "y after one frame")

	for i := 0; i < 40; i++ {
		c.Update(pose, true)
	}
	approxEqual(t, pose.pos.Y(), 1.7, 1e-4, "y after settling")
}

func TestSettings_Validate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero speed", func(s *Settings) { s.MoveSpeed = 0 }},
		{"negative eye", func(s *Settings) { s.EyeHeight = -1 }},
		{"negative drop", func(s *Settings) { s.MaxDrop = -1 }},
		{"zero ray height", func(s *Settings) { s.ProbeHeight = 0 }},
		{"ray height below floor", func(s *Settings) { s.ProbeHeight = -200 }},
		{"smoothing one", func(s *Settings) { s.Smoothing = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

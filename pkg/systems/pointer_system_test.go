package systems

import (
	"testing"

	"github.com/gonewx/whack/pkg/config"
)

func TestUpdatePointer_ConvergesToTarget(t *testing.T) {
	p := NewPointer()
	if p.Y <= p.TargetY {
		t.Fatalf("Expected pointer to start below target, got Y=%v target=%v", p.Y, p.TargetY)
	}

	p.TargetX = 100
	for i := 0; i < 600; i++ {
		UpdatePointer(&p, 1.0/60)
	}
	if !almostEqual(p.X, 100) || !almostEqual(p.Y, config.PointerStartY) {
		t.Errorf("Expected pointer at (100, %v), got (%v, %v)", config.PointerStartY, p.X, p.Y)
	}
	if !almostEqual(p.DiffX, 0) {
		t.Errorf("Expected sway to settle, got %v", p.DiffX)
	}
}

func TestUpdatePointer_SwayFollowsMovement(t *testing.T) {
	p := NewPointer()
	p.Y = p.TargetY
	p.TargetX = p.X + 200

	UpdatePointer(&p, 1.0/60)
	if p.DiffX <= 0 {
		t.Errorf("Expected positive sway when moving right, got %v", p.DiffX)
	}

	// 帧时长过大时混合系数被限制为 1
	q := NewPointer()
	q.TargetX = 50
	UpdatePointer(&q, 1)
	if q.X != 50 || q.Y != q.TargetY {
		t.Errorf("Expected full blend on long frame, got (%v, %v)", q.X, q.Y)
	}
}

func TestComputeCamera(t *testing.T) {
	p := NewPointer()
	p.X = config.CanvasWidth/2 + 100
	p.Y = config.CanvasHeight / 2
	p.DiffX = 10
	recoil := NewRecoilSprings()

	cam := ComputeCamera(&p, recoil, true)
	if !almostEqual(cam.X, -10) || !almostEqual(cam.Y, 0) || !almostEqual(cam.Rotation, 1) {
		t.Errorf("Unexpected camera: %+v", cam)
	}

	if cam := ComputeCamera(&p, recoil, false); cam != (Camera{}) {
		t.Errorf("Expected zero camera when parallax disabled, got %+v", cam)
	}
}

func TestRecoilSprings_Kick(t *testing.T) {
	r := NewRecoilSprings()
	r.Kick(100)

	if r.X.Velocity != 100 || r.Rot.Velocity != 20 || r.Y.Velocity != config.GunRecoilImpulse {
		t.Errorf("Unexpected velocities: rot=%v x=%v y=%v", r.Rot.Velocity, r.X.Velocity, r.Y.Velocity)
	}

	for i := 0; i < 600; i++ {
		r.Advance(1.0 / 60)
	}
	if !almostEqual(r.Y.Position, 0) {
		t.Errorf("Expected recoil to settle, got %v", r.Y.Position)
	}
}

package systems

import (
	"math"
	"testing"
	"time"

	"github.com/gonewx/whack/pkg/config"
)

// fakeClock 可手动推进的测试时钟
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(seconds float64) {
	c.now = c.now.Add(time.Duration(seconds * float64(time.Second)))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestTimeSource_FirstFrameIsNominal(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimeSource(clock.Now)

	if dt := ts.NextFrame(); dt != config.NominalFrameTime {
		t.Errorf("Expected nominal first frame %v, got %v", config.NominalFrameTime, dt)
	}

	clock.Advance(0.02)
	if dt := ts.NextFrame(); !almostEqual(dt, 0.02) {
		t.Errorf("Expected 0.02, got %v", dt)
	}

	ts.Reset()
	clock.Advance(5)
	if dt := ts.NextFrame(); dt != config.NominalFrameTime {
		t.Errorf("Expected nominal frame after reset, got %v", dt)
	}
}

func TestTimeSource_ClampsLongFrames(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimeSource(clock.Now)
	ts.NextFrame()

	clock.Advance(30)
	if dt := ts.NextFrame(); dt != config.MaxFrameTime {
		t.Errorf("Expected clamp to %v, got %v", config.MaxFrameTime, dt)
	}

	// 时钟回拨
	clock.Advance(-1)
	if dt := ts.NextFrame(); dt != 0 {
		t.Errorf("Expected 0 for backwards clock, got %v", dt)
	}
}

func TestTimeSource_Timescale(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimeSource(clock.Now)
	ts.SetTimescale(2)
	ts.NextFrame()

	clock.Advance(0.5)
	if dt := ts.NextFrame(); !almostEqual(dt, 1.0) {
		t.Errorf("Expected scaled dt 1.0, got %v", dt)
	}

	// 缩放在限幅之后应用
	clock.Advance(10)
	if dt := ts.NextFrame(); !almostEqual(dt, 2.0) {
		t.Errorf("Expected clamped then scaled dt 2.0, got %v", dt)
	}

	ts.SetTimescale(0)
	if ts.Timescale() != 1 {
		t.Errorf("Expected non-positive timescale to fall back to 1, got %v", ts.Timescale())
	}
}

func TestTimeSource_FocusExcludesBlurredTime(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimeSource(clock.Now)
	ts.NextFrame()

	clock.Advance(0.1)
	ts.SetFocused(false)
	if !ts.Waiting() {
		t.Fatal("Expected Waiting after losing focus")
	}

	clock.Advance(0.2)
	if dt := ts.NextFrame(); dt != 0 {
		t.Errorf("Expected no time to pass while blurred, got %v", dt)
	}

	clock.Advance(60)
	ts.SetFocused(true)
	if ts.Waiting() {
		t.Fatal("Expected not waiting after regaining focus")
	}

	clock.Advance(0.05)
	// 失焦前 0.1s + 恢复后 0.05s
	if dt := ts.NextFrame(); !almostEqual(dt, 0.15) {
		t.Errorf("Expected 0.15s after refocus, got %v", dt)
	}
}

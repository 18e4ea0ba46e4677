package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b mgl32.Vec2) bool {
	return a.Sub(b).Len() < 1e-3
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		wheel float32
		want  float32
	}{
		{0, 1},
		{2, 1.1},
		{-4, 0.8},
		{1000, 3},
		{-1000, 0.1},
	}
	for _, tt := range tests {
		c := New(800, 450)
		c.AddZoom(tt.wheel)
		if math.Abs(float64(c.Zoom-tt.want)) > 1e-5 {
			t.Errorf("AddZoom(%v): Zoom = %v, want %v", tt.wheel, c.Zoom, tt.want)
		}
	}
}

func TestReset(t *testing.T) {
	c := New(800, 450)
	c.AddZoom(10)
	c.Rotation = 30
	c.Reset()
	if c.Zoom != 1 || c.Rotation != 0 {
		t.Errorf("Reset() deixou zoom=%v rotação=%v", c.Zoom, c.Rotation)
	}
}

func TestFollow(t *testing.T) {
	c := New(800, 450)
	c.SmoothFactor = 1
	c.Follow(mgl32.Vec2{100, 50}, 1.0/60)
	if !near(c.Target, mgl32.Vec2{100, 50}) {
		t.Errorf("SmoothFactor 1 deveria chegar no alvo, Target = %v", c.Target)
	}

	c.SmoothFactor = 0.5
	c.Follow(mgl32.Vec2{200, 50}, 1.0/60)
	if !near(c.Target, mgl32.Vec2{150, 50}) {
		t.Errorf("Target = %v, want (150, 50)", c.Target)
	}

	// dt zero não trava a câmera
	c.Follow(mgl32.Vec2{0, 0}, 0)
	if !near(c.Target, mgl32.Vec2{0, 0}) {
		t.Errorf("Target = %v, want origem", c.Target)
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	c := New(800, 450)
	c.Target = mgl32.Vec2{100, 100}

	// Alvo aparece no centro da tela
	if got := c.WorldToScreen(c.Target); !near(got, mgl32.Vec2{400, 225}) {
		t.Errorf("WorldToScreen(alvo) = %v", got)
	}

	c.Zoom = 2
	if got := c.ScreenToWorld(mgl32.Vec2{500, 225}); !near(got, mgl32.Vec2{150, 100}) {
		t.Errorf("ScreenToWorld com zoom 2 = %v, want (150, 100)", got)
	}

	c.Rotation = 90
	p := mgl32.Vec2{130, 80}
	if got := c.ScreenToWorld(c.WorldToScreen(p)); !near(got, p) {
		t.Errorf("ida e volta = %v, want %v", got, p)
	}
}

func TestAimAngle(t *testing.T) {
	center := mgl32.Vec2{400, 225}
	tests := []struct {
		mouse mgl32.Vec2
		want  float32
	}{
		{mgl32.Vec2{500, 225}, 0},
		{mgl32.Vec2{400, 325}, 90},
		{mgl32.Vec2{300, 225}, 180},
		{mgl32.Vec2{400, 125}, -90},
	}
	for _, tt := range tests {
		if got := AimAngle(tt.mouse, center); math.Abs(float64(got-tt.want)) > 1e-3 {
			t.Errorf("AimAngle(%v) = %v, want %v", tt.mouse, got, tt.want)
		}
	}
}

// Package camera controla a câmera 2D que segue o jogador.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Follow2D é uma câmera 2D que persegue um alvo com suavização.
// Mesmo modelo da Camera2D do raylib: Offset é o ponto da tela onde o alvo aparece.
type Follow2D struct {
	Offset   mgl32.Vec2
	Target   mgl32.Vec2
	Rotation float32 // Graus
	Zoom     float32

	// Configurações
	MinZoom      float32
	MaxZoom      float32
	ZoomStep     float32
	SmoothFactor float32 // 0.0 a 1.0 (1 = sem suavização)
}

// New cria a câmera centrada numa tela width x height.
func New(width, height int) *Follow2D {
	return &Follow2D{
		Offset:       mgl32.Vec2{float32(width) / 2, float32(height) / 2},
		Zoom:         1,
		MinZoom:      0.1,
		MaxZoom:      3,
		ZoomStep:     0.05,
		SmoothFactor: 0.2,
	}
}

// Resize recentraliza o offset quando a janela muda de tamanho.
func (c *Follow2D) Resize(width, height int) {
	c.Offset = mgl32.Vec2{float32(width) / 2, float32(height) / 2}
}

// SetTarget move a câmera imediatamente (sem suavização).
func (c *Follow2D) SetTarget(p mgl32.Vec2) {
	c.Target = p
}

// Follow aproxima o alvo de p. dt normaliza a suavização para 60 FPS.
func (c *Follow2D) Follow(p mgl32.Vec2, dt float32) {
	factor := c.SmoothFactor * 60 * dt
	if factor > 1 || factor <= 0 {
		factor = 1
	}
	c.Target = c.Target.Add(p.Sub(c.Target).Mul(factor))
}

// AddZoom aplica o giro da roda do mouse, limitado a [MinZoom, MaxZoom].
func (c *Follow2D) AddZoom(wheel float32) {
	c.Zoom = clamp(c.Zoom+wheel*c.ZoomStep, c.MinZoom, c.MaxZoom)
}

// Reset volta zoom e rotação ao padrão.
func (c *Follow2D) Reset() {
	c.Zoom = 1
	c.Rotation = 0
}

// WorldToScreen converte um ponto do mundo para a tela.
func (c *Follow2D) WorldToScreen(p mgl32.Vec2) mgl32.Vec2 {
	return rotate(p.Sub(c.Target), c.Rotation).Mul(c.Zoom).Add(c.Offset)
}

// ScreenToWorld converte um ponto da tela (ex.: mouse) para o mundo.
func (c *Follow2D) ScreenToWorld(p mgl32.Vec2) mgl32.Vec2 {
	if c.Zoom == 0 {
		return c.Target
	}
	return rotate(p.Sub(c.Offset).Mul(1/c.Zoom), -c.Rotation).Add(c.Target)
}

// AimAngle devolve o ângulo em graus de center até mouse, em coordenadas de tela.
func AimAngle(mouse, center mgl32.Vec2) float32 {
	d := mouse.Sub(center)
	return float32(math.Atan2(float64(d[1]), float64(d[0]))) * 180 / math.Pi
}

func rotate(v mgl32.Vec2, degrees float32) mgl32.Vec2 {
	if degrees == 0 {
		return v
	}
	return mgl32.Rotate2D(mgl32.DegToRad(degrees)).Mul2x1(v)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package render

import (
	"Studyio/shared/lighting"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Backend cria máscaras de luz como render textures do raylib.
// Só pode ser usado na thread da janela (OpenGL).
type Backend struct{}

func (Backend) ScreenSize() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (Backend) NewMask(width, height int) lighting.Mask {
	return &Mask{
		target: rl.LoadRenderTexture(int32(width), int32(height)),
		loaded: true,
	}
}

// Mask é a máscara de uma luz: alfa 0 onde está iluminado, 255 na sombra.
type Mask struct {
	target rl.RenderTexture2D
	loaded bool
}

// Texture devolve a textura da máscara para composição.
func (m *Mask) Texture() rl.Texture2D {
	return m.target.Texture
}

func (m *Mask) Begin() {
	rl.BeginTextureMode(m.target)
	rl.ClearBackground(rl.White)
}

func (m *Mask) SetBlend(mode lighting.BlendMode) {
	setBlend(mode)
}

func setBlend(mode lighting.BlendMode) {
	switch mode {
	case lighting.BlendAlphaMin:
		rl.SetBlendFactors(rl.SrcAlpha, rl.SrcAlpha, rl.Min)
		rl.SetBlendMode(rl.BlendCustom)
	case lighting.BlendAlphaMax:
		rl.SetBlendFactors(rl.SrcAlpha, rl.SrcAlpha, rl.Max)
		rl.SetBlendMode(rl.BlendCustom)
	default:
		rl.SetBlendMode(rl.BlendAlpha)
	}
}

func (m *Mask) DrawGradientDisc(center mgl32.Vec2, radius float32) {
	rl.DrawCircleGradient(int32(center[0]), int32(center[1]), radius, rl.ColorAlpha(rl.White, 0), rl.White)
}

func (m *Mask) DrawQuad(q lighting.ShadowGeometry) {
	rl.DrawTriangleFan(toVectors(q.Vertices[:]), rl.White)
}

func (m *Mask) Flush() {
	rl.DrawRenderBatchActive()
}

func (m *Mask) End() {
	rl.EndTextureMode()
}

func (m *Mask) Unload() {
	if !m.loaded {
		return
	}
	rl.UnloadRenderTexture(m.target)
	m.loaded = false
}

func toVectors(points []mgl32.Vec2) []rl.Vector2 {
	out := make([]rl.Vector2, len(points))
	for i, p := range points {
		out[i] = rl.Vector2{X: p[0], Y: p[1]}
	}
	return out
}

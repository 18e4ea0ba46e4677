// Package lighting implementa luzes 2D com máscaras de sombra por luz.
//
// Cada luz possui uma máscara alfa fora da tela: transparente dentro do raio
// iluminado e opaca onde volumes de sombra (arestas projetadas das caixas)
// cobrem a luz. A máscara só é reconstruída quando a luz se move.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// Rect é um retângulo alinhado aos eixos (oclusor ou bounds de uma luz).
type Rect struct {
	X      float32 `yaml:"x" json:"x"`
	Y      float32 `yaml:"y" json:"y"`
	Width  float32 `yaml:"width" json:"width"`
	Height float32 `yaml:"height" json:"height"`
}

// NewRect cria um retângulo.
func NewRect(x, y, width, height float32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

func (r Rect) TopLeft() mgl32.Vec2     { return mgl32.Vec2{r.X, r.Y} }
func (r Rect) TopRight() mgl32.Vec2    { return mgl32.Vec2{r.X + r.Width, r.Y} }
func (r Rect) BottomRight() mgl32.Vec2 { return mgl32.Vec2{r.X + r.Width, r.Y + r.Height} }
func (r Rect) BottomLeft() mgl32.Vec2  { return mgl32.Vec2{r.X, r.Y + r.Height} }

// Contains segue a regra do raylib: bordas esquerda/superior inclusivas,
// direita/inferior exclusivas.
func (r Rect) Contains(p mgl32.Vec2) bool {
	return p[0] >= r.X && p[0] < r.X+r.Width &&
		p[1] >= r.Y && p[1] < r.Y+r.Height
}

// Overlaps reporta interseção estrita (retângulos que só se tocam não colidem).
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// ShadowGeometry é um quad de sombra (extrusão de aresta ou a própria caixa).
type ShadowGeometry struct {
	Vertices [4]mgl32.Vec2
}

// BlendMode é o modo de mistura aplicado ao canal alfa da máscara.
type BlendMode int

const (
	BlendNormal   BlendMode = iota // Alfa padrão (over)
	BlendAlphaMin                  // dst.a = min(src.a, dst.a)
	BlendAlphaMax                  // dst.a = max(src.a, dst.a)
)

func (b BlendMode) String() string {
	switch b {
	case BlendAlphaMin:
		return "min"
	case BlendAlphaMax:
		return "max"
	default:
		return "normal"
	}
}

// Mask é o alvo de renderização fora da tela de uma luz.
type Mask interface {
	// Begin ativa a máscara como alvo e limpa para totalmente opaco.
	Begin()
	SetBlend(mode BlendMode)
	// DrawGradientDisc desenha um disco com alfa 0 no centro e opaco no raio.
	DrawGradientDisc(center mgl32.Vec2, radius float32)
	// DrawQuad preenche o quad como um leque opaco.
	DrawQuad(q ShadowGeometry)
	Flush()
	End()
	Unload()
}

// Backend cria máscaras no tamanho da tela atual.
type Backend interface {
	ScreenSize() (width, height int)
	NewMask(width, height int) Mask
}

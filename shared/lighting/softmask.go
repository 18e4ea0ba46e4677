package lighting

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// SoftwareBackend gera máscaras em memória (*image.Alpha), sem GPU.
// Usado em testes e para exportar máscaras em PNG.
type SoftwareBackend struct {
	Width, Height int
}

func (b *SoftwareBackend) ScreenSize() (int, int) { return b.Width, b.Height }

func (b *SoftwareBackend) NewMask(width, height int) Mask {
	return NewSoftMask(width, height)
}

// SoftMask é uma máscara rasterizada em CPU.
type SoftMask struct {
	img     *image.Alpha
	scratch *image.Alpha // Cobertura do último quad
	raster  *vector.Rasterizer
	blend   BlendMode

	drawing  bool
	Draws    int // Quantidade de Begin/End completos (útil para testes)
	unloaded bool
}

// NewSoftMask cria uma máscara width×height já opaca.
func NewSoftMask(width, height int) *SoftMask {
	m := &SoftMask{
		img:     image.NewAlpha(image.Rect(0, 0, width, height)),
		scratch: image.NewAlpha(image.Rect(0, 0, width, height)),
		raster:  vector.NewRasterizer(width, height),
	}
	m.fill(0xff)
	return m
}

// Image retorna o buffer da máscara.
func (m *SoftMask) Image() *image.Alpha { return m.img }

// AlphaAt retorna o alfa do pixel (x, y).
func (m *SoftMask) AlphaAt(x, y int) uint8 { return m.img.AlphaAt(x, y).A }

// Unloaded reporta se a máscara já foi liberada.
func (m *SoftMask) Unloaded() bool { return m.unloaded }

func (m *SoftMask) fill(a uint8) {
	for i := range m.img.Pix {
		m.img.Pix[i] = a
	}
}

func (m *SoftMask) Begin() {
	m.drawing = true
	m.blend = BlendNormal
	m.fill(0xff)
}

func (m *SoftMask) SetBlend(mode BlendMode) { m.blend = mode }

func (m *SoftMask) DrawGradientDisc(center mgl32.Vec2, radius float32) {
	if radius <= 0 {
		return
	}
	b := m.img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(float64(center[0]-radius))))
	y0 := max(b.Min.Y, int(math.Floor(float64(center[1]-radius))))
	x1 := min(b.Max.X, int(math.Ceil(float64(center[0]+radius))))
	y1 := min(b.Max.Y, int(math.Ceil(float64(center[1]+radius))))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float32(x) + 0.5 - center[0]
			dy := float32(y) + 0.5 - center[1]
			d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if d > radius {
				continue
			}
			a := uint8(255 * d / radius)
			m.blendPixel(x, y, a)
		}
	}
}

func (m *SoftMask) DrawQuad(q ShadowGeometry) {
	size := m.img.Bounds().Size()
	m.raster.Reset(size.X, size.Y)
	m.raster.DrawOp = draw.Src
	m.raster.MoveTo(q.Vertices[0][0], q.Vertices[0][1])
	for _, v := range q.Vertices[1:] {
		m.raster.LineTo(v[0], v[1])
	}
	m.raster.ClosePath()
	m.raster.Draw(m.scratch, m.scratch.Bounds(), image.Opaque, image.Point{})

	for i, cov := range m.scratch.Pix {
		if cov == 0 {
			continue
		}
		m.img.Pix[i] = combine(m.blend, cov, m.img.Pix[i])
	}
}

func (m *SoftMask) blendPixel(x, y int, a uint8) {
	i := m.img.PixOffset(x, y)
	m.img.Pix[i] = combine(m.blend, a, m.img.Pix[i])
}

func combine(mode BlendMode, src, dst uint8) uint8 {
	switch mode {
	case BlendAlphaMin:
		return min(src, dst)
	case BlendAlphaMax:
		return max(src, dst)
	default:
		return src + uint8(uint16(dst)*uint16(255-src)/255)
	}
}

// Flush não tem lote pendente: cada primitiva é aplicada na hora.
func (m *SoftMask) Flush() {}

func (m *SoftMask) End() {
	if m.drawing {
		m.drawing = false
		m.Draws++
	}
}

func (m *SoftMask) Unload() {
	m.unloaded = true
}

// Compose combina máscaras de luz em dst pelo mínimo de alfa (onde qualquer luz ilumina).
// dst é limpo para opaco antes da combinação.
func Compose(dst *image.Alpha, masks ...*SoftMask) {
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	for _, m := range masks {
		if m == nil {
			continue
		}
		b := dst.Bounds().Intersect(m.img.Bounds())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				di := dst.PixOffset(x, y)
				dst.Pix[di] = min(dst.Pix[di], m.img.Pix[m.img.PixOffset(x, y)])
			}
		}
	}
}

// WritePNG grava a máscara como PNG em escala de cinza (preto = iluminado).
func WritePNG(w io.Writer, img *image.Alpha) error {
	gray := image.NewGray(img.Bounds())
	copy(gray.Pix, img.Pix)
	if err := png.Encode(w, gray); err != nil {
		return fmt.Errorf("falha ao codificar máscara: %w", err)
	}
	return nil
}

package render

import (
	"log"

	"Studyio/shared/lighting"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Compositor junta as máscaras de todas as luzes numa máscara de tela
// e a desenha por cima da cena.
type Compositor struct {
	target        rl.RenderTexture2D
	width, height int
	loaded        bool
}

// NewCompositor cria a máscara composta no tamanho da tela.
func NewCompositor(width, height int) *Compositor {
	c := &Compositor{}
	c.Resize(width, height)
	return c
}

// Resize recria a textura se o tamanho mudou. Reporta se recriou.
func (c *Compositor) Resize(width, height int) bool {
	if c.loaded && c.width == width && c.height == height {
		return false
	}
	c.Unload()
	c.target = rl.LoadRenderTexture(int32(width), int32(height))
	c.width, c.height = width, height
	c.loaded = true
	log.Printf("[Render] Máscara composta %dx%d", width, height)
	return true
}

// Compose combina as máscaras das luzes ativas por mínimo de alfa:
// um pixel fica iluminado se qualquer luz o ilumina.
func (c *Compositor) Compose(pool *lighting.Pool) {
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(rl.Black)

	setBlend(lighting.BlendAlphaMin)
	for i := 0; i < pool.Len(); i++ {
		if !pool.Light(i).Active {
			continue
		}
		m, ok := pool.Mask(i).(*Mask)
		if !ok || m == nil {
			continue
		}
		tex := m.Texture()
		// Render textures ficam de cabeça para baixo no OpenGL
		src := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: -float32(tex.Height)}
		rl.DrawTextureRec(tex, src, rl.Vector2Zero(), rl.White)
	}
	rl.DrawRenderBatchActive()

	setBlend(lighting.BlendNormal)
	rl.EndTextureMode()
}

// Draw desenha a máscara composta sobre a tela. Com as linhas de sombra
// visíveis a máscara fica parcialmente transparente.
func (c *Compositor) Draw(showLines bool) {
	alpha := float32(1)
	if showLines {
		alpha = 0.75
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: -float32(c.height)}
	rl.DrawTextureRec(c.target.Texture, src, rl.Vector2Zero(), rl.ColorAlpha(rl.White, alpha))
}

func (c *Compositor) Unload() {
	if !c.loaded {
		return
	}
	rl.UnloadRenderTexture(c.target)
	c.loaded = false
}

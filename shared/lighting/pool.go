package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowsPerOccluder é a reserva de volumes por caixa usada no cálculo da capacidade.
const ShadowsPerOccluder = 3

// Light é um slot do pool de luzes.
type Light struct {
	Active bool // Slot em uso
	Dirty  bool // Posição mudou desde a última reconstrução da máscara
	Valid  bool // Falso se o centro da luz está dentro de um oclusor

	Position    mgl32.Vec2
	OuterRadius float32 // Alcance da luz, fixo na criação
	Bounds      Rect    // Cache para descartar oclusores fora do alcance

	mask    Mask
	shadows []ShadowGeometry
}

// ShadowCount retorna quantos volumes de sombra a última atualização gerou.
func (l *Light) ShadowCount() int {
	return len(l.shadows)
}

// Pool é uma arena de luzes endereçada por índice de slot.
// Não é seguro para uso concorrente: pertence ao loop de renderização.
type Pool struct {
	backend    Backend
	lights     []Light
	maxShadows int
}

// NewPool cria um pool com maxLights slots e espaço de sombras para maxOccluders caixas.
func NewPool(backend Backend, maxLights, maxOccluders int) (*Pool, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend de máscara não informado")
	}
	if maxLights <= 0 {
		return nil, fmt.Errorf("capacidade de luzes inválida: %d", maxLights)
	}
	if maxOccluders <= 0 {
		return nil, fmt.Errorf("capacidade de oclusores inválida: %d", maxOccluders)
	}

	p := &Pool{
		backend:    backend,
		lights:     make([]Light, maxLights),
		maxShadows: maxOccluders * ShadowsPerOccluder,
	}
	for i := range p.lights {
		p.lights[i].shadows = make([]ShadowGeometry, 0, p.maxShadows)
	}
	return p, nil
}

// Len retorna o número de slots.
func (p *Pool) Len() int { return len(p.lights) }

// MaxShadows retorna a capacidade de sombras por luz.
func (p *Pool) MaxShadows() int { return p.maxShadows }

// Light dá acesso ao slot. Índices fora do intervalo são erro do chamador.
func (p *Pool) Light(slot int) *Light { return &p.lights[slot] }

// Shadows retorna os volumes de sombra atuais do slot (válidos até o próximo UpdateLight).
func (p *Pool) Shadows(slot int) []ShadowGeometry { return p.lights[slot].shadows }

// Mask retorna a máscara do slot (nil se nunca configurado).
func (p *Pool) Mask(slot int) Mask { return p.lights[slot].mask }

// NextFree retorna o primeiro slot inativo.
func (p *Pool) NextFree() (int, bool) {
	for i := range p.lights {
		if !p.lights[i].Active {
			return i, true
		}
	}
	return -1, false
}

// MoveLight move a luz e a marca como suja para atualizar a máscara no próximo frame.
func (p *Pool) MoveLight(slot int, x, y float32) {
	l := &p.lights[slot]
	l.Dirty = true
	l.Position = mgl32.Vec2{x, y}

	// Só a origem do cache; largura/altura vêm do SetupLight
	l.Bounds.X = x - l.OuterRadius
	l.Bounds.Y = y - l.OuterRadius
}

// SetupLight ativa um slot, aloca sua máscara e força um primeiro desenho.
func (p *Pool) SetupLight(slot int, x, y, radius float32) {
	l := &p.lights[slot]
	if l.mask != nil {
		l.mask.Unload()
	}

	l.Active = true
	l.Valid = false // A luz precisa provar que é válida no próximo UpdateLight
	w, h := p.backend.ScreenSize()
	l.mask = p.backend.NewMask(w, h)
	l.OuterRadius = radius

	l.Bounds.Width = radius * 2
	l.Bounds.Height = radius * 2

	p.MoveLight(slot, x, y)

	// Garante que a máscara nunca fique sem conteúdo
	p.DrawLightMask(slot)
}

// silhouetteEdge associa uma aresta da caixa ao teste de lado que decide se ela projeta sombra.
// O teste compara a luz com o ponto final da aresta, eixo a eixo: é uma aproximação, não visibilidade real.
type silhouetteEdge struct {
	start, end func(Rect) mgl32.Vec2
	casts      func(light, end mgl32.Vec2) bool
}

var silhouetteEdges = [4]silhouetteEdge{
	{Rect.TopLeft, Rect.TopRight, func(l, e mgl32.Vec2) bool { return l[1] > e[1] }},       // topo
	{Rect.TopRight, Rect.BottomRight, func(l, e mgl32.Vec2) bool { return l[0] < e[0] }},   // direita
	{Rect.BottomRight, Rect.BottomLeft, func(l, e mgl32.Vec2) bool { return l[1] < e[1] }}, // base
	{Rect.BottomLeft, Rect.TopLeft, func(l, e mgl32.Vec2) bool { return l[0] > e[0] }},     // esquerda
}

// UpdateLight reconstrói sombras e máscara de uma luz suja.
// Retorna false sem fazer nada se a luz está inativa ou limpa, e também quando
// o centro da luz está dentro de uma caixa (a luz fica inválida e a máscara antiga permanece).
func (p *Pool) UpdateLight(slot int, occluders []Rect) bool {
	l := &p.lights[slot]
	if !l.Active || !l.Dirty {
		return false
	}

	l.Dirty = false
	l.shadows = l.shadows[:0]
	l.Valid = false

	for _, box := range occluders {
		if box.Contains(l.Position) {
			return false
		}

		if !l.Bounds.Overlaps(box) {
			continue
		}

		for _, edge := range silhouetteEdges {
			ep := edge.end(box)
			if edge.casts(l.Position, ep) {
				p.ComputeShadowVolumeForEdge(slot, edge.start(box), ep)
			}
		}

		// A própria caixa
		p.appendShadow(l, ShadowGeometry{Vertices: [4]mgl32.Vec2{
			box.TopLeft(), box.BottomLeft(), box.BottomRight(), box.TopRight(),
		}})
	}

	l.Valid = true
	p.DrawLightMask(slot)
	return true
}

// ComputeShadowVolumeForEdge projeta a aresta sp→ep para longe da luz e guarda o quad.
func (p *Pool) ComputeShadowVolumeForEdge(slot int, sp, ep mgl32.Vec2) {
	l := &p.lights[slot]
	if len(l.shadows) >= p.maxShadows {
		return
	}

	// O dobro do raio sempre passa do alcance da luz
	extension := l.OuterRadius * 2

	spProjection := sp.Add(direction(l.Position, sp).Mul(extension))
	epProjection := ep.Add(direction(l.Position, ep).Mul(extension))

	l.shadows = append(l.shadows, ShadowGeometry{Vertices: [4]mgl32.Vec2{
		sp, ep, epProjection, spProjection,
	}})
}

func (p *Pool) appendShadow(l *Light, g ShadowGeometry) {
	if len(l.shadows) >= p.maxShadows {
		return
	}
	l.shadows = append(l.shadows, g)
}

// direction retorna o vetor unitário from→to, ou zero se os pontos coincidem.
func direction(from, to mgl32.Vec2) mgl32.Vec2 {
	d := to.Sub(from)
	if n := d.Len(); n > 0 {
		return d.Mul(1 / n)
	}
	return mgl32.Vec2{}
}

// DrawLightMask redesenha a máscara: disco de luz por mínimo de alfa e sombras por máximo.
func (p *Pool) DrawLightMask(slot int) {
	l := &p.lights[slot]
	if l.mask == nil {
		return
	}

	m := l.mask
	m.Begin()

	m.SetBlend(BlendAlphaMin)
	if l.Valid {
		m.DrawGradientDisc(l.Position, l.OuterRadius)
	}
	m.Flush()

	// Sombras devolvem o alfa ao máximo, recortando o disco
	m.SetBlend(BlendAlphaMax)
	for _, s := range l.shadows {
		m.DrawQuad(s)
	}
	m.Flush()

	m.SetBlend(BlendNormal)
	m.End()
}

// ReleaseLight desativa o slot e libera sua máscara.
func (p *Pool) ReleaseLight(slot int) {
	l := &p.lights[slot]
	if l.mask != nil {
		l.mask.Unload()
		l.mask = nil
	}
	l.Active = false
	l.Dirty = false
	l.Valid = false
	l.shadows = l.shadows[:0]
}

// Close libera as máscaras de todos os slots.
func (p *Pool) Close() {
	for i := range p.lights {
		if p.lights[i].mask != nil {
			p.lights[i].mask.Unload()
			p.lights[i].mask = nil
		}
		p.lights[i].Active = false
	}
}

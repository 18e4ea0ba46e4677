package app

import (
	"Studyio/shared/lighting"

	"github.com/go-gl/mathgl/mgl32"
)

// addLight ocupa o primeiro slot livre do pool com uma luz no mundo.
func (a *App) addLight(x, y, radius float32) (int, bool) {
	slot, ok := a.pool.NextFree()
	if !ok {
		return -1, false
	}
	wl := &worldLight{X: x, Y: y, Radius: radius, zoom: a.Cam.Zoom}
	a.lights[slot] = wl

	sp := a.Cam.WorldToScreen(mgl32.Vec2{x, y})
	a.pool.SetupLight(slot, sp[0], sp[1], radius*wl.zoom)
	return slot, true
}

func (a *App) removeLight(slot int) {
	a.pool.ReleaseLight(slot)
	a.lights[slot] = nil
}

// nearestLight devolve o slot da luz mais próxima de p (mundo).
func (a *App) nearestLight(p mgl32.Vec2) (int, bool) {
	best, bestDist := -1, float32(0)
	for slot, wl := range a.lights {
		if wl == nil {
			continue
		}
		d := mgl32.Vec2{wl.X, wl.Y}.Sub(p).Len()
		if best < 0 || d < bestDist {
			best, bestDist = slot, d
		}
	}
	return best, best >= 0
}

// resetupLights recria as máscaras (ex.: a janela mudou de tamanho).
func (a *App) resetupLights() {
	for slot, wl := range a.lights {
		if wl == nil {
			continue
		}
		wl.zoom = a.Cam.Zoom
		sp := a.Cam.WorldToScreen(mgl32.Vec2{wl.X, wl.Y})
		a.pool.SetupLight(slot, sp[0], sp[1], wl.Radius*wl.zoom)
	}
}

// toScreenRect converte uma caixa do mundo para a tela (a câmera não gira).
func (a *App) toScreenRect(r lighting.Rect) lighting.Rect {
	tl := a.Cam.WorldToScreen(r.TopLeft())
	return lighting.NewRect(tl[0], tl[1], r.Width*a.Cam.Zoom, r.Height*a.Cam.Zoom)
}

// updateLighting move as luzes para o espaço da tela, recalcula as sombras
// contra as caixas e os outros jogadores e compõe as máscaras.
func (a *App) updateLighting() {
	// A luz 0 acompanha o jogador (online) ou o mouse (offline)
	if wl := a.lights[0]; wl != nil {
		if a.Offline {
			p := a.Cam.ScreenToWorld(mouseScreen())
			wl.X, wl.Y = p[0], p[1]
		} else if pos, ok := a.ownPosition(); ok {
			wl.X, wl.Y = pos.X+PlayerSize/2, pos.Y+PlayerSize/2
		}
	}

	prev := a.occluders
	a.occluders = make([]lighting.Rect, 0, len(a.scene.Boxes)+1)
	for _, box := range a.scene.Boxes {
		a.occluders = append(a.occluders, a.toScreenRect(box))
	}
	players, myID, hasID, _ := a.snapshotPlayers()
	for id, p := range players {
		if hasID && id == myID {
			continue // A luz 0 nasce dentro do próprio jogador
		}
		a.occluders = append(a.occluders, a.toScreenRect(lighting.NewRect(p.X, p.Y, PlayerSize, PlayerSize)))
	}
	occludersMoved := !sameRects(prev, a.occluders)

	for slot, wl := range a.lights {
		if wl == nil {
			continue
		}
		sp := a.Cam.WorldToScreen(mgl32.Vec2{wl.X, wl.Y})

		// O raio na tela depende do zoom; a máscara é recriada quando ele muda
		if wl.zoom != a.Cam.Zoom {
			wl.zoom = a.Cam.Zoom
			a.pool.SetupLight(slot, sp[0], sp[1], wl.Radius*wl.zoom)
		} else if occludersMoved || a.pool.Light(slot).Position != sp {
			a.pool.MoveLight(slot, sp[0], sp[1])
		}

		a.pool.UpdateLight(slot, a.occluders)
	}

	a.compositor.Compose(a.pool)
}

func sameRects(a, b []lighting.Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

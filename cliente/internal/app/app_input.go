package app

import (
	"log"

	"Studyio/cliente/internal/camera"
	"Studyio/shared/protocol"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// mouseScreen devolve a posição do mouse na tela.
func mouseScreen() mgl32.Vec2 {
	m := rl.GetMousePosition()
	return mgl32.Vec2{m.X, m.Y}
}

// readControl lê WASD/setas e o ângulo do mouse em relação ao centro da tela.
func (a *App) readControl() protocol.Control {
	center := mgl32.Vec2{float32(rl.GetScreenWidth()) / 2, float32(rl.GetScreenHeight()) / 2}
	return protocol.Control{
		Up:    rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW),
		Down:  rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS),
		Left:  rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA),
		Right: rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD),
		Angle: camera.AimAngle(mouseScreen(), center),
	}
}

// updateInput processa entradas de teclado e mouse.
func (a *App) updateInput() {
	ctl := a.readControl()

	if a.Offline {
		// Mesmo passo do servidor, aplicado a cada frame
		dx, dy := ctl.Direction()
		speed := a.Config.PlayerSpeed * rl.GetFrameTime() * 30
		a.local.X += float32(dx) * speed
		a.local.Y += float32(dy) * speed
		a.local.Angle = ctl.Angle
	} else if nc := a.network(); nc != nil && nc.IsConnected() && a.tracker.Update(ctl) {
		if err := nc.SendControl(ctl); err != nil {
			a.tracker.Reset()
		}
	}

	// Nova luz no clique esquerdo
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		p := a.Cam.ScreenToWorld(mouseScreen())
		if slot, ok := a.addLight(p[0], p[1], a.Config.LightRadius); ok {
			log.Printf("[Lighting] Luz %d criada em (%.0f, %.0f)", slot, p[0], p[1])
		} else {
			log.Println("[Lighting] Pool de luzes cheio")
		}
	}

	// Remove a luz mais próxima no clique direito (a luz 0 é fixa)
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		p := a.Cam.ScreenToWorld(mouseScreen())
		if slot, ok := a.nearestLight(p); ok && slot != 0 {
			a.removeLight(slot)
			log.Printf("[Lighting] Luz %d removida", slot)
		}
	}

	// Toggle linhas de sombra
	if rl.IsKeyPressed(rl.KeyF1) {
		a.Config.ShowShadowLines = !a.Config.ShowShadowLines
	}

	// Toggle debug info
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

// updateCamera segue o jogador e aplica zoom.
func (a *App) updateCamera() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Cam.AddZoom(wheel)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Cam.Reset()
	}

	if pos, ok := a.ownPosition(); ok {
		a.Cam.Follow(mgl32.Vec2{pos.X, pos.Y}, rl.GetFrameTime())
	}
}

// ownPosition devolve a posição do jogador local (offline) ou a recebida do servidor.
func (a *App) ownPosition() (protocol.Position, bool) {
	if a.Offline {
		return a.local, true
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.hasID {
		return protocol.Position{}, false
	}
	pos, ok := a.players[a.myID]
	return pos, ok
}

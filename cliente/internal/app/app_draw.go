package app

import (
	"fmt"
	"math"
	"sort"

	"Studyio/cliente/internal/render"
	"Studyio/shared/protocol"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	players, myID, hasID, status := a.snapshotPlayers()

	rl.BeginMode2D(a.rlCamera())
	a.drawFloor()
	a.drawBoxes()
	a.drawPlayers(players, myID, hasID)
	rl.EndMode2D()

	// Máscara de sombras em espaço de tela, por cima do mundo
	a.compositor.Draw(a.Config.ShowShadowLines)
	if a.Config.ShowShadowLines {
		render.DrawShadowLines(a.pool)
	}
	a.drawLightMarkers()

	a.drawHUD(len(players), status)

	rl.EndDrawing()
}

// rlCamera converte a câmera para o tipo do raylib.
func (a *App) rlCamera() rl.Camera2D {
	return rl.Camera2D{
		Offset:   rl.Vector2{X: a.Cam.Offset[0], Y: a.Cam.Offset[1]},
		Target:   rl.Vector2{X: a.Cam.Target[0], Y: a.Cam.Target[1]},
		Rotation: a.Cam.Rotation,
		Zoom:     a.Cam.Zoom,
	}
}

// drawFloor desenha um xadrez na área visível para dar referência de movimento.
func (a *App) drawFloor() {
	const tile = 64
	tl := a.Cam.ScreenToWorld(mgl32.Vec2{0, 0})
	br := a.Cam.ScreenToWorld(mgl32.Vec2{float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())})

	x0 := int(math.Floor(float64(tl[0]) / tile))
	y0 := int(math.Floor(float64(tl[1]) / tile))
	x1 := int(math.Ceil(float64(br[0]) / tile))
	y1 := int(math.Ceil(float64(br[1]) / tile))

	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			c := rl.NewColor(60, 60, 70, 255)
			if (x+y)%2 == 0 {
				c = rl.NewColor(75, 75, 85, 255)
			}
			rl.DrawRectangle(int32(x*tile), int32(y*tile), tile, tile, c)
		}
	}
}

func (a *App) drawBoxes() {
	for _, b := range a.scene.Boxes {
		rl.DrawRectangleRec(rl.Rectangle{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, rl.DarkBlue)
	}
}

func (a *App) drawPlayers(players map[int]protocol.Position, myID int, hasID bool) {
	if a.Offline {
		players = map[int]protocol.Position{0: a.local}
		myID, hasID = 0, true
	}

	// Ordem estável para não piscar a sobreposição
	ids := make([]int, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		p := players[id]
		color := rl.Gray
		if hasID && id == myID {
			color = rl.Blue
		}
		rl.DrawRectangleRec(rl.Rectangle{X: p.X, Y: p.Y, Width: PlayerSize, Height: PlayerSize}, color)

		// Direção da mira
		center := rl.Vector2{X: p.X + PlayerSize/2, Y: p.Y + PlayerSize/2}
		rad := float64(p.Angle) * math.Pi / 180
		tip := rl.Vector2{
			X: center.X + float32(math.Cos(rad))*PlayerSize,
			Y: center.Y + float32(math.Sin(rad))*PlayerSize,
		}
		rl.DrawLineV(center, tip, rl.RayWhite)
		rl.DrawText(fmt.Sprint(id), int32(p.X)+4, int32(p.Y)+4, 10, rl.RayWhite)
	}
}

// drawLightMarkers marca a posição de cada luz (a luz 0 em amarelo).
func (a *App) drawLightMarkers() {
	for slot := 0; slot < a.pool.Len(); slot++ {
		l := a.pool.Light(slot)
		if !l.Active {
			continue
		}
		color := rl.White
		if slot == 0 {
			color = rl.Yellow
		}
		rl.DrawCircleV(rl.Vector2{X: l.Position[0], Y: l.Position[1]}, 10, color)
	}
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD(playerCount int, status string) {
	rl.DrawText("Clique esquerdo: nova luz | Direito: remove luz", 10, 10, 20, rl.White)
	rl.DrawText("WASD: mover | Scroll: zoom | R: reset | F1: linhas de sombra", 10, 35, 20, rl.White)

	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(260)
	height := int32(110)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	// FPS
	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	lights, shadows := 0, 0
	for slot := 0; slot < a.pool.Len(); slot++ {
		if l := a.pool.Light(slot); l.Active {
			lights++
			shadows += l.ShadowCount()
		}
	}
	rl.DrawText(fmt.Sprintf("Luzes: %d/%d  Sombras: %d", lights, a.pool.Len(), shadows), x+10, y+40, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Jogadores: %d  Zoom: %.2f", playerCount, a.Cam.Zoom), x+10, y+60, 14, rl.LightGray)

	statusColor := rl.Green
	if status != "Conectado" {
		statusColor = rl.Orange
	}
	rl.DrawText(status, x+10, y+80, 14, statusColor)
}

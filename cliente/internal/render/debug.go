package render

import (
	"Studyio/shared/lighting"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DrawShadowLines desenha o contorno das sombras e os limites de cada luz ativa (F1).
func DrawShadowLines(pool *lighting.Pool) {
	for i := 0; i < pool.Len(); i++ {
		l := pool.Light(i)
		if !l.Active {
			continue
		}
		for _, s := range pool.Shadows(i) {
			v := toVectors(s.Vertices[:])
			for j := range v {
				rl.DrawLineV(v[j], v[(j+1)%len(v)], rl.DarkPurple)
			}
		}

		b := l.Bounds
		color := rl.Yellow
		if !l.Valid {
			color = rl.Red
		}
		rl.DrawRectangleLinesEx(rl.Rectangle{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, 1, color)
	}
}

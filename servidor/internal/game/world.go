// Package game guarda o estado autoritativo dos jogadores no servidor.
package game

import (
	"sync"

	"Studyio/shared/protocol"
)

// SpawnX e SpawnY são a posição inicial de todo jogador.
const (
	SpawnX = 100
	SpawnY = 100
)

// DefaultSpeed é o deslocamento por tick com uma tecla pressionada.
const DefaultSpeed = 10

type player struct {
	pos    protocol.Position
	dx, dy int
}

// World é o conjunto de jogadores conectados. Seguro para uso concorrente:
// o loop de tick escreve posições e as conexões escrevem controles.
type World struct {
	mu      sync.RWMutex
	speed   float32
	players map[int]*player
}

// NewWorld cria um mundo vazio. speed <= 0 usa DefaultSpeed.
func NewWorld(speed float32) *World {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &World{
		speed:   speed,
		players: make(map[int]*player),
	}
}

// Join adiciona o jogador na posição inicial, parado.
// Um ID já presente é reposicionado.
func (w *World) Join(id int) protocol.Position {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := &player{pos: protocol.Position{X: SpawnX, Y: SpawnY}}
	w.players[id] = p
	return p.pos
}

// Leave remove o jogador e reporta se ele existia.
func (w *World) Leave(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	return true
}

// Has reporta se o ID está em uso.
func (w *World) Has(id int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.players[id]
	return ok
}

// ApplyControl guarda a direção e o ângulo do jogador. O movimento só acontece no Step.
func (w *World) ApplyControl(id int, c protocol.Control) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.dx, p.dy = c.Direction()
	p.pos.Angle = c.Angle
	return true
}

// Step avança todos os jogadores um tick e reporta se algum se moveu.
func (w *World) Step() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	moved := false
	for _, p := range w.players {
		if p.dx == 0 && p.dy == 0 {
			continue
		}
		p.pos.X += w.speed * float32(p.dx)
		p.pos.Y += w.speed * float32(p.dy)
		moved = true
	}
	return moved
}

// Position devolve a posição atual de um jogador.
func (w *World) Position(id int) (protocol.Position, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	p, ok := w.players[id]
	if !ok {
		return protocol.Position{}, false
	}
	return p.pos, true
}

// Snapshot copia as posições de todos os jogadores.
func (w *World) Snapshot() map[int]protocol.Position {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[int]protocol.Position, len(w.players))
	for id, p := range w.players {
		out[id] = p.pos
	}
	return out
}

// Len devolve o número de jogadores.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

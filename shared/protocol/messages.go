// Package protocol define as mensagens trocadas entre cliente e servidor pelo WebSocket.
package protocol

import "fmt"

// Type identifica o tipo de mensagem no envelope.
type Type int

const (
	TypeControl Type = iota + 1
	TypeWelcome
	TypePositions
	TypeDisconnect
)

func (t Type) String() string {
	switch t {
	case TypeControl:
		return "control"
	case TypeWelcome:
		return "welcome"
	case TypePositions:
		return "positions"
	case TypeDisconnect:
		return "disconnect"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Message é qualquer mensagem do protocolo.
type Message interface {
	Type() Type
}

// Control é o estado das teclas de movimento e o ângulo de mira enviado pelo cliente.
type Control struct {
	Up    bool    `json:"up"`
	Down  bool    `json:"down"`
	Left  bool    `json:"left"`
	Right bool    `json:"right"`
	Angle float32 `json:"angle"`
}

func (Control) Type() Type { return TypeControl }

// Direction converte as teclas em direção (-1, 0 ou 1 em cada eixo).
func (c Control) Direction() (dx, dy int) {
	return b2i(c.Right) - b2i(c.Left), b2i(c.Down) - b2i(c.Up)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Position é o estado público de um jogador.
type Position struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Angle float32 `json:"angle"`
}

// Welcome informa ao cliente o ID que o servidor atribuiu a ele.
type Welcome struct {
	PlayerID int
}

func (Welcome) Type() Type { return TypeWelcome }

// Positions é o snapshot de todos os jogadores conectados.
type Positions struct {
	Players map[int]Position
}

func (Positions) Type() Type { return TypePositions }

// Equal compara dois snapshots.
func (p Positions) Equal(o Positions) bool {
	if len(p.Players) != len(o.Players) {
		return false
	}
	for id, pos := range p.Players {
		if other, ok := o.Players[id]; !ok || other != pos {
			return false
		}
	}
	return true
}

// Disconnect avisa que um jogador saiu.
type Disconnect struct {
	PlayerID int
}

func (Disconnect) Type() Type { return TypeDisconnect }

// ControlTracker guarda o último Control enviado para só reenviar quando algo mudar.
type ControlTracker struct {
	last Control
	sent bool
}

// Update registra c e reporta se ele difere do último enviado.
func (t *ControlTracker) Update(c Control) bool {
	if t.sent && c == t.last {
		return false
	}
	t.last = c
	t.sent = true
	return true
}

// Reset força o próximo Update a reportar mudança (ex.: após reconectar).
func (t *ControlTracker) Reset() {
	t.sent = false
}

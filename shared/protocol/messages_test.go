package protocol

import "testing"

func TestDirection(t *testing.T) {
	tests := []struct {
		c      Control
		dx, dy int
	}{
		{Control{}, 0, 0},
		{Control{Up: true}, 0, -1},
		{Control{Down: true}, 0, 1},
		{Control{Left: true, Down: true}, -1, 1},
		{Control{Right: true, Up: true}, 1, -1},
		{Control{Left: true, Right: true, Up: true, Down: true}, 0, 0},
	}
	for _, tt := range tests {
		dx, dy := tt.c.Direction()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%+v.Direction() = (%d, %d), want (%d, %d)", tt.c, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestControlTracker(t *testing.T) {
	var tr ControlTracker

	if !tr.Update(Control{}) {
		t.Error("primeiro Update deveria reportar mudança")
	}
	if tr.Update(Control{}) {
		t.Error("Control repetido não deveria reportar mudança")
	}
	if !tr.Update(Control{Angle: 0.1}) {
		t.Error("mudança de ângulo deveria reportar mudança")
	}
	if !tr.Update(Control{Angle: 0.1, Up: true}) {
		t.Error("mudança de tecla deveria reportar mudança")
	}

	tr.Reset()
	if !tr.Update(Control{Angle: 0.1, Up: true}) {
		t.Error("após Reset deveria reportar mudança")
	}
}

func TestPositionsEqual(t *testing.T) {
	a := Positions{Players: map[int]Position{1: {X: 1}}}
	b := Positions{Players: map[int]Position{1: {X: 1}}}
	if !a.Equal(b) {
		t.Error("snapshots iguais")
	}
	b.Players[1] = Position{X: 2}
	if a.Equal(b) {
		t.Error("posição diferente")
	}
	b.Players = map[int]Position{2: {X: 1}}
	if a.Equal(b) {
		t.Error("IDs diferentes")
	}
	if !(Positions{}).Equal(Positions{Players: map[int]Position{}}) {
		t.Error("nil e vazio devem ser iguais")
	}
}

func TestTypeString(t *testing.T) {
	if TypePositions.String() != "positions" || Type(0).String() != "Type(0)" {
		t.Error("Type.String incorreto")
	}
}

package scene

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"Studyio/shared/lighting"
)

func TestDefaultLayout(t *testing.T) {
	l := Default(800, 450, 20, rand.New(rand.NewSource(1)))

	if len(l.Boxes) != 20 {
		t.Fatalf("len(Boxes) = %d, want 20", len(l.Boxes))
	}
	if l.Boxes[0] != (lighting.Rect{X: 150, Y: 80, Width: 40, Height: 40}) {
		t.Errorf("primeira caixa = %+v", l.Boxes[0])
	}
	for i, b := range l.Boxes[5:] {
		if b.X < 0 || b.X > 800 || b.Y < 0 || b.Y > 450 {
			t.Errorf("caixa %d fora da tela: %+v", i+5, b)
		}
		if b.Width < 10 || b.Width > 100 || b.Height < 10 || b.Height > 100 {
			t.Errorf("caixa %d com tamanho fora do intervalo: %+v", i+5, b)
		}
	}
	if len(l.Lights) != 1 || l.Lights[0].X != 400 || l.Lights[0].Y != 225 {
		t.Errorf("luz padrão = %+v", l.Lights)
	}
	if err := l.Validate(20, 16); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDefaultLayoutSmallCapacity(t *testing.T) {
	l := Default(800, 450, 3, rand.New(rand.NewSource(1)))
	if len(l.Boxes) != 3 {
		t.Errorf("len(Boxes) = %d, want 3", len(l.Boxes))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{"ok", Layout{Boxes: []lighting.Rect{{Width: 1, Height: 1}}, Lights: []LightDef{{Radius: 5}}}, false},
		{"caixas demais", Layout{Boxes: make([]lighting.Rect, 3)}, true},
		{"caixa vazia", Layout{Boxes: []lighting.Rect{{Width: 0, Height: 1}}}, true},
		{"raio zero", Layout{Lights: []LightDef{{Radius: 0}}}, true},
		{"luzes demais", Layout{Lights: []LightDef{{Radius: 1}, {Radius: 1}}}, true},
	}
	for _, tt := range tests {
		err := tt.layout.Validate(2, 1)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cena.yaml")
	in := Layout{
		Name:   "teste",
		Boxes:  []lighting.Rect{{X: 1, Y: 2, Width: 3, Height: 4}},
		Lights: []LightDef{{X: 10, Y: 20, Radius: 30}},
	}
	if err := in.Save(path); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if out.Name != "teste" || len(out.Boxes) != 1 || out.Boxes[0].Height != 4 || out.Lights[0].Radius != 30 {
		t.Errorf("Load() = %+v", out)
	}
}

func TestLoadHandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cena.yaml")
	data := `name: corredor
boxes:
  - {x: 100, y: 50, width: 20, height: 200}
lights:
  - {x: 40, y: 40, radius: 120}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if l.Boxes[0] != (lighting.Rect{X: 100, Y: 50, Width: 20, Height: 200}) {
		t.Errorf("caixa = %+v", l.Boxes[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nao_existe.yaml")); err == nil {
		t.Error("Load() de arquivo inexistente deveria falhar")
	}
}

// Package scene carrega e gera o layout de caixas (oclusores) e luzes da cena.
package scene

import (
	"fmt"
	"math/rand"
	"os"

	"Studyio/shared/lighting"

	"gopkg.in/yaml.v3"
)

// LightDef descreve uma luz inicial da cena.
type LightDef struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Radius float32 `yaml:"radius"`
}

// Layout é o conjunto de caixas e luzes de uma cena.
type Layout struct {
	Name   string          `yaml:"name"`
	Boxes  []lighting.Rect `yaml:"boxes"`
	Lights []LightDef      `yaml:"lights"`
}

// DefaultLightRadius é o raio da luz principal.
const DefaultLightRadius = 300

// fixedBoxes são as caixas que sempre aparecem na cena padrão.
var fixedBoxes = []lighting.Rect{
	{X: 150, Y: 80, Width: 40, Height: 40},
	{X: 1200, Y: 700, Width: 40, Height: 40},
	{X: 200, Y: 600, Width: 40, Height: 40},
	{X: 1000, Y: 50, Width: 40, Height: 40},
	{X: 500, Y: 350, Width: 40, Height: 40},
}

// Default gera a cena padrão: caixas fixas seguidas de caixas aleatórias até maxBoxes.
func Default(width, height, maxBoxes int, rng *rand.Rand) Layout {
	l := Layout{Name: "padrao"}

	for i := 0; i < maxBoxes && i < len(fixedBoxes); i++ {
		l.Boxes = append(l.Boxes, fixedBoxes[i])
	}
	for i := len(l.Boxes); i < maxBoxes; i++ {
		l.Boxes = append(l.Boxes, lighting.Rect{
			X:      float32(randRange(rng, 0, width)),
			Y:      float32(randRange(rng, 0, height)),
			Width:  float32(randRange(rng, 10, 100)),
			Height: float32(randRange(rng, 10, 100)),
		})
	}

	l.Lights = []LightDef{{X: float32(width) / 2, Y: float32(height) / 2, Radius: DefaultLightRadius}}
	return l
}

// randRange devolve um inteiro em [lo, hi], inclusivo como GetRandomValue do raylib.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Validate verifica se a cena cabe no pool de luzes.
func (l Layout) Validate(maxBoxes, maxLights int) error {
	if len(l.Boxes) > maxBoxes {
		return fmt.Errorf("cena %q tem %d caixas (máximo %d)", l.Name, len(l.Boxes), maxBoxes)
	}
	if len(l.Lights) > maxLights {
		return fmt.Errorf("cena %q tem %d luzes (máximo %d)", l.Name, len(l.Lights), maxLights)
	}
	for i, b := range l.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("caixa %d com tamanho inválido: %vx%v", i, b.Width, b.Height)
		}
	}
	for i, lt := range l.Lights {
		if lt.Radius <= 0 {
			return fmt.Errorf("luz %d com raio inválido: %v", i, lt.Radius)
		}
	}
	return nil
}

// Load lê uma cena YAML.
func Load(path string) (Layout, error) {
	var l Layout
	data, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("falha ao ler cena: %w", err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("falha ao decodificar cena %s: %w", path, err)
	}
	return l, nil
}

// Save grava a cena em YAML.
func (l Layout) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

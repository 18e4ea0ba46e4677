package scene

import (
	"fmt"
	"image"
	"io"

	"Studyio/shared/lighting"
)

// RenderMask rasteriza a máscara combinada da cena em CPU (sem janela).
// Preto é iluminado e branco é sombra, como no compositor da tela.
func RenderMask(l Layout, width, height int) (*image.Alpha, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tamanho de prévia inválido: %dx%d", width, height)
	}

	backend := &lighting.SoftwareBackend{Width: width, Height: height}
	pool, err := lighting.NewPool(backend, max(len(l.Lights), 1), max(len(l.Boxes), 1))
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	masks := make([]*lighting.SoftMask, 0, len(l.Lights))
	for slot, lt := range l.Lights {
		pool.SetupLight(slot, lt.X, lt.Y, lt.Radius)
		pool.UpdateLight(slot, l.Boxes)
		masks = append(masks, pool.Mask(slot).(*lighting.SoftMask))
	}

	out := image.NewAlpha(image.Rect(0, 0, width, height))
	lighting.Compose(out, masks...)
	return out, nil
}

// WritePreview grava a máscara da cena como PNG.
func WritePreview(w io.Writer, l Layout, width, height int) error {
	img, err := RenderMask(l, width, height)
	if err != nil {
		return err
	}
	return lighting.WritePNG(w, img)
}

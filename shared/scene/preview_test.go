package scene

import (
	"bytes"
	"image/png"
	"testing"

	"Studyio/shared/lighting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMask(t *testing.T) {
	l := Layout{
		Boxes:  []lighting.Rect{{X: 130, Y: 90, Width: 10, Height: 20}},
		Lights: []LightDef{{X: 100, Y: 100, Radius: 50}, {X: 300, Y: 100, Radius: 40}},
	}

	img, err := RenderMask(l, 400, 200)
	require.NoError(t, err)

	assert.Less(t, img.AlphaAt(100, 100).A, uint8(10), "centro da primeira luz")
	assert.Less(t, img.AlphaAt(300, 100).A, uint8(10), "centro da segunda luz")
	assert.Equal(t, uint8(255), img.AlphaAt(145, 100).A, "atrás da caixa")
	assert.Equal(t, uint8(255), img.AlphaAt(200, 190).A, "longe das luzes")
}

func TestRenderMaskNoLights(t *testing.T) {
	img, err := RenderMask(Layout{}, 10, 10)
	require.NoError(t, err)
	for _, a := range img.Pix {
		require.Equal(t, uint8(255), a)
	}
}

func TestRenderMaskInvalidSize(t *testing.T) {
	_, err := RenderMask(Layout{}, 0, 10)
	assert.Error(t, err)
}

func TestWritePreview(t *testing.T) {
	var buf bytes.Buffer
	l := Layout{Lights: []LightDef{{X: 20, Y: 20, Radius: 10}}}
	require.NoError(t, WritePreview(&buf, l, 40, 30))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

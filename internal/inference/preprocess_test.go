package inference

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"farmsphere/internal/config"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func webpBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, img, &webp.Options{Lossless: true}))
	return buf.Bytes()
}

func assertShape(t *testing.T, tensor Tensor, size int) {
	t.Helper()
	require.Len(t, tensor, size)
	for _, row := range tensor {
		require.Len(t, row, size)
		for _, px := range row {
			require.Len(t, px, 3)
		}
	}
}

func TestPreprocessor_RawPNG(t *testing.T) {
	t.Parallel()
	data := pngBytes(t, solidImage(300, 200, color.RGBA{R: 255, G: 128, B: 0, A: 255}))

	tensor, err := Preprocessor{Size: 160, Normalization: config.NormalizationRaw}.Tensor(data)
	require.NoError(t, err)
	assertShape(t, tensor, 160)

	px := tensor[80][80]
	assert.InDelta(t, 255, px[0], 1)
	assert.InDelta(t, 128, px[1], 1)
	assert.InDelta(t, 0, px[2], 1)
}

func TestPreprocessor_WebPWithTFRange(t *testing.T) {
	t.Parallel()
	data := webpBytes(t, solidImage(64, 64, color.RGBA{R: 255, G: 0, B: 0, A: 255}))

	tensor, err := Preprocessor{Size: 160, Normalization: config.NormalizationTF}.Tensor(data)
	require.NoError(t, err)
	assertShape(t, tensor, 160)

	for _, row := range tensor {
		for _, px := range row {
			for _, v := range px {
				require.GreaterOrEqual(t, v, float32(-1))
				require.LessOrEqual(t, v, float32(1))
			}
		}
	}
	assert.InDelta(t, 1, tensor[0][0][0], 0.01)
	assert.InDelta(t, -1, tensor[0][0][1], 0.01)
}

func TestPreprocessor_TorchNormalization(t *testing.T) {
	t.Parallel()
	p := Preprocessor{Size: 4, Normalization: config.NormalizationTorch}
	tensor := p.FromImage(solidImage(8, 8, color.RGBA{A: 255}))

	assertShape(t, tensor, 4)
	assert.InDelta(t, -0.485/0.229, tensor[1][1][0], 1e-4)
	assert.InDelta(t, -0.406/0.225, tensor[1][1][2], 1e-4)
}

func TestPreprocessor_InvalidImage(t *testing.T) {
	t.Parallel()
	p := Preprocessor{Size: 160}

	_, err := p.Tensor([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = p.Tensor(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

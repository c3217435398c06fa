package inference

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"farmsphere/internal/config"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidImage is returned for payloads that cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// Tensor is an image laid out as [height][width][channel].
type Tensor [][][]float32

var (
	torchMean = [3]float32{0.485, 0.456, 0.406}
	torchStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocessor resizes images to a square RGB tensor.
type Preprocessor struct {
	Size          int
	Normalization string
}

// Decode parses JPEG, PNG, GIF or WebP bytes.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// Tensor decodes data, resizes it with Catmull-Rom and normalizes every
// channel value.
func (p Preprocessor) Tensor(data []byte) (Tensor, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p.FromImage(img), nil
}

// FromImage converts an already decoded image. Alpha is discarded.
func (p Preprocessor) FromImage(img image.Image) Tensor {
	size := p.Size
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	out := make(Tensor, size)
	for y := 0; y < size; y++ {
		row := make([][]float32, size)
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			px := make([]float32, 3)
			for ch := 0; ch < 3; ch++ {
				px[ch] = p.normalize(ch, dst.Pix[i+ch])
			}
			row[x] = px
		}
		out[y] = row
	}
	return out
}

func (p Preprocessor) normalize(ch int, v uint8) float32 {
	f := float32(v)
	switch p.Normalization {
	case config.NormalizationTF:
		return f/127.5 - 1
	case config.NormalizationTorch:
		return (f/255 - torchMean[ch]) / torchStd[ch]
	default:
		// raw: EfficientNet models rescale internally.
		return f
	}
}

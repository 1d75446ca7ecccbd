// Package imageio loads images into flat sample buffers and stores them back.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"studyguide.parallel/blur5/pkg/common"
)

var (
	// ErrDecode is returned when an input image cannot be read or decoded.
	ErrDecode = errors.New("decode error")
	// ErrEncode is returned when an output image cannot be written.
	ErrEncode = errors.New("encode error")
)

// Load reads and decodes the image at path.
func Load(path string) (*common.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrDecode, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrDecode, path, err)
	}
	return FromImage(img), nil
}

// Store encodes img to path: JPEG for .jpg/.jpeg, PNG otherwise.
func Store(path string, img *common.Image) error {
	if err := img.Check(img.Pix); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create output file: %w", ErrEncode, err)
	}
	defer outFile.Close()

	out := ToImage(img)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(outFile, out, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(outFile, out)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", ErrEncode, path, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrEncode, path, err)
	}
	return nil
}

// FromImage flattens img. Grayscale images give one channel, opaque images
// three, and anything else four non-premultiplied RGBA channels.
func FromImage(img image.Image) *common.Image {
	bounds := img.Bounds()
	g := common.Geometry{Width: bounds.Dx(), Height: bounds.Dy()}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		g.Channels = 1
	default:
		g.Channels = 3
		if !isOpaque(img) {
			g.Channels = 4
		}
	}

	out := common.NewImage(g)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			switch g.Channels {
			case 1:
				out.Pix[i] = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			case 3:
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.R, c.G, c.B
			default:
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c.R, c.G, c.B, c.A
			}
			i += g.Channels
		}
	}
	return out
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// ToImage wraps a flat buffer as an image.Image suitable for encoding.
func ToImage(img *common.Image) image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)
	switch img.Channels {
	case 1:
		return &image.Gray{Pix: img.Pix, Stride: img.RowLen(), Rect: rect}
	case 4:
		return &image.NRGBA{Pix: img.Pix, Stride: img.RowLen(), Rect: rect}
	}

	out := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(img.Pix); i, j = i+img.Channels, j+4 {
		switch img.Channels {
		case 2:
			out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = img.Pix[i], img.Pix[i], img.Pix[i], img.Pix[i+1]
		default:
			out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = img.Pix[i], img.Pix[i+1], img.Pix[i+2], 0xff
		}
	}
	return out
}

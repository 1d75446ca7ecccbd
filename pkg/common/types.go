package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrGeometry is returned when a buffer does not match its geometry.
var ErrGeometry = errors.New("invalid image geometry")

// Geometry describes the shape of an interleaved sample buffer.
type Geometry struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`
}

// Len is the number of samples a buffer of this geometry holds.
func (g Geometry) Len() int {
	return g.Width * g.Height * g.Channels
}

// RowLen is the number of samples in one image row.
func (g Geometry) RowLen() int {
	return g.Width * g.Channels
}

// Index returns the sample offset of (row, col, ch).
func (g Geometry) Index(row, col, ch int) int {
	return (row*g.Width+col)*g.Channels + ch
}

// Validate checks the dimension invariants.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return errors.Wrapf(ErrGeometry, "dimensions %dx%d", g.Width, g.Height)
	}
	if g.Channels < 1 || g.Channels > 4 {
		return errors.Wrapf(ErrGeometry, "%d channels", g.Channels)
	}
	return nil
}

// Check validates g and verifies that buf holds exactly g.Len() samples.
func (g Geometry) Check(buf []byte) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if len(buf) != g.Len() {
		return errors.Wrapf(ErrGeometry, "buffer has %d samples, %v needs %d", len(buf), g, g.Len())
	}
	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dx%d", g.Width, g.Height, g.Channels)
}

// Image is a flat buffer of 8-bit samples, interleaved per pixel, rows top to bottom.
type Image struct {
	Pix []byte
	Geometry
}

// NewImage allocates a zeroed image of geometry g.
func NewImage(g Geometry) *Image {
	return &Image{Pix: make([]byte, g.Len()), Geometry: g}
}

// Filled allocates an image with every sample set to v.
func Filled(g Geometry, v byte) *Image {
	img := NewImage(g)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// Channel extracts channel ch as a single-channel image.
func (img *Image) Channel(ch int) *Image {
	out := NewImage(Geometry{Width: img.Width, Height: img.Height, Channels: 1})
	for i := range out.Pix {
		out.Pix[i] = img.Pix[i*img.Channels+ch]
	}
	return out
}

package blur

import (
	"fmt"

	"studyguide.parallel/blur5/pkg/common"
)

// Radius is the half-width of the blur5 window: 2*Radius+1 = 5 samples per axis.
const Radius = 2

// Kernel is a box-blur stencil of fixed radius.
type Kernel struct {
	radius int
}

// Blur5 is the 5x5 box blur every variant computes.
var Blur5 = NewKernel(Radius)

// NewKernel builds a box kernel with the given radius. Radius 0 is the identity.
func NewKernel(radius int) Kernel {
	if radius < 0 {
		panic(fmt.Sprintf("blur: negative radius %d", radius))
	}
	return Kernel{radius: radius}
}

// Radius returns the kernel radius.
func (k Kernel) Radius() int {
	return k.radius
}

// Size returns the window width along one axis.
func (k Kernel) Size() int {
	return 2*k.radius + 1
}

// window clamps [i-r, i+r] to [0, n).
func (k Kernel) window(i, n int) (lo, hi int) {
	lo, hi = i-k.radius, i+k.radius
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}

// average divides sum by count, rounding half up.
func average(sum, count uint32) uint8 {
	return uint8((sum + count/2) / count)
}

// Sample computes output sample (row, col, ch): the mean of channel ch over the
// window centred on (row, col), clamped to the image. Only in-bounds samples
// are counted, so the divisor shrinks near the edges.
func (k Kernel) Sample(src []byte, g common.Geometry, row, col, ch int) uint8 {
	rowLo, rowHi := k.window(row, g.Height)
	colLo, colHi := k.window(col, g.Width)

	var sum uint32
	for y := rowLo; y <= rowHi; y++ {
		for x := colLo; x <= colHi; x++ {
			sum += uint32(src[g.Index(y, x, ch)])
		}
	}
	count := uint32((rowHi - rowLo + 1) * (colHi - colLo + 1))
	return average(sum, count)
}

func mustMatch(dst, src []byte, g common.Geometry) {
	if err := g.Check(src); err != nil {
		panic(fmt.Sprintf("blur: source: %v", err))
	}
	if len(dst) != len(src) {
		panic(fmt.Sprintf("blur: destination has %d samples, source %d", len(dst), len(src)))
	}
}

// Sequential fills dst in row-major order on the calling goroutine.
func (k Kernel) Sequential(dst, src []byte, g common.Geometry) {
	mustMatch(dst, src, g)

	i := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			for ch := 0; ch < g.Channels; ch++ {
				dst[i] = k.Sample(src, g, row, col, ch)
				i++
			}
		}
	}
}

package blur

import (
	"studyguide.parallel/blur5/pkg/common"
	"studyguide.parallel/blur5/pkg/workerpool"
)

// Parallel is the tuned variant. Output rows are split into one balanced,
// contiguous band per pool worker; each band writes only its own rows.
//
// Inside a band the window bounds are clamped once per row and once per
// column, and all channels of a pixel are summed in one pass over the window
// into band-local accumulators. Every output sample still depends only on its
// own window, so the result is byte-identical to Sequential.
func (k Kernel) Parallel(pool *workerpool.Pool, dst, src []byte, g common.Geometry) {
	mustMatch(dst, src, g)

	pool.ParallelFor(g.Height, func(start, end int) {
		k.blurRows(dst, src, g, start, end)
	})
}

func (k Kernel) blurRows(dst, src []byte, g common.Geometry, start, end int) {
	var sums [4]uint32
	acc := sums[:g.Channels]
	stride := g.RowLen()

	for row := start; row < end; row++ {
		rowLo, rowHi := k.window(row, g.Height)
		rows := uint32(rowHi - rowLo + 1)
		out := dst[row*stride : (row+1)*stride]

		for col := 0; col < g.Width; col++ {
			colLo, colHi := k.window(col, g.Width)
			count := rows * uint32(colHi-colLo+1)

			clear(acc)
			for y := rowLo; y <= rowHi; y++ {
				line := src[y*stride+colLo*g.Channels : y*stride+(colHi+1)*g.Channels]
				for x := 0; x < len(line); x += g.Channels {
					for ch := range acc {
						acc[ch] += uint32(line[x+ch])
					}
				}
			}

			px := out[col*g.Channels : (col+1)*g.Channels]
			for ch := range acc {
				px[ch] = average(acc[ch], count)
			}
		}
	}
}

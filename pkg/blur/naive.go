package blur

import (
	"golang.org/x/sync/errgroup"

	"studyguide.parallel/blur5/pkg/common"
)

// Naive is the baseline parallel variant: one fresh goroutine per output row,
// each calling Sample for every sample in the row. No pool, no balancing.
func (k Kernel) Naive(dst, src []byte, g common.Geometry) {
	mustMatch(dst, src, g)

	var eg errgroup.Group
	for row := 0; row < g.Height; row++ {
		eg.Go(func() error {
			i := row * g.RowLen()
			for col := 0; col < g.Width; col++ {
				for ch := 0; ch < g.Channels; ch++ {
					dst[i] = k.Sample(src, g, row, col, ch)
					i++
				}
			}
			return nil
		})
	}
	eg.Wait()
}

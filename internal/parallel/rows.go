package parallel

// minRowsPerBand keeps tiny images from being split into more tasks than rows
// are worth.
const minRowsPerBand = 4

// Rows calls fn(y) for every y in [0, height) using the pool.
//
// Rows are grouped into contiguous bands, one or more per worker. fn must only
// write to memory owned by row y; Rows does no locking of its own. A nil pool
// runs every row on the calling goroutine.
func Rows(p *WorkerPool, height int, fn func(y int)) {
	if height <= 0 {
		return
	}
	if p == nil || p.Workers() == 1 || height < 2*minRowsPerBand {
		for y := range height {
			fn(y)
		}
		return
	}

	bands := min(p.Workers()*2, (height+minRowsPerBand-1)/minRowsPerBand)
	step := (height + bands - 1) / bands

	work := make([]func(), 0, bands)
	for start := 0; start < height; start += step {
		lo, hi := start, min(start+step, height)
		work = append(work, func() {
			for y := lo; y < hi; y++ {
				fn(y)
			}
		})
	}
	p.ExecuteAll(work)
}

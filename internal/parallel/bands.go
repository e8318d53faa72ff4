package parallel

// minBandRows keeps bands large enough that scheduling stays cheap relative
// to the per-pixel work.
const minBandRows = 8

// Band is a half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// SplitRows divides height rows into at most parts contiguous bands of at
// least minRows rows each (the last band may be shorter). The bands cover
// [0, height) exactly once and in order.
func SplitRows(height, parts, minRows int) []Band {
	if height <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if minRows < 1 {
		minRows = 1
	}
	rows := (height + parts - 1) / parts
	rows = max(rows, minRows)

	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}

// ForEachBand runs fn over row bands covering [0, height) and returns once
// all of them are done. With a nil pool the bands run sequentially on the
// calling goroutine.
//
// fn must only write rows inside its band; reads may go anywhere as long as
// they do not touch the buffer being written.
func ForEachBand(pool *WorkerPool, height int, fn func(y0, y1 int)) {
	if pool == nil || pool.Workers() == 1 {
		if height > 0 {
			fn(0, height)
		}
		return
	}

	// Two bands per worker keeps the queue fed while slow bands finish.
	bands := SplitRows(height, pool.Workers()*2, minBandRows)
	if len(bands) == 1 {
		fn(bands[0].Y0, bands[0].Y1)
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b.Y0, b.Y1) }
	}
	pool.ExecuteAll(work)
}

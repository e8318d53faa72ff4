package parallel

import (
	"slices"
	"sync"
	"testing"
)

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name                  string
		height, parts, minRow int
		want                  []Band
	}{
		{"even", 32, 4, 1, []Band{{0, 8}, {8, 16}, {16, 24}, {24, 32}}},
		{"uneven tail", 10, 3, 1, []Band{{0, 4}, {4, 8}, {8, 10}}},
		{"min rows wins", 32, 16, 8, []Band{{0, 8}, {8, 16}, {16, 24}, {24, 32}}},
		{"fewer rows than min", 5, 4, 8, []Band{{0, 5}}},
		{"zero parts", 6, 0, 1, []Band{{0, 6}}},
		{"empty", 0, 4, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRows(tt.height, tt.parts, tt.minRow)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitRows(%d, %d, %d) = %v, want %v",
					tt.height, tt.parts, tt.minRow, got, tt.want)
			}
		})
	}
}

func TestForEachBandCoversEveryRowOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	for _, p := range []*WorkerPool{nil, pool} {
		for _, height := range []int{1, 7, 8, 100, 257} {
			var mu sync.Mutex
			seen := make([]int, height)
			ForEachBand(p, height, func(y0, y1 int) {
				mu.Lock()
				defer mu.Unlock()
				for y := y0; y < y1; y++ {
					seen[y]++
				}
			})
			for y, n := range seen {
				if n != 1 {
					t.Fatalf("pool=%v height=%d: row %d visited %d times", p != nil, height, y, n)
				}
			}
		}
	}
}

func TestForEachBandZeroHeight(t *testing.T) {
	called := false
	ForEachBand(nil, 0, func(int, int) { called = true })
	if called {
		t.Error("fn should not run for zero height")
	}
}

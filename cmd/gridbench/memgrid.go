package main

import (
	"fmt"
	"sync"

	"github.com/phollemans/gridcore/src/chunk"
)

// memGrid is a synthetic in-memory pipeline.Grid over a double-precision
// buffer, used as the default producer/consumer backend so gridbench runs
// without any external dependency.
type memGrid struct {
	mu   sync.Mutex
	dims [2]int
	tile [2]int
	data []float64
}

func newMemGrid(dims, tile [2]int) *memGrid {
	return &memGrid{dims: dims, tile: tile, data: make([]float64, dims[0]*dims[1])}
}

func (g *memGrid) DataClass() chunk.Dtype                         { return chunk.DtypeDouble }
func (g *memGrid) TilingScheme() (dims, tileSize [2]int, ok bool) { return g.dims, g.tile, true }
func (g *memGrid) Scaling() (a, b float64, ok bool)               { return 0, 0, false }
func (g *memGrid) Missing() (value float64, ok bool)              { return 0, false }
func (g *memGrid) Unsigned() bool                                 { return false }

func (g *memGrid) GetData(start, length [2]int) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	buf := make([]float64, length[0]*length[1])
	for r := 0; r < length[0]; r++ {
		for c := 0; c < length[1]; c++ {
			buf[r*length[1]+c] = g.data[(start[0]+r)*g.dims[1]+(start[1]+c)]
		}
	}
	return buf, nil
}

func (g *memGrid) SetData(buf any, start, length [2]int) error {
	vals, ok := buf.([]float64)
	if !ok {
		return fmt.Errorf("memGrid.SetData: unexpected buffer type %T", buf)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for r := 0; r < length[0]; r++ {
		for c := 0; c < length[1]; c++ {
			g.data[(start[0]+r)*g.dims[1]+(start[1]+c)] = vals[r*length[1]+c]
		}
	}
	return nil
}

// fill seeds every grid cell via gen(row, col).
func (g *memGrid) fill(gen func(row, col int) float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for r := 0; r < g.dims[0]; r++ {
		for c := 0; c < g.dims[1]; c++ {
			g.data[r*g.dims[1]+c] = gen(r, c)
		}
	}
}

// Package resample reprojects one gridded dataset onto another grid's
// coordinate system, one destination chunk at a time, using an externally
// supplied coordinate map rather than any particular interpolation scheme.
package resample

import (
	"fmt"

	"github.com/phollemans/gridcore/src/bitmap"
	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
	"github.com/phollemans/gridcore/src/pipeline"
)

// ResamplingMap maps one destination coordinate to the corresponding
// source coordinate, or reports that the destination coordinate has no
// valid source (e.g. it falls outside the source grid's coverage).
type ResamplingMap interface {
	Map(dest []int) (src []int, ok bool)
}

// ResamplingMapFactory builds a ResamplingMap scoped to one destination
// chunk position — implementations may precompute per-chunk state (e.g. a
// local reprojection transform) rather than reprojecting from scratch for
// every element.
type ResamplingMapFactory interface {
	MapFor(pos chunking.Position) (ResamplingMap, error)
}

// Resampler fills destination chunks by looking up, for every destination
// element, which source element supplies its value.
type Resampler struct {
	Producer   pipeline.Producer
	Consumer   pipeline.Consumer
	MapFactory ResamplingMapFactory
}

// Resample fills and pushes one destination chunk at pos.
func (r *Resampler) Resample(pos chunking.Position) error {
	scheme, ok := r.Producer.NativeScheme()
	if !ok {
		scheme, ok = r.Consumer.NativeScheme()
	}
	if !ok {
		return ErrSchemeRequired
	}

	rm, err := r.MapFactory.MapFor(pos)
	if err != nil {
		return fmt.Errorf("resample: building map for position: %w", err)
	}

	n := pos.Values()
	dest := r.Consumer.PrototypeChunk().BlankCopyWithValues(n)
	mask := bitmap.NewBitmap(n)
	copier := chunk.NewCopier()
	cache := map[string]chunk.Chunk{}

	rank := len(pos.Length)
	destCoord := make([]int, rank)
	localCoord := make([]int, rank)

	for flat := 0; flat < n; flat++ {
		decomposeIndex(flat, pos.Length, localCoord)
		for i := range destCoord {
			destCoord[i] = pos.Start[i] + localCoord[i]
		}

		srcCoord, ok := rm.Map(destCoord)
		if !ok {
			mask.Set(flat, true)
			continue
		}

		srcPos, err := scheme.PositionFor(srcCoord)
		if err != nil {
			mask.Set(flat, true)
			continue
		}

		key := positionKey(srcPos)
		srcChunk, cached := cache[key]
		if !cached {
			srcChunk, err = r.Producer.GetChunk(srcPos)
			if err != nil {
				return fmt.Errorf("resample: fetching source chunk: %w", err)
			}
			cache[key] = srcChunk
		}

		srcLocal := flatIndex(srcCoord, srcPos)
		if err := copier.Copy(srcChunk, srcLocal, dest, flat); err != nil {
			return err
		}
	}

	if err := dest.Accept(chunk.NewFlagger(mask)); err != nil {
		return err
	}
	return r.Consumer.PutChunk(pos, dest)
}

// decomposeIndex turns a row-major flat index (last axis fastest) into
// per-axis local coordinates within a region of the given lengths.
func decomposeIndex(flat int, lengths []int, out []int) {
	for axis := len(lengths) - 1; axis >= 0; axis-- {
		out[axis] = flat % lengths[axis]
		flat /= lengths[axis]
	}
}

// flatIndex is decomposeIndex's inverse: given a global coordinate and the
// chunk position containing it, returns that chunk's local flat index.
func flatIndex(coord []int, pos chunking.Position) int {
	flat := 0
	stride := 1
	for axis := len(pos.Length) - 1; axis >= 0; axis-- {
		flat += (coord[axis] - pos.Start[axis]) * stride
		stride *= pos.Length[axis]
	}
	return flat
}

func positionKey(pos chunking.Position) string {
	return fmt.Sprint(pos.Start)
}

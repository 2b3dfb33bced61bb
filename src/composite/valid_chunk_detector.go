package composite

import (
	"github.com/phollemans/gridcore/src/bitmap"
	"github.com/phollemans/gridcore/src/chunk"
)

// ValidChunkDetector determines, per chunk, how complete it is — used up
// front by the map composite to skip entirely-invalid chunks, and by the
// reduction composite to decide whether it has enough usable (not
// entirely missing) inputs to bother running at all.
type ValidChunkDetector struct{}

// NewValidChunkDetector returns a ready-to-use detector. It carries no
// state of its own; each Detect call builds a fresh bitmap for the chunk
// handed to it.
func NewValidChunkDetector() *ValidChunkDetector {
	return &ValidChunkDetector{}
}

// Detect returns a bitmap of length c.Values() with a set bit at every
// missing element.
func (d *ValidChunkDetector) Detect(c chunk.Chunk) (*bitmap.Bitmap, error) {
	a := chunk.NewAccessor()
	if err := c.Accept(a); err != nil {
		return nil, err
	}
	n := c.Values()
	bm := bitmap.NewBitmap(n)
	for i := 0; i < n; i++ {
		bm.Set(i, a.IsMissing(i))
	}
	return bm, nil
}

// IsEntirelyValid reports whether c has no missing elements at all.
func (d *ValidChunkDetector) IsEntirelyValid(c chunk.Chunk) (bool, error) {
	bm, err := d.Detect(c)
	if err != nil {
		return false, err
	}
	return bm.Count() == 0, nil
}

// HasAnyValid reports whether c has at least one non-missing element,
// i.e. it is not entirely missing.
func (d *ValidChunkDetector) HasAnyValid(c chunk.Chunk) (bool, error) {
	bm, err := d.Detect(c)
	if err != nil {
		return false, err
	}
	return bm.Count() < c.Values(), nil
}

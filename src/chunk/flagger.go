package chunk

import (
	"math"

	"github.com/phollemans/gridcore/src/bitmap"
)

// Flagger stamps a boolean mask of missing positions into a chunk: the
// missing sentinel where one exists, NaN for float/double chunks without
// one. It is a no-op on an integer chunk that has no sentinel (there is no
// way to represent "missing" in its raw storage).
type Flagger struct {
	mask *bitmap.Bitmap
}

// NewFlagger builds a Flagger over the given mask (true = mark missing).
func NewFlagger(mask *bitmap.Bitmap) *Flagger {
	return &Flagger{mask: mask}
}

func (f *Flagger) VisitByte(c *ByteChunk) error {
	if c.missing == nil {
		return nil
	}
	for i := range c.data {
		if f.mask.Get(i) {
			c.data[i] = *c.missing
		}
	}
	return nil
}

func (f *Flagger) VisitShort(c *ShortChunk) error {
	if c.missing == nil {
		return nil
	}
	for i := range c.data {
		if f.mask.Get(i) {
			c.data[i] = *c.missing
		}
	}
	return nil
}

func (f *Flagger) VisitInt(c *IntChunk) error {
	if c.missing == nil {
		return nil
	}
	for i := range c.data {
		if f.mask.Get(i) {
			c.data[i] = *c.missing
		}
	}
	return nil
}

func (f *Flagger) VisitLong(c *LongChunk) error {
	if c.missing == nil {
		return nil
	}
	for i := range c.data {
		if f.mask.Get(i) {
			c.data[i] = *c.missing
		}
	}
	return nil
}

func (f *Flagger) VisitFloat(c *FloatChunk) error {
	for i := range c.data {
		if !f.mask.Get(i) {
			continue
		}
		if c.missing != nil {
			c.data[i] = *c.missing
		} else {
			c.data[i] = float32(math.NaN())
		}
	}
	return nil
}

func (f *Flagger) VisitDouble(c *DoubleChunk) error {
	for i := range c.data {
		if !f.mask.Get(i) {
			continue
		}
		if c.missing != nil {
			c.data[i] = *c.missing
		} else {
			c.data[i] = math.NaN()
		}
	}
	return nil
}

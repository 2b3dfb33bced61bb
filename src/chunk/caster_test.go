package chunk

import (
	"math"
	"testing"
)

func TestCastToFloat32MarksMissingAsNaN(t *testing.T) {
	// CastToFloat32 requires the chunk's external type to be DtypeFloat, so
	// exercise it against a packed byte chunk rather than a plain one.
	missing := int8(-1)
	p := FloatPacking{Scale: 1, Offset: 0}
	pc, err := NewByteChunk([]int8{1, missing, 3}, &missing, false, p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := CastToFloat32(pc)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(float64(out[0])) || !math.IsNaN(float64(out[1])) || math.IsNaN(float64(out[2])) {
		t.Errorf("CastToFloat32 missing pattern = %v, want NaN only at index 1", out)
	}
}

func TestCastFromFloat32RoundTrip(t *testing.T) {
	c, err := NewFloatChunk(make([]float32, 3), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	in := []float32{1, float32(math.NaN()), 3}
	if err := CastFromFloat32(c, in); err != nil {
		t.Fatal(err)
	}
	out, err := CastToFloat32(c)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 || !math.IsNaN(float64(out[1])) || out[2] != 3 {
		t.Errorf("round trip = %v, want [1 NaN 3]", out)
	}
}

func TestCastToFloat64MarksMissingAsNaN(t *testing.T) {
	c, err := NewDoubleChunk([]float64{1, math.NaN(), 3}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := CastToFloat64(c)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 || !math.IsNaN(out[1]) || out[2] != 3 {
		t.Errorf("CastToFloat64 = %v, want [1 NaN 3]", out)
	}
}

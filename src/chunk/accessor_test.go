package chunk

import (
	"math"
	"testing"
)

func TestAccessorPlainByte(t *testing.T) {
	missing := int8(-1)
	c, err := NewByteChunk([]int8{1, -1, 3}, &missing, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		t.Fatal(err)
	}
	if a.ExternalType() != DtypeByte {
		t.Fatalf("ExternalType() = %v, want %v", a.ExternalType(), DtypeByte)
	}
	if a.GetByteValue(0) != 1 {
		t.Errorf("GetByteValue(0) = %v, want 1", a.GetByteValue(0))
	}
	if !a.IsMissing(1) {
		t.Error("index 1 should be missing")
	}
	if a.IsMissing(0) || a.IsMissing(2) {
		t.Error("indices 0 and 2 should not be missing")
	}
}

func TestAccessorUnsignedByteWidensToShort(t *testing.T) {
	c, err := NewByteChunk([]int8{-1, 0, 1}, nil, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		t.Fatal(err)
	}
	if a.ExternalType() != DtypeShort {
		t.Fatalf("ExternalType() = %v, want %v", a.ExternalType(), DtypeShort)
	}
	if got := a.GetShortValue(0); got != 255 {
		t.Errorf("GetShortValue(0) = %v, want 255 (unsigned widen of -1)", got)
	}
}

func TestAccessorPackedFloat(t *testing.T) {
	p := FloatPacking{Scale: 2, Offset: 10}
	missing := int8(127)
	c, err := NewByteChunk([]int8{0, 10, missing}, &missing, false, p)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		t.Fatal(err)
	}
	if a.ExternalType() != DtypeFloat {
		t.Fatalf("ExternalType() = %v, want %v", a.ExternalType(), DtypeFloat)
	}
	want := []float32{(0 - 10) * 2, (10 - 10) * 2}
	for i, w := range want {
		if got := a.GetFloatValue(i); got != w {
			t.Errorf("GetFloatValue(%d) = %v, want %v", i, got, w)
		}
	}
	if !a.IsMissing(2) {
		t.Error("packed sentinel position should be missing")
	}
}

func TestAccessorFloatNaNIsMissing(t *testing.T) {
	c, err := NewFloatChunk([]float32{1, float32(math.NaN()), 3}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		t.Fatal(err)
	}
	if !a.IsMissing(1) {
		t.Error("NaN position should be reported missing")
	}
	if a.IsMissing(0) || a.IsMissing(2) {
		t.Error("non-NaN positions should not be missing")
	}
}

func TestAccessorDisallowedPackingPath(t *testing.T) {
	missing := int64(0)
	c, err := NewLongChunk([]int64{1, 2}, &missing, FloatPacking{Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err == nil {
		t.Fatal("expected an error unpacking a long chunk into float32")
	}
}

func TestAccessorGetWrongTypePanics(t *testing.T) {
	c, err := NewByteChunk([]int8{1}, nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAccessor()
	if err := c.Accept(a); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic calling GetFloatValue on a byte accessor")
		}
	}()
	a.GetFloatValue(0)
}

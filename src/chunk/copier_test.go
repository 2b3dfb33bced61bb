package chunk

import (
	"errors"
	"testing"
)

func TestCopierCopiesRawValue(t *testing.T) {
	src, err := NewByteChunk([]int8{1, 2, 3}, nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := NewByteChunk(make([]int8, 3), nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCopier()
	if err := c.Copy(src, 1, dst, 0); err != nil {
		t.Fatal(err)
	}
	if dst.data[0] != 2 {
		t.Errorf("dst.data[0] = %v, want 2", dst.data[0])
	}
}

func TestCopierVariantMismatch(t *testing.T) {
	src, err := NewByteChunk([]int8{1}, nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := NewShortChunk(make([]int16, 1), nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCopier()
	if err := c.Copy(src, 0, dst, 0); !errors.Is(err, errAppendTypeMismatch) {
		t.Fatalf("expected errAppendTypeMismatch, got %v", err)
	}
}

package gridstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"github.com/phollemans/gridcore/src/chunk"
)

// encodeTile serializes buf (one of []int8/[]int16/[]int32/[]int64/
// []float32/[]float64, the types pipeline.Grid.GetData/SetData pass
// around) to a snappy-compressed little-endian byte stream, the same way
// loader.go snappy-wraps a stripe writer before it ever touches the wire.
func encodeTile(buf any) ([]byte, error) {
	var raw bytes.Buffer
	if err := binary.Write(&raw, binary.LittleEndian, buf); err != nil {
		return nil, fmt.Errorf("gridstore: encoding tile: %w", err)
	}
	var out bytes.Buffer
	w := snappy.NewBufferedWriter(&out)
	if _, err := w.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("gridstore: compressing tile: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gridstore: closing compressed tile: %w", err)
	}
	return out.Bytes(), nil
}

// decodeTile is encodeTile's inverse: dt picks the Go element type and n
// is the element count expected (pos.Values() at the object's tile).
func decodeTile(dt chunk.Dtype, r io.Reader, n int) (any, error) {
	sr := snappy.NewReader(r)
	switch dt {
	case chunk.DtypeByte:
		buf := make([]int8, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	case chunk.DtypeShort:
		buf := make([]int16, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	case chunk.DtypeInt:
		buf := make([]int32, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	case chunk.DtypeLong:
		buf := make([]int64, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	case chunk.DtypeFloat:
		buf := make([]float32, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	case chunk.DtypeDouble:
		buf := make([]float64, n)
		if err := binary.Read(sr, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("gridstore: decoding tile: %w", err)
		}
		return buf, nil
	default:
		return nil, ErrUnsupportedDataClass
	}
}

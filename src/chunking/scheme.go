// Package chunking implements the n-dimensional tiling scheme that carves a
// logical grid shape into equal-size chunks with edge truncation, plus
// cursor operations (first/next/iterate) and containment queries over it.
package chunking

import "fmt"

// Scheme is an immutable partition of an r-dimensional logical space
// (Dims) into equal-size tiles (ChunkSize), edge-truncated at the high end
// of each axis. Axis 0 is major: Next advances the last axis fastest,
// matching row-major iteration order.
type Scheme struct {
	Dims      []int
	ChunkSize []int
}

// NewScheme validates and constructs a Scheme. ChunkSize[i] > Dims[i] is
// allowed and yields exactly one chunk of length Dims[i] along that axis.
func NewScheme(dims, chunkSize []int) (Scheme, error) {
	if len(dims) != len(chunkSize) {
		return Scheme{}, fmt.Errorf("%w: dims has rank %d, chunkSize has rank %d", ErrInvalidScheme, len(dims), len(chunkSize))
	}
	if len(dims) == 0 {
		return Scheme{}, fmt.Errorf("%w: rank must be at least 1", ErrInvalidScheme)
	}
	for i := range dims {
		if dims[i] <= 0 {
			return Scheme{}, fmt.Errorf("%w: dims[%d] = %d must be positive", ErrInvalidScheme, i, dims[i])
		}
		if chunkSize[i] <= 0 {
			return Scheme{}, fmt.Errorf("%w: chunkSize[%d] = %d must be positive", ErrInvalidScheme, i, chunkSize[i])
		}
	}
	return Scheme{Dims: append([]int(nil), dims...), ChunkSize: append([]int(nil), chunkSize...)}, nil
}

// Rank returns the number of dimensions.
func (s Scheme) Rank() int { return len(s.Dims) }

// ChunkCount returns the number of chunks along the given axis,
// ⌈Dims[axis]/ChunkSize[axis]⌉.
func (s Scheme) ChunkCount(axis int) int {
	return ceilDiv(s.Dims[axis], s.ChunkSize[axis])
}

// TotalChunks returns the product of ChunkCount over every axis.
func (s Scheme) TotalChunks() int {
	total := 1
	for i := range s.Dims {
		total *= s.ChunkCount(i)
	}
	return total
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Position is one chunk's placement within a Scheme: Start is its origin,
// Length its (possibly edge-truncated) extent along each axis.
type Position struct {
	Start  []int
	Length []int
}

// truncatedLength returns min(ChunkSize[axis], Dims[axis]-start).
func (s Scheme) truncatedLength(axis, start int) int {
	remaining := s.Dims[axis] - start
	if s.ChunkSize[axis] < remaining {
		return s.ChunkSize[axis]
	}
	return remaining
}

// First returns the position at the origin of the scheme.
func (s Scheme) First() Position {
	start := make([]int, s.Rank())
	length := make([]int, s.Rank())
	for i := range start {
		length[i] = s.truncatedLength(i, 0)
	}
	return Position{Start: start, Length: length}
}

// Next returns the lexicographic successor of pos (last axis fastest) and
// true, or a zero Position and false when pos is the final chunk.
func (s Scheme) Next(pos Position) (Position, bool) {
	start := append([]int(nil), pos.Start...)
	for axis := s.Rank() - 1; axis >= 0; axis-- {
		start[axis] += s.ChunkSize[axis]
		if start[axis] < s.Dims[axis] {
			length := make([]int, s.Rank())
			for i := range length {
				length[i] = s.truncatedLength(i, start[i])
			}
			return Position{Start: start, Length: length}, true
		}
		start[axis] = 0
	}
	return Position{}, false
}

// Iterate returns a closure-based, lazy, restartable cursor over every
// chunk position in order. Each call to the returned function yields the
// next position and true, or a zero Position and false once exhausted.
// Go 1.18 predates range-over-func, hence the func()(Position,bool) shape
// rather than an iter.Seq.
func (s Scheme) Iterate() func() (Position, bool) {
	started := false
	var cur Position
	return func() (Position, bool) {
		if !started {
			started = true
			cur = s.First()
			return cur, true
		}
		next, ok := s.Next(cur)
		if !ok {
			return Position{}, false
		}
		cur = next
		return cur, true
	}
}

// PositionFor returns the unique native position containing coords.
func (s Scheme) PositionFor(coords []int) (Position, error) {
	if len(coords) != s.Rank() {
		return Position{}, fmt.Errorf("%w: coords has rank %d, scheme has rank %d", errRankMismatch, len(coords), s.Rank())
	}
	start := make([]int, s.Rank())
	length := make([]int, s.Rank())
	for i, c := range coords {
		if c < 0 || c >= s.Dims[i] {
			return Position{}, fmt.Errorf("%w: coords[%d] = %d, dims[%d] = %d", ErrPositionOutOfRange, i, c, i, s.Dims[i])
		}
		start[i] = (c / s.ChunkSize[i]) * s.ChunkSize[i]
		length[i] = s.truncatedLength(i, start[i])
	}
	return Position{Start: start, Length: length}, nil
}

// IsNative reports whether pos.Start lies on a chunk boundary along every
// axis and pos.Length matches the edge-truncated size at that start.
func (s Scheme) IsNative(pos Position) bool {
	if len(pos.Start) != s.Rank() || len(pos.Length) != s.Rank() {
		return false
	}
	for i := range pos.Start {
		if pos.Start[i]%s.ChunkSize[i] != 0 {
			return false
		}
		if pos.Length[i] != s.truncatedLength(i, pos.Start[i]) {
			return false
		}
	}
	return true
}

// Values returns the number of primitive elements a chunk of this position
// holds: the product of its Length entries.
func (p Position) Values() int {
	n := 1
	for _, l := range p.Length {
		n *= l
	}
	return n
}

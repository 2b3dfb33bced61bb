// Package gridstore is a demonstration pipeline.Grid backed by Amazon S3:
// one compressed object per native tile, fetched and stored on demand.
package gridstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/phollemans/gridcore/src/chunk"
)

// S3API is the slice of the S3 client S3Grid needs — small enough to fake
// in tests without a real bucket, the same shape GetObject/PutObject are
// called in experiments/s3/minio-aws.go, just behind an interface so a
// test double can stand in for *s3.Client.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Grid is a pipeline.Grid backed by one S3 object per native tile. A
// region passed to GetData/SetData must align exactly to one tile —
// this store does no cross-tile stitching.
type S3Grid struct {
	Client S3API
	Bucket string
	Prefix string

	Dims     [2]int
	TileSize [2]int
	Dtype    chunk.Dtype

	HasScalingPair  bool
	ScaleA, ScaleB  float64
	HasMissingValue bool
	MissingValue    float64
	IsUnsigned      bool

	// Context is used for every S3 call; defaults to context.Background()
	// when nil.
	Context context.Context
}

func (g *S3Grid) ctx() context.Context {
	if g.Context != nil {
		return g.Context
	}
	return context.Background()
}

// DataClass reports the grid's raw primitive storage type.
func (g *S3Grid) DataClass() chunk.Dtype { return g.Dtype }

// TilingScheme reports the grid's native tile shape.
func (g *S3Grid) TilingScheme() (dims, tileSize [2]int, ok bool) {
	return g.Dims, g.TileSize, true
}

// Scaling reports the grid-level affine pair, if configured.
func (g *S3Grid) Scaling() (a, b float64, ok bool) {
	return g.ScaleA, g.ScaleB, g.HasScalingPair
}

// Missing reports the grid's missing-value sentinel, if configured.
func (g *S3Grid) Missing() (value float64, ok bool) {
	return g.MissingValue, g.HasMissingValue
}

// Unsigned reports whether integer storage should be treated as unsigned.
func (g *S3Grid) Unsigned() bool { return g.IsUnsigned }

// GetData downloads, decompresses and decodes the one tile object that
// exactly covers [start, start+length), thread-safe per the Grid contract
// since every call is independent and S3 objects are immutable per key.
func (g *S3Grid) GetData(start, length [2]int) (any, error) {
	if !g.isNativeTile(start, length) {
		return nil, ErrUnalignedRegion
	}
	key := g.objectKey(start)
	out, err := g.Client.GetObject(g.ctx(), &s3.GetObjectInput{
		Bucket: aws.String(g.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("gridstore: fetching %s: %w", key, err)
	}
	defer out.Body.Close()

	n := length[0] * length[1]
	buf, err := decodeTile(g.Dtype, out.Body, n)
	if err != nil {
		return nil, fmt.Errorf("gridstore: reading %s: %w", key, err)
	}
	return buf, nil
}

// SetData compresses and uploads buf as the tile object exactly covering
// [start, start+length).
func (g *S3Grid) SetData(buf any, start, length [2]int) error {
	if !g.isNativeTile(start, length) {
		return ErrUnalignedRegion
	}
	payload, err := encodeTile(buf)
	if err != nil {
		return err
	}
	key := g.objectKey(start)
	_, err = g.Client.PutObject(g.ctx(), &s3.PutObjectInput{
		Bucket: aws.String(g.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("gridstore: uploading %s: %w", key, err)
	}
	return nil
}

// isNativeTile reports whether [start, start+length) is exactly one
// (possibly edge-truncated) tile of this grid's tiling scheme.
func (g *S3Grid) isNativeTile(start, length [2]int) bool {
	for axis := 0; axis < 2; axis++ {
		if start[axis]%g.TileSize[axis] != 0 {
			return false
		}
		expected := g.TileSize[axis]
		if start[axis]+expected > g.Dims[axis] {
			expected = g.Dims[axis] - start[axis]
		}
		if length[axis] != expected {
			return false
		}
	}
	return true
}

// objectKey names the S3 object for the tile starting at start, one
// object per (row-tile, col-tile) pair.
func (g *S3Grid) objectKey(start [2]int) string {
	row := start[0] / g.TileSize[0]
	col := start[1] / g.TileSize[1]
	if g.Prefix == "" {
		return fmt.Sprintf("tile_%d_%d.bin", row, col)
	}
	return fmt.Sprintf("%s/tile_%d_%d.bin", g.Prefix, row, col)
}

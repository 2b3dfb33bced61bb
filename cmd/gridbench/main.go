// gridbench demonstrates the full producer -> collector -> function ->
// consumer pipeline end to end: it builds two synthetic input grids,
// evaluates an expression over them with a memory-budgeted worker pool,
// and writes the result to a third grid (in-memory, or S3 with -backend s3).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/phollemans/gridcore/src/chunk"
	"github.com/phollemans/gridcore/src/chunking"
	"github.com/phollemans/gridcore/src/exprfunc"
	"github.com/phollemans/gridcore/src/exprlang"
	"github.com/phollemans/gridcore/src/function"
	"github.com/phollemans/gridcore/src/gridstore"
	"github.com/phollemans/gridcore/src/pipeline"
	"github.com/phollemans/gridcore/src/pool"
)

// global, so that we can inject it at build time
var (
	gitCommit      string
	buildTime      string
	buildGoVersion string
)

func main() {
	dimsFlag := flag.String("dims", "256,256", "grid dimensions, rows,cols")
	tileFlag := flag.String("tile", "64,64", "native tile size, rows,cols")
	exprFlag := flag.String("expr", "a + b", "expression over variables a, b to evaluate at every element")
	maxMemoryMB := flag.Int("max-memory-mb", 512, "runtime memory budget, in MiB")
	workers := flag.Int("workers", runtime.NumCPU(), "maximum concurrent operations")
	backend := flag.String("backend", "mem", "output backend: mem or s3")
	bucket := flag.String("bucket", "", "S3 bucket name, required for -backend s3")
	prefix := flag.String("prefix", "gridbench", "S3 key prefix, for -backend s3")
	region := flag.String("region", "us-east-1", "AWS region, for -backend s3")
	version := flag.Bool("version", false, "print the binary's version")
	flag.Parse()

	if *version {
		fmt.Printf("build commit: %v\nbuild time: %v\ngo version: %v\n", gitCommit, buildTime, buildGoVersion)
		os.Exit(0)
	}

	log.Printf("starting up process %v", os.Getpid())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		defer signal.Stop(signals)

		select {
		case s := <-signals:
			log.Printf("signal %v received, aborting", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx, *dimsFlag, *tileFlag, *exprFlag, *maxMemoryMB, *workers, *backend, *bucket, *prefix, *region); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, dimsFlag, tileFlag, exprFlag string, maxMemoryMB, workers int, backend, bucket, prefix, region string) error {
	dims, err := parsePair(dimsFlag)
	if err != nil {
		return fmt.Errorf("-dims: %w", err)
	}
	tile, err := parsePair(tileFlag)
	if err != nil {
		return fmt.Errorf("-tile: %w", err)
	}

	gridA := newMemGrid(dims, tile)
	gridB := newMemGrid(dims, tile)
	gridA.fill(func(row, col int) float64 { return float64(row*dims[1] + col) })
	gridB.fill(func(row, col int) float64 { return float64(row - col) })

	producerA, err := pipeline.NewGridProducer(gridA)
	if err != nil {
		return err
	}
	producerB, err := pipeline.NewGridProducer(gridB)
	if err != nil {
		return err
	}
	availableProducers := map[string]pipeline.Producer{"a": producerA, "b": producerB}

	parser, err := exprlang.NewParser(exprFlag, map[string]chunk.Dtype{
		"a": chunk.DtypeDouble,
		"b": chunk.DtypeDouble,
	})
	if err != nil {
		return fmt.Errorf("parsing expression %q: %w", exprFlag, err)
	}

	// ExpressionFunction binds input chunks positionally to
	// parser.Variables(), so the collector's producer order must match
	// that exactly, whichever subset of a/b the expression actually uses.
	producers := make([]pipeline.Producer, len(parser.Variables()))
	for i, name := range parser.Variables() {
		p, ok := availableProducers[name]
		if !ok {
			return fmt.Errorf("expression references unknown variable %q", name)
		}
		producers[i] = p
	}
	collector := pipeline.NewCollector(producers)

	fn := &exprfunc.ExpressionFunction{Parser: parser, SkipMissing: true}

	consumerGrid, err := newConsumerGrid(ctx, backend, bucket, prefix, region, dims, tile)
	if err != nil {
		return err
	}
	consumer, err := pipeline.NewGridConsumer(consumerGrid)
	if err != nil {
		return err
	}

	comp := (&function.Computation{Collector: collector, Consumer: consumer, Function: fn}).Tracked(true)

	scheme, err := chunking.NewScheme(dims[:], tile[:])
	if err != nil {
		return err
	}

	var helper pool.Helper
	budget := int64(maxMemoryMB) * 1024 * 1024
	log.Printf("running %q over a %dx%d grid tiled %dx%d, budget %d MiB, up to %d workers",
		exprFlag, dims[0], dims[1], tile[0], tile[1], maxMemoryMB, workers)
	if err := helper.Run(scheme, comp, workers, budget, false); err != nil {
		return fmt.Errorf("running computation: %w", err)
	}

	t := comp.Timings()
	log.Printf("done: collector=%v function=%v consumer=%v", t.Collector, t.Function, t.Consumer)
	return nil
}

func newConsumerGrid(ctx context.Context, backend, bucket, prefix, region string, dims, tile [2]int) (pipeline.Grid, error) {
	switch backend {
	case "mem":
		return newMemGrid(dims, tile), nil
	case "s3":
		if bucket == "" {
			return nil, errors.New("-backend s3 requires -bucket")
		}
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return &gridstore.S3Grid{
			Client:   s3.NewFromConfig(cfg),
			Bucket:   bucket,
			Prefix:   prefix,
			Dims:     dims,
			TileSize: tile,
			Dtype:    chunk.DtypeDouble,
		}, nil
	default:
		return nil, fmt.Errorf("unknown -backend %q, want mem or s3", backend)
	}
}

// parsePair parses a "rows,cols" flag value into [2]int.
func parsePair(s string) ([2]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("want \"rows,cols\", got %q", s)
	}
	var out [2]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [2]int{}, fmt.Errorf("%q is not an integer: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

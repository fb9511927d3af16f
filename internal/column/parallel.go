package column

import (
	"context"
	"runtime"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkRows caps the number of rows handed to one worker.
const DefaultChunkRows = 64 * 1024

// ParallelOptions controls chunked parallel extraction.
type ParallelOptions struct {
	// Workers is the number of concurrent workers.
	// Default: runtime.NumCPU()
	Workers int

	// ChunkRows is the number of rows per chunk.
	// Default: the column split evenly across Workers, at most
	// DefaultChunkRows per chunk.
	ChunkRows int
}

// withDefaults fills unset fields for a column of n rows.
func (p ParallelOptions) withDefaults(n int) ParallelOptions {
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.ChunkRows <= 0 {
		p.ChunkRows = max(1, min(DefaultChunkRows, (n+p.Workers-1)/p.Workers))
	}
	return p
}

// ExtractParallel is Extract split over row chunks processed by a bounded
// pool of workers. All workers share m, which must be safe for concurrent
// use. The chunk results are concatenated in row order, so the output is
// identical to Extract.
func ExtractParallel(ctx context.Context, col Strings, m Matcher, group int, opts Options, popts ParallelOptions) (arrow.Array, error) {
	if err := CheckGroup(m, group); err != nil {
		return nil, err
	}
	if err := checkType(col.DataType()); err != nil {
		return nil, err
	}

	n := col.Len()
	popts = popts.withDefaults(n)
	if popts.Workers == 1 || n <= popts.ChunkRows {
		return Extract(col, m, group, opts)
	}

	numChunks := (n + popts.ChunkRows - 1) / popts.ChunkRows
	parts := make([]arrow.Array, numChunks)
	defer func() {
		for _, p := range parts {
			if p != nil {
				p.Release()
			}
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(popts.Workers)
	for i := 0; i < numChunks; i++ {
		lo := i * popts.ChunkRows
		hi := min(lo+popts.ChunkRows, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slice := array.NewSlice(col, int64(lo), int64(hi))
			defer slice.Release()

			chunk, err := AsStrings(slice)
			if err != nil {
				return err
			}
			out, err := Extract(chunk, m, group, opts)
			if err != nil {
				return err
			}
			parts[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return array.Concatenate(parts, opts.allocator())
}

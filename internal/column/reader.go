package column

import (
	"bufio"
	"bytes"
	"io"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ReaderOptions controls how BatchReader splits its input.
type ReaderOptions struct {
	// BatchRows is the maximum number of rows per batch.
	// Default: 4096
	BatchRows int

	// MaxLineBytes is the longest accepted line.
	// Default: 1MB
	MaxLineBytes int

	// Large produces large_utf8 batches instead of utf8.
	Large bool

	// Allocator for the batches. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator
}

// BatchReader reads newline separated records and returns them as Arrow
// string columns. A trailing "\r" is removed from each record.
type BatchReader struct {
	scanner *bufio.Scanner
	opts    ReaderOptions
	rows    int64 // records returned so far
}

// NewBatchReader creates a BatchReader over r.
func NewBatchReader(r io.Reader, opts ReaderOptions) *BatchReader {
	if opts.BatchRows <= 0 {
		opts.BatchRows = 4096
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = 1024 * 1024
	}
	if opts.Allocator == nil {
		opts.Allocator = memory.DefaultAllocator
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, opts.MaxLineBytes)), opts.MaxLineBytes)
	return &BatchReader{scanner: scanner, opts: opts}
}

// Next returns the next batch, or io.EOF once the input is exhausted.
// The caller owns the returned column.
func (br *BatchReader) Next() (Strings, error) {
	dt := arrow.DataType(arrow.BinaryTypes.String)
	if br.opts.Large {
		dt = arrow.BinaryTypes.LargeString
	}
	b, err := newBuilder(br.opts.Allocator, dt)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	b.Reserve(br.opts.BatchRows)
	for b.Len() < br.opts.BatchRows && br.scanner.Scan() {
		line := bytes.TrimSuffix(br.scanner.Bytes(), []byte{'\r'})
		b.Append(stringOf(line))
	}
	if err := br.scanner.Err(); err != nil {
		return nil, err
	}
	if b.Len() == 0 {
		return nil, io.EOF
	}

	br.rows += int64(b.Len())
	return AsStrings(b.NewArray())
}

// Rows returns the number of records returned so far.
func (br *BatchReader) Rows() int64 {
	return br.rows
}

// stringOf views b as a string without copying. Only used for values the
// builder copies straight away.
func stringOf(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

var _ Strings = (*array.String)(nil)
var _ Strings = (*array.LargeString)(nil)

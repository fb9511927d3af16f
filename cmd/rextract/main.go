// rextract - extract regular expression capture groups from text
//
// Reads newline separated records from files or stdin, extracts one
// capture group from each record and prints it, one line per record.
// Uses manual argument parsing so flags can be glued to their values (-g2).
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/scalar"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"github.com/kolkov/rextract"
	"github.com/kolkov/rextract/internal/column"
	"github.com/kolkov/rextract/udf"
)

// version can be overridden at build time via -ldflags.
var (
	version = rextract.Version
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: rextract [-g group] [-e] [-j N] [-b rows] [-n null] [-E engine] [-L] 'pattern' [file ...]"
	longUsage  = `Arguments:
  -g group          capture group to print (default 1, 0 = whole match)
  -e                print an empty line instead of the null marker when
                    a record does not match (Spark semantics)
  -n marker         text printed for null results (default "\N")

Performance options:
  -b rows           records per batch (default 4096)
  -j N              use N parallel workers per batch (default 1)
  -E engine         regex engine: go (default) or re2
  -L                read records as large_utf8 (for batches over 2GB)

Environment:
  REXTRACT_BATCH_ROWS, REXTRACT_WORKERS, REXTRACT_NULL, REXTRACT_ENGINE,
  REXTRACT_LARGE, REXTRACT_CACHE_SIZE, LOG_LEVEL (debug, info, warn, error)

Other:
  -h, --help        show this help message
  -version          show rextract version and exit
`
)

// envConfig holds defaults read from the environment. Flags override them.
type envConfig struct {
	BatchRows int    `env:"REXTRACT_BATCH_ROWS,default=4096"`
	Workers   int    `env:"REXTRACT_WORKERS,default=1"`
	Null      string `env:"REXTRACT_NULL,default=\\N"`
	Engine    string `env:"REXTRACT_ENGINE,default=go"`
	Large     bool   `env:"REXTRACT_LARGE,default=false"`
	CacheSize int    `env:"REXTRACT_CACHE_SIZE,default=16"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

// options is the effective configuration after flags are applied.
type options struct {
	group          int
	emptyOnNoMatch bool
	batchRows      int
	workers        int
	nullMarker     string
	engine         rextract.Engine
	large          bool
}

//nolint:gocyclo,funlen // CLI argument parsing is inherently long
func main() {
	ctx := context.Background()

	var env envConfig
	if err := envconfig.Process(ctx, &env); err != nil {
		errorExitf("invalid environment: %v", err)
	}

	opts := options{
		group:      1,
		batchRows:  env.BatchRows,
		workers:    env.Workers,
		nullMarker: env.Null,
		large:      env.Large,
	}
	engine, err := parseEngine(env.Engine)
	if err != nil {
		errorExitf("invalid REXTRACT_ENGINE: %v", err)
	}
	opts.engine = engine

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-g", "-b", "-j", "-n", "-E":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: %s", arg)
			}
			i++
			applyValueFlag(arg, os.Args[i], &opts)
		case "-e":
			opts.emptyOnNoMatch = true
		case "-L":
			opts.large = true
		case "-h", "--help":
			fmt.Printf("rextract %s - regular expression group extractor\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("rextract version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Println("  regex:  go regexp, re2 (wasilibs/go-re2)")
			os.Exit(0)
		default:
			// Handle flags with no space: -g2, -j4, -b1000, -nNULL, -Ere2
			switch {
			case len(arg) > 2 && strings.ContainsRune("gbjnE", rune(arg[1])):
				applyValueFlag(arg[:2], arg[2:], &opts)
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	args := os.Args[i:]
	if len(args) == 0 {
		errorExitf(shortUsage)
	}
	pattern := args[0]
	inputFiles := args[1:]

	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(env.LogLevel)}))
	ctx = clog.WithLogger(ctx, logger)

	// Fail on a bad pattern or group before reading any input.
	cache := rextract.NewCache(env.CacheSize, &rextract.CompileConfig{Engine: opts.engine})
	m, _, err := cache.Get(pattern)
	if err != nil {
		errorExit(err)
	}
	if opts.group > m.Groups() {
		errorExit(&rextract.GroupRangeError{Group: opts.group, Groups: m.Groups()})
	}

	reg := newRegistry(cache, opts)

	// Determine input source
	var input io.Reader
	if len(inputFiles) == 0 {
		input = os.Stdin
	} else {
		readers := make([]io.Reader, 0, len(inputFiles))
		for _, f := range inputFiles {
			if f == "-" {
				readers = append(readers, os.Stdin)
				continue
			}
			file, err := os.Open(f)
			if err != nil {
				errorExitf("cannot open file %s: %v", f, err)
			}
			defer file.Close()
			readers = append(readers, file)
		}
		input = io.MultiReader(readers...)
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	br := column.NewBatchReader(input, column.ReaderOptions{BatchRows: opts.batchRows, Large: opts.large})
	patternArg := compute.NewDatum(scalar.NewStringScalar(pattern))
	groupArg := compute.NewDatum(scalar.NewInt64Scalar(int64(opts.group)))

	for {
		batch, err := br.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stdout.Flush()
			errorExitf("read error: %v", err)
		}

		if err := runBatch(ctx, reg, batch, patternArg, groupArg, opts.nullMarker, stdout); err != nil {
			stdout.Flush()
			errorExit(err)
		}
	}

	logger.Debugf("processed %d records with %s engine, %d cached patterns", br.Rows(), opts.engine, cache.Len())
}

// newRegistry registers regexp_extract configured from opts.
func newRegistry(cache *rextract.Cache, opts options) *udf.Registry {
	reg := udf.NewRegistry()
	reg.MustRegister(udf.NewRegexpExtract(&udf.RegexpExtractConfig{
		Cache: cache,
		Extract: &rextract.Config{
			EmptyOnNoMatch: opts.emptyOnNoMatch,
			Parallel:       opts.workers,
		},
	}))
	return reg
}

// runBatch extracts the group from one batch and prints the result.
func runBatch(ctx context.Context, reg *udf.Registry, batch column.Strings, patternArg, groupArg compute.Datum, nullMarker string, w io.Writer) error {
	input := compute.NewDatum(batch)
	batch.Release()
	defer input.Release()

	res, err := reg.Call(ctx, udf.RegexpExtractName, input, patternArg, groupArg)
	if err != nil {
		return err
	}
	defer res.Release()

	arr := res.(*compute.ArrayDatum).MakeArray()
	defer arr.Release()
	return writeColumn(w, arr, nullMarker)
}

// writeColumn prints one line per row, nullMarker for nulls.
func writeColumn(w io.Writer, arr arrow.Array, nullMarker string) error {
	col, err := column.AsStrings(arr)
	if err != nil {
		return err
	}
	for i := 0; i < col.Len(); i++ {
		v := nullMarker
		if col.IsValid(i) {
			v = col.Value(i)
		}
		if _, err := io.WriteString(w, v); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// applyValueFlag stores the value of a flag that takes an argument.
func applyValueFlag(flag, value string, opts *options) {
	switch flag {
	case "-g":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			errorExitf("invalid group: %s", value)
		}
		opts.group = n
	case "-b":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			errorExitf("invalid batch size: %s", value)
		}
		opts.batchRows = n
	case "-j":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			errorExitf("invalid number of workers: %s", value)
		}
		opts.workers = n
	case "-n":
		opts.nullMarker = value
	case "-E":
		engine, err := parseEngine(value)
		if err != nil {
			errorExitf("%v", err)
		}
		opts.engine = engine
	}
}

func parseEngine(s string) (rextract.Engine, error) {
	switch strings.ToLower(s) {
	case "go", "":
		return rextract.EngineGo, nil
	case "re2":
		return rextract.EngineRE2, nil
	}
	return 0, fmt.Errorf("unknown engine %q, want go or re2", s)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// errorExitf prints formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "rextract: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "rextract: %v\n", err)
	os.Exit(1)
}

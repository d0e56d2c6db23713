// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

// Package bench implements the -b N benchmark mode: repeatedly compress and
// decompress a fixed set of chunks, keep the best throughput observed
// across BenchTests trials per direction, and verify every decompressed
// chunk matches its original. Ported from lzm.c's benchmark/benchmark_level,
// with clock_gettime/CLOCK_MONOTONIC_RAW replaced by time.Now/time.Since,
// the single-threaded per-chunk loop replaced by a JekaMas/workerpool fan-out
// (spec's concurrency model: distinct EncodeState/DecodeState handles on
// separate goroutines, one handle per worker, never shared), and verbose
// per-trial printf output replaced by logrus debug-level logging.
package bench

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JekaMas/workerpool"
	"github.com/sirupsen/logrus"

	"github.com/lzmcodec/lzm"
)

// DefaultTrials and DefaultTrialDuration match lzm.c's BENCH_TESTS (10) and
// BENCH_TIME (3 seconds in nanoseconds).
const (
	DefaultTrials        = 10
	MaxTrials            = 100
	DefaultTrialDuration = 3 * time.Second
)

// ErrCorruption is returned when a decompressed chunk does not match its
// original, matching benchmark_level's "corruption" check.
var ErrCorruption = errors.New("bench: decompressed chunk does not match original")

// Config tunes one benchmark run.
type Config struct {
	Format        lzm.Format
	Trials        int           // BenchTests; 0 selects DefaultTrials.
	TrialDuration time.Duration // minimum wall time per trial; 0 selects DefaultTrialDuration.
	Workers       int           // goroutines fanning out chunk work; 0 selects 1.
	Logger        *logrus.Logger // per-trial rate logging; nil disables it.
}

// logTrial emits one trial's throughput at debug level, matching
// benchmark_level's "if (args->verbose) printf(rate)" per-trial output.
func (cfg Config) logTrial(direction string, trial int, rateMBs float64) {
	if cfg.Logger == nil {
		return
	}
	cfg.Logger.WithFields(logrus.Fields{
		"direction": direction,
		"trial":     trial,
	}).Debugf("%.4f MB/s", rateMBs)
}

// Result reports one level's timing, matching benchmark_level's printed
// line: compressed size, compression ratio, and the best observed
// throughput in each direction.
type Result struct {
	Level          lzm.Level
	CompressedSize int64
	RatioPercent   float64
	CompressMBs    float64
	DecompressMBs  float64
}

// chunk holds one benchmarked piece of data. comp and out are allocated
// once at full capacity and never reslice; compLen/outLen record how much
// of each was actually used by the most recent Encode/Decode call. Keeping
// the slice headers at full length across iterations matters: reslicing
// comp down to n bytes would shrink len(out) for the *next* Encode call,
// tripping outputMatch/outputLiterals' headroom check even though the
// fixed-size backing array still has plenty of room.
type chunk struct {
	orig    []byte
	comp    []byte
	compLen int
	out     []byte
	outLen  int
}

// RunLevel benchmarks one level against data, split into chunkSize pieces
// (the last possibly shorter), matching benchmark_init_chunk's per-chunk
// buffer setup and benchmark_level's two timed loops.
func RunLevel(data []byte, chunkSize uint32, level lzm.Level, cfg Config) (Result, error) {
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Trials > MaxTrials {
		cfg.Trials = MaxTrials
	}
	if cfg.TrialDuration <= 0 {
		cfg.TrialDuration = DefaultTrialDuration
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Format == 0 {
		cfg.Format = lzm.FormatLZM1
	}

	chunks := splitChunks(data, chunkSize)
	totalBytes := int64(len(data))

	compRate, compSize, err := timeCompress(chunks, level, cfg)
	if err != nil {
		return Result{}, err
	}

	decompRate, err := timeDecompress(chunks, cfg)
	if err != nil {
		return Result{}, err
	}

	if err := verify(chunks); err != nil {
		return Result{}, err
	}

	ratio := float64(0)
	if totalBytes > 0 {
		ratio = float64(compSize) * 100 / float64(totalBytes)
	}

	return Result{
		Level:          level,
		CompressedSize: compSize,
		RatioPercent:   ratio,
		CompressMBs:    compRate,
		DecompressMBs:  decompRate,
	}, nil
}

func splitChunks(data []byte, chunkSize uint32) []*chunk {
	if chunkSize == 0 {
		chunkSize = uint32(len(data))
		if chunkSize == 0 {
			chunkSize = 1
		}
	}

	var chunks []*chunk
	for off := 0; off < len(data); off += int(chunkSize) {
		end := off + int(chunkSize)
		if end > len(data) {
			end = len(data)
		}
		orig := data[off:end]
		chunks = append(chunks, &chunk{
			orig: orig,
			comp: make([]byte, lzm.CompressedSize(uint32(len(orig)))),
			out:  make([]byte, len(orig)),
		})
	}
	if len(chunks) == 0 {
		chunks = append(chunks, &chunk{orig: []byte{}, comp: make([]byte, lzm.CompressedSize(0)), out: []byte{}})
	}
	return chunks
}

// forEachChunk fans work out across the given handles on wp: each task
// takes a handle from a free list for the duration of its call and hands
// it back afterwards, so a handle is reused call after call but never used
// by two tasks at once. wp is
// created once per benchmarked direction and reused across every trial and
// iteration (via Submit+WaitGroup rather than StopWait, so the pool itself
// never gets torn down mid-benchmark and pool setup never pollutes the
// timed region).
func forEachChunk(wp *workerpool.WorkerPool, chunks []*chunk, handles []any, do func(h any, c *chunk) error) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(chunks))
	free := make(chan any, len(handles))
	for _, h := range handles {
		free <- h
	}

	for _, c := range chunks {
		c := c
		wg.Add(1)
		wp.Submit(func() {
			defer wg.Done()
			h := <-free
			errs <- do(h, c)
			free <- h
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func timeCompress(chunks []*chunk, level lzm.Level, cfg Config) (rateMBs float64, compSize int64, err error) {
	handles := make([]any, cfg.Workers)
	for i := range handles {
		enc, err := lzm.EncodeInit(cfg.Format, level)
		if err != nil {
			return 0, 0, err
		}
		handles[i] = enc
	}
	defer func() {
		for _, h := range handles {
			h.(*lzm.EncodeState).Finish()
		}
	}()

	wp := workerpool.New(len(handles))
	defer wp.StopWait()

	best := 0.0
	for t := 0; t < cfg.Trials; t++ {
		iterations := 0
		start := time.Now()
		var elapsed time.Duration

		for {
			err := forEachChunk(wp, chunks, handles, func(h any, c *chunk) error {
				enc := h.(*lzm.EncodeState)
				n, err := enc.Encode(c.orig, c.comp)
				if err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				c.compLen = n
				return nil
			})
			if err != nil {
				return 0, 0, err
			}
			iterations++
			elapsed = time.Since(start)
			if elapsed >= cfg.TrialDuration {
				break
			}
		}

		rate := megabytesPerSecond(totalOrigBytes(chunks), iterations, elapsed)
		cfg.logTrial("compress", t, rate)
		if rate > best {
			best = rate
		}
	}

	for _, c := range chunks {
		compSize += int64(c.compLen)
	}
	return best, compSize, nil
}

func timeDecompress(chunks []*chunk, cfg Config) (float64, error) {
	handles := make([]any, cfg.Workers)
	for i := range handles {
		dec, err := lzm.DecodeInit(cfg.Format)
		if err != nil {
			return 0, err
		}
		handles[i] = dec
	}
	defer func() {
		for _, h := range handles {
			h.(*lzm.DecodeState).Finish()
		}
	}()

	wp := workerpool.New(len(handles))
	defer wp.StopWait()

	best := 0.0
	for t := 0; t < cfg.Trials; t++ {
		iterations := 0
		start := time.Now()
		var elapsed time.Duration

		for {
			err := forEachChunk(wp, chunks, handles, func(h any, c *chunk) error {
				dec := h.(*lzm.DecodeState)
				n, err := dec.Decode(c.comp[:c.compLen], c.out)
				if err != nil {
					return fmt.Errorf("decode: %w", err)
				}
				c.outLen = n
				return nil
			})
			if err != nil {
				return 0, err
			}
			iterations++
			elapsed = time.Since(start)
			if elapsed >= cfg.TrialDuration {
				break
			}
		}

		rate := megabytesPerSecond(totalOrigBytes(chunks), iterations, elapsed)
		cfg.logTrial("decompress", t, rate)
		if rate > best {
			best = rate
		}
	}
	return best, nil
}

func verify(chunks []*chunk) error {
	for _, c := range chunks {
		if c.outLen != len(c.orig) {
			return fmt.Errorf("%w: size mismatch, expected %d got %d", ErrCorruption, len(c.orig), c.outLen)
		}
		for i := range c.orig {
			if c.orig[i] != c.out[i] {
				return fmt.Errorf("%w: at offset %d", ErrCorruption, i)
			}
		}
	}
	return nil
}

func totalOrigBytes(chunks []*chunk) int64 {
	var n int64
	for _, c := range chunks {
		n += int64(len(c.orig))
	}
	return n
}

func megabytesPerSecond(bytes int64, iterations int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes*int64(iterations)) / 1e6 / elapsed.Seconds()
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/JekaMas/workerpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lzmcodec/lzm"
	"github.com/lzmcodec/lzm/internal/bench"
	"github.com/lzmcodec/lzm/internal/container"
)

// suffix is SUFFIX from lzm.h: appended on compress, required and stripped
// on decompress.
const suffix = ".lzm"

// globalState groups every piece of process-external state a command run
// touches, so tests can swap in an in-memory filesystem and buffers
// instead of the real ones. Modeled on k6's globalState/newGlobalState
// split (cmd/root.go), scaled down to what this CLI actually needs.
type globalState struct {
	fs             afero.Fs
	stdout, stderr io.Writer
	stdin          io.Reader
	logger         *logrus.Logger
}

func newGlobalState() *globalState {
	return &globalState{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
		logger: newLogger(os.Stderr, false),
	}
}

// cliFlags holds the raw values pflag writes into, mirroring
// compress_args's fields one-for-one.
type cliFlags struct {
	level0, level1, level2, level3, level4, level5, level6 bool
	benchTests                                              int
	console                                                 bool
	decompress                                              bool
	clobber                                                 bool
	keep                                                    bool
	recurse                                                 bool
	test                                                    bool
	verbose                                                 bool
	chunkSizeKB                                             uint32
}

// runConfig is the resolved, validated form of cliFlags, built once before
// the positional filename arguments are processed (matching main()'s single
// compress_args reused across every optind..argc filename).
type runConfig struct {
	format     lzm.Format
	level      lzm.Level
	levelGiven bool
	compress   bool
	console    bool
	clobber    bool
	keep       bool
	recurse    bool
	test       bool
	benchmark  bool
	benchTests int
	chunkSize  uint32
}

// newRootCommand builds the single, subcommand-less cobra.Command this CLI
// exposes: flags mirror getopt's "0123456b:cdfhkrtvx:" string.
func newRootCommand(gs *globalState) *cobra.Command {
	flags := &cliFlags{
		benchTests:  bench.DefaultTrials,
		chunkSizeKB: container.DefaultChunkSize / 1024,
	}

	cmd := &cobra.Command{
		Use:           "lzm [flags] <files...>",
		Short:         "compress or decompress files with the lzm chunked codec",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gs.logger = newLogger(gs.stderr, flags.verbose)

			cfg, err := resolveConfig(flags, cmd.Flags().Changed("bench"))
			if err != nil {
				return err
			}

			return processPaths(gs, cfg, args)
		},
	}

	fs := cmd.Flags()
	bindLevelFlags(fs, flags)
	fs.IntVarP(&flags.benchTests, "bench", "b", flags.benchTests, "benchmark mode, running <tests> timed trials per level")
	fs.BoolVarP(&flags.console, "stdout", "c", false, "write output to stdout")
	fs.BoolVarP(&flags.decompress, "decompress", "d", false, "decompress file")
	fs.BoolVarP(&flags.clobber, "force", "f", false, "overwrite output file")
	fs.BoolVarP(&flags.keep, "keep", "k", false, "keep (don't remove) input file")
	fs.BoolVarP(&flags.recurse, "recursive", "r", false, "recurse into directories")
	fs.BoolVarP(&flags.test, "test", "t", false, "test compressed file")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "be verbose")
	fs.Uint32VarP(&flags.chunkSizeKB, "chunk-size", "x", flags.chunkSizeKB, "chunk size for compression (KB)")

	return cmd
}

// bindLevelFlags registers -0 through -6 as independent boolean switches.
// getopt's "last flag wins" behavior (case '0'..'6': args.level = c - '0')
// can't be reproduced exactly through pflag's flat Changed() bookkeeping,
// which does not record argv order; when more than one level flag is
// given, the highest numbered one wins instead.
func bindLevelFlags(fs *pflag.FlagSet, flags *cliFlags) {
	fs.BoolVarP(&flags.level0, "0", "0", false, "no compression")
	fs.BoolVarP(&flags.level1, "1", "1", false, "fast compression (default)")
	fs.BoolVarP(&flags.level2, "2", "2", false, "high compression")
	fs.BoolVarP(&flags.level3, "3", "3", false, "high compression")
	fs.BoolVarP(&flags.level4, "4", "4", false, "high compression")
	fs.BoolVarP(&flags.level5, "5", "5", false, "high compression")
	fs.BoolVarP(&flags.level6, "6", "6", false, "high compression")
}

func resolveLevel(flags *cliFlags) (lzm.Level, bool) {
	switch {
	case flags.level6:
		return lzm.LevelHigh6, true
	case flags.level5:
		return lzm.LevelHigh5, true
	case flags.level4:
		return lzm.LevelHigh4, true
	case flags.level3:
		return lzm.LevelHigh3, true
	case flags.level2:
		return lzm.LevelHigh2, true
	case flags.level1:
		return lzm.LevelFast, true
	case flags.level0:
		return lzm.LevelNone, true
	default:
		return lzm.LevelFast, false
	}
}

func resolveConfig(flags *cliFlags, benchmarkRequested bool) (*runConfig, error) {
	level, levelGiven := resolveLevel(flags)

	if flags.chunkSizeKB >= (1 << 22) {
		return nil, fmt.Errorf("chunk size too large")
	}
	chunkSize := flags.chunkSizeKB * 1024

	benchTests := flags.benchTests
	if benchmarkRequested {
		if benchTests <= 0 || benchTests > bench.MaxTrials {
			return nil, fmt.Errorf("tests must be non-zero and max %d", bench.MaxTrials)
		}
	}

	return &runConfig{
		format:     lzm.FormatLZM1,
		level:      level,
		levelGiven: levelGiven,
		compress:   !flags.decompress,
		console:    flags.console,
		clobber:    flags.clobber,
		keep:       flags.keep,
		recurse:    flags.recurse,
		test:       flags.test,
		benchmark:  benchmarkRequested,
		benchTests: benchTests,
		chunkSize:  chunkSize,
	}, nil
}

// processPaths fans the command-line filename arguments out across a
// worker pool: each is independent (its own file, its own container
// Reader/Writer and therefore its own EncodeState/DecodeState handle), so
// this is the "distinct handles on separate goroutines" concurrency the
// engine allows, one worker per in-flight file rather than per chunk.
func processPaths(gs *globalState, cfg *runConfig, filenames []string) error {
	workers := runtime.NumCPU()
	if workers > len(filenames) {
		workers = len(filenames)
	}
	if workers < 1 {
		workers = 1
	}

	wp := workerpool.New(workers)
	defer wp.StopWait()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, filename := range filenames {
		filename := filename
		wg.Add(1)
		wp.Submit(func() {
			defer wg.Done()
			if err := processPath(gs, cfg, filename); err != nil {
				gs.logger.Errorf("%s: %v", filename, err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return firstErr
}

// processPath dispatches a single command-line argument: "-" means stdin,
// a directory recurses (if allowed), anything else is a regular file.
// Mirrors process_path.
func processPath(gs *globalState, cfg *runConfig, filename string) error {
	if filename == "-" {
		return processStdin(gs, cfg)
	}

	info, err := gs.fs.Stat(filename)
	if err != nil {
		return fmt.Errorf("cannot stat: %w", err)
	}

	if info.IsDir() {
		if !cfg.recurse {
			return fmt.Errorf("is a directory")
		}
		files, err := walkFiles(gs.fs, filename)
		if err != nil {
			return err
		}
		var firstErr error
		for _, f := range files {
			fi, err := gs.fs.Stat(f)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if err := processFile(gs, cfg, f, fi); err != nil {
				gs.logger.Errorf("%s: %v", f, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}
	return processFile(gs, cfg, filename, info)
}

func outputFilename(filename string, compress bool) (string, error) {
	if compress {
		return filename + suffix, nil
	}
	if !strings.HasSuffix(filename, suffix) {
		return "", fmt.Errorf("unknown file type")
	}
	return strings.TrimSuffix(filename, suffix), nil
}

// processFile opens filename, routes it to benchmarking or
// compress/decompress, and removes the input on success unless -k or -t
// was given. Mirrors process_file.
func processFile(gs *globalState, cfg *runConfig, filename string, info os.FileInfo) error {
	if info.Size() == 0 {
		return fmt.Errorf("zero size, skipping")
	}

	in, err := gs.fs.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer in.Close()

	if cfg.benchmark {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		return benchmarkFile(gs, cfg, filename, data)
	}

	var out io.Writer
	var outName string
	var removeOnFailure func()

	switch {
	case cfg.test:
		out = io.Discard
		outName = "(discarded)"
	case cfg.console:
		out = gs.stdout
		outName = "(stdout)"
	default:
		name, err := outputFilename(filename, cfg.compress)
		if err != nil {
			return err
		}
		if _, err := gs.fs.Stat(name); err == nil {
			if !cfg.clobber {
				return fmt.Errorf("not overwriting existing file %s", name)
			}
			if err := gs.fs.Remove(name); err != nil {
				return fmt.Errorf("cannot remove %s: %w", name, err)
			}
		}
		f, err := gs.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		out = f
		outName = name
		removeOnFailure = func() { gs.fs.Remove(name) }
	}

	var procErr error
	if cfg.compress && !cfg.test {
		procErr = compressStream(in, out, cfg)
	} else {
		procErr = decompressStream(in, out, cfg)
	}
	if procErr != nil {
		if removeOnFailure != nil {
			removeOnFailure()
		}
		return procErr
	}

	gs.logger.Debugf("%s -> %s", filename, outName)

	if !cfg.keep && !cfg.test {
		if err := gs.fs.Remove(filename); err != nil {
			return fmt.Errorf("cannot remove: %w", err)
		}
	}
	return nil
}

func processStdin(gs *globalState, cfg *runConfig) error {
	var out io.Writer = io.Discard
	if !cfg.test {
		out = gs.stdout
	}

	var procErr error
	if cfg.compress && !cfg.test {
		procErr = compressStream(gs.stdin, out, cfg)
	} else {
		procErr = decompressStream(gs.stdin, out, cfg)
	}
	return procErr
}

func compressStream(in io.Reader, out io.Writer, cfg *runConfig) error {
	w, err := container.NewWriter(out, cfg.format, cfg.level, cfg.chunkSize)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	_, err = w.Close()
	return err
}

func decompressStream(in io.Reader, out io.Writer, cfg *runConfig) error {
	r, err := container.NewReader(in)
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return nil
}

// benchmarkFile runs -b mode: every level if none was given explicitly,
// otherwise just the chosen one, matching benchmark()'s LZM_LEVEL_DEF
// fallback to iterating LZM_LEVEL_NONE..LZM_LEVEL_COUNT.
func benchmarkFile(gs *globalState, cfg *runConfig, filename string, data []byte) error {
	fmt.Fprintf(gs.stdout, "File %s: size %d bytes\n", filename, len(data))

	levels := []lzm.Level{cfg.level}
	if !cfg.levelGiven {
		levels = []lzm.Level{
			lzm.LevelNone, lzm.LevelFast, lzm.LevelHigh2, lzm.LevelHigh3,
			lzm.LevelHigh4, lzm.LevelHigh5, lzm.LevelHigh6,
		}
	}

	bcfg := bench.Config{
		Format:  cfg.format,
		Trials:  cfg.benchTests,
		Workers: 1,
		Logger:  gs.logger,
	}

	for _, level := range levels {
		res, err := bench.RunLevel(data, cfg.chunkSize, level, bcfg)
		if err != nil {
			if errors.Is(err, bench.ErrCorruption) {
				return fmt.Errorf("level %d: %w", level, err)
			}
			return err
		}
		fmt.Fprintf(gs.stdout, "level %d: %d bytes, ratio %.1f%%, compress %.2f MB/s, decompress %.2f MB/s\n",
			level, res.CompressedSize, res.RatioPercent, res.CompressMBs, res.DecompressMBs)
	}
	return nil
}

// Execute builds and runs the root command against the real process
// environment; cmd/lzm/main.go is the only caller.
func Execute() error {
	gs := newGlobalState()
	cmd := newRootCommand(gs)
	return cmd.Execute()
}

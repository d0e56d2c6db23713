// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

// Package corpus generates synthetic literal/match byte streams for
// exercising the engine's match finders with a known, tunable literal/match
// mix, instead of uniform crypto/rand noise that never produces a match.
// Ported from lzdata.c's gen_literal/gen_match/generate_data.
package corpus

import (
	"fmt"
	"math/rand/v2"
)

// Config tunes the generator, matching lzdata.c's lzdata_args fields (file
// size and chunk size are the caller's concern, not the generator's).
type Config struct {
	MinLitLen     uint32
	MaxLitLen     uint32
	MinMatchLen   uint32
	MaxMatchLen   uint32
	MinOffset     uint32
	MaxOffset     uint32
	MatchProb     float64
	LitLenScale   float64
	MatchLenScale float64
	Seed          uint64
}

// DefaultConfig mirrors lzdata.c's constant defaults (MIN_LIT_LEN, MATCH_PROB,
// LEN_SCALE, MIN_MATCH), with the Max* fields set to chunkSize.
func DefaultConfig(chunkSize uint32) Config {
	return Config{
		MinLitLen:     1,
		MaxLitLen:     chunkSize,
		MinMatchLen:   4,
		MaxMatchLen:   chunkSize,
		MinOffset:     1,
		MaxOffset:     chunkSize,
		MatchProb:     0.67,
		LitLenScale:   2.0,
		MatchLenScale: 2.0,
	}
}

// Stats accumulates the literal/match counters lzdata.c reports with
// --verbose.
type Stats struct {
	Literals     uint64
	Matches      uint64
	LiteralBytes uint64
	MatchBytes   uint64
}

// DupeRatio returns the percentage (0-100) of output bytes produced by a
// match (lzdata.c's "dupe data %" figure), 0 if nothing was generated.
func (s Stats) DupeRatio() float64 {
	total := s.LiteralBytes + s.MatchBytes
	if total == 0 {
		return 0
	}
	return float64(s.MatchBytes) / float64(total) * 100
}

// Generator produces synthetic chunks from a seeded, reproducible PRNG.
// Not safe for concurrent use; give each goroutine its own Generator.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	stats Stats
}

// New validates cfg and returns a Generator seeded from cfg.Seed.
func New(cfg Config) (*Generator, error) {
	if cfg.MinLitLen == 0 || cfg.MinLitLen > cfg.MaxLitLen {
		return nil, fmt.Errorf("corpus: invalid literal length range [%d,%d]", cfg.MinLitLen, cfg.MaxLitLen)
	}
	if cfg.MinMatchLen == 0 || cfg.MinMatchLen > cfg.MaxMatchLen {
		return nil, fmt.Errorf("corpus: invalid match length range [%d,%d]", cfg.MinMatchLen, cfg.MaxMatchLen)
	}
	if cfg.MinOffset == 0 || cfg.MinOffset > cfg.MaxOffset {
		return nil, fmt.Errorf("corpus: invalid offset range [%d,%d]", cfg.MinOffset, cfg.MaxOffset)
	}
	if cfg.MatchProb < 0 || cfg.MatchProb > 1 {
		return nil, fmt.Errorf("corpus: invalid match probability %v", cfg.MatchProb)
	}
	if cfg.LitLenScale < 0 || cfg.MatchLenScale < 0 {
		return nil, fmt.Errorf("corpus: length scales must be non-negative")
	}

	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Stats returns the counters accumulated across every Generate call so far.
func (g *Generator) Stats() Stats { return g.stats }

// Generate fills buf entirely with a literal/match mix, matching
// generate_data: an opening literal run at least MinOffset bytes long (so
// the first match always has somewhere valid to reference), then a
// match-or-literal draw per position until near the end, then a closing
// literal run short enough a match wouldn't fit.
func (g *Generator) Generate(buf []byte) Stats {
	size := uint32(len(buf))
	pos := uint32(0)

	for pos < g.cfg.MinOffset && pos < size {
		pos = g.genLiteral(buf, pos, size)
	}

	for size >= g.cfg.MinMatchLen-1 && pos < size-(g.cfg.MinMatchLen-1) {
		if g.rng.Float64() < g.cfg.MatchProb {
			pos = g.genMatch(buf, pos, size)
		} else {
			pos = g.genLiteral(buf, pos, size)
		}
	}

	for pos < size {
		pos = g.genLiteral(buf, pos, size)
	}

	return g.stats
}

// lengthDraw implements lzdata.c's length formula: scale/(1-u) - scale +
// min, a heavy-tailed draw that is usually close to min but occasionally
// much longer, clamped to max and to whatever room remains before size.
func lengthDraw(rng *rand.Rand, scale float64, min, max, pos, size uint32) uint32 {
	u := rng.Float64()
	length := uint32(scale/(1-u) - scale + float64(min))

	if length > max {
		length = max
	}
	if pos+length > size {
		length = size - pos
	}
	return length
}

func (g *Generator) genLiteral(buf []byte, pos, size uint32) uint32 {
	length := lengthDraw(g.rng, g.cfg.LitLenScale, g.cfg.MinLitLen, g.cfg.MaxLitLen, pos, size)

	g.stats.Literals++
	g.stats.LiteralBytes += uint64(length)

	end := pos + length
	for pos < end {
		buf[pos] = byte(g.rng.Uint32())
		pos++
	}
	return pos
}

func (g *Generator) genMatch(buf []byte, pos, size uint32) uint32 {
	length := lengthDraw(g.rng, g.cfg.MatchLenScale, g.cfg.MinMatchLen, g.cfg.MaxMatchLen, pos, size)

	maxOff := g.cfg.MaxOffset
	if maxOff > pos {
		maxOff = pos
	}
	offset := g.cfg.MinOffset
	if span := maxOff - g.cfg.MinOffset + 1; span > 0 {
		offset += uint32(g.rng.Uint64() % uint64(span))
	}

	g.stats.Matches++
	g.stats.MatchBytes += uint64(length)

	end := pos + length
	src := pos - offset
	for pos < end {
		buf[pos] = buf[src]
		pos++
		src++
	}
	return pos
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package corpus

import (
	"math"
	"testing"
)

func TestGenerate_FillsEntireBuffer(t *testing.T) {
	cfg := DefaultConfig(8192)
	cfg.Seed = 1

	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf := make([]byte, 8192)
	stats := g.Generate(buf)

	if stats.LiteralBytes+stats.MatchBytes != uint64(len(buf)) {
		t.Fatalf("byte accounting mismatch: literal=%d match=%d want=%d",
			stats.LiteralBytes, stats.MatchBytes, len(buf))
	}
}

func TestGenerate_HighMatchProbProducesMatches(t *testing.T) {
	cfg := Config{
		MinLitLen: 4, MaxLitLen: 64,
		MinMatchLen: 4, MaxMatchLen: 64,
		MinOffset: 1, MaxOffset: 256,
		MatchProb: 0.9, LitLenScale: 2.0, MatchLenScale: 2.0,
		Seed: 42,
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf := make([]byte, 4096)
	stats := g.Generate(buf)

	if stats.Matches == 0 {
		t.Fatal("expected at least one match with MatchProb=0.9")
	}
	if stats.DupeRatio() <= 0 {
		t.Fatal("expected positive dupe ratio")
	}
}

func TestGenerate_MatchProbScalesDupeRatio(t *testing.T) {
	low := Config{
		MinLitLen: 4, MaxLitLen: 32,
		MinMatchLen: 4, MaxMatchLen: 32,
		MinOffset: 1, MaxOffset: 128,
		MatchProb: 0.1, LitLenScale: 2.0, MatchLenScale: 2.0,
		Seed: 7,
	}
	high := low
	high.MatchProb = 0.9
	high.Seed = 7

	gLow, err := New(low)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gHigh, err := New(high)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	bufLow := make([]byte, 1<<16)
	bufHigh := make([]byte, 1<<16)

	statsLow := gLow.Generate(bufLow)
	statsHigh := gHigh.Generate(bufHigh)

	if statsHigh.DupeRatio() <= statsLow.DupeRatio() {
		t.Fatalf("expected higher MatchProb to raise dupe ratio: low=%.2f high=%.2f",
			statsLow.DupeRatio(), statsHigh.DupeRatio())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig(4096)
	cfg.Seed = 99

	g1, _ := New(cfg)
	g2, _ := New(cfg)

	buf1 := make([]byte, 4096)
	buf2 := make([]byte, 4096)

	g1.Generate(buf1)
	g2.Generate(buf2)

	for i := range buf1 {
		if buf1[i] != buf2[i] {
			t.Fatalf("same seed produced different output at byte %d", i)
		}
	}
}

func TestGenerate_TinyBufferDoesNotHang(t *testing.T) {
	cfg := DefaultConfig(16)
	cfg.Seed = 3

	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for size := 0; size <= 3; size++ {
		buf := make([]byte, size)
		g.Generate(buf)
	}
}

func TestNew_RejectsInvalidRanges(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"lit-range", Config{MinLitLen: 10, MaxLitLen: 5, MinMatchLen: 4, MaxMatchLen: 4, MinOffset: 1, MaxOffset: 1}},
		{"match-range", Config{MinLitLen: 1, MaxLitLen: 1, MinMatchLen: 10, MaxMatchLen: 5, MinOffset: 1, MaxOffset: 1}},
		{"offset-range", Config{MinLitLen: 1, MaxLitLen: 1, MinMatchLen: 4, MaxMatchLen: 4, MinOffset: 10, MaxOffset: 5}},
		{"match-prob", Config{MinLitLen: 1, MaxLitLen: 1, MinMatchLen: 4, MaxMatchLen: 4, MinOffset: 1, MaxOffset: 1, MatchProb: 2}},
		{"negative-scale", Config{MinLitLen: 1, MaxLitLen: 1, MinMatchLen: 4, MaxMatchLen: 4, MinOffset: 1, MaxOffset: 1, LitLenScale: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDupeRatio_ZeroOnEmptyStats(t *testing.T) {
	var s Stats
	if s.DupeRatio() != 0 {
		t.Fatal("expected zero dupe ratio for empty stats")
	}
}

func TestLengthDraw_NeverExceedsRemainingRoom(t *testing.T) {
	cfg := DefaultConfig(64)
	cfg.Seed = 5
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for trial := 0; trial < 1000; trial++ {
		pos := uint32(trial % 60)
		length := lengthDraw(g.rng, 2.0, 1, 64, pos, 64)
		if pos+length > 64 {
			t.Fatalf("length draw exceeded remaining room: pos=%d length=%d", pos, length)
		}
	}
}

func TestGenerate_NoNaNOrInfLengths(t *testing.T) {
	cfg := DefaultConfig(2048)
	cfg.Seed = 123
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := make([]byte, 2048)
	g.Generate(buf)

	if math.IsNaN(cfg.MatchProb) || math.IsInf(cfg.MatchProb, 0) {
		t.Fatal("unexpected non-finite config value")
	}
}

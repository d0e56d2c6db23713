// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// Format selects the wire format understood by the engine. Only one exists
// today; the field exists so the decoder could later dispatch on a second
// format without an API break.
type Format uint32

// FormatLZM1 is the only currently defined format.
const FormatLZM1 Format = 1

// Level selects the compression/speed tradeoff used by EncodeInit.
type Level uint32

const (
	// LevelDefault maps to LevelFast.
	LevelDefault Level = 0xFFFFFFFF
	// LevelNone emits a single literals-only token for the whole chunk.
	LevelNone Level = 0
	// LevelFast is the single-slot-hash match finder (only level 1 uses
	// this encoder; it is the recommended default).
	LevelFast Level = 1
	// LevelHigh2..LevelHigh6 use the hash-chain match finder with
	// increasing chain order (more candidates considered per position, at
	// the cost of speed).
	LevelHigh2 Level = 2
	LevelHigh3 Level = 3
	LevelHigh4 Level = 4
	LevelHigh5 Level = 5
	LevelHigh6 Level = 6

	levelCount = 7
)

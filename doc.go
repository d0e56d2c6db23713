// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

/*
Package lzm implements an LZ77-family byte-stream codec operating on
independent fixed-size chunks (up to 4 MiB). Each chunk is compressed into
a self-contained frame with no reference to any other chunk, so any chunk
can be decoded on its own.

The engine is a pure memory-to-memory API: it never performs I/O and never
frames chunks onto a file. The container format (magic, per-chunk size
header, no-compression bit) lives in internal/container; the CLI front end
lives in cmd/lzm.

# Encode

An EncodeState is created once per session and may be reused across many
chunks; it owns the match-finder's hash tables.

	state, err := lzm.EncodeInit(lzm.FormatLZM1, lzm.LevelFast)
	defer state.Finish()
	n, err := state.Encode(chunk, out)
	// on lzm.ErrOverflow (Encode has already retried at LevelNone),
	// store the chunk raw

# Decode

The decoder keeps no state between chunks; DecodeState exists only so a
later format revision could add one without an API break.

	state, err := lzm.DecodeInit(lzm.FormatLZM1)
	defer state.Finish()
	n, err := state.Decode(compressed, out)
*/
package lzm

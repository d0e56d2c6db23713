// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import "errors"

// Sentinel errors returned by the engine, matching the taxonomy of the C
// original (EINVAL/EOVERFLOW/EIO/ENOMEM). EncodeState/DecodeState methods
// return these values unwrapped; callers outside the engine (the container
// and CLI) may wrap them, so errors.Is is the robust check.
var (
	// ErrInvalidArgument is returned for a nil buffer or an unsupported
	// format/level.
	ErrInvalidArgument = errors.New("lzm: invalid argument")
	// ErrOverflow is returned when the output buffer is too small to hold
	// the result. Recoverable by retrying Encode at LevelNone, or by the
	// caller storing the chunk raw.
	ErrOverflow = errors.New("lzm: output overflow")
	// ErrIO is returned on a malformed compressed stream: a truncated
	// token, a back-reference past the bytes produced so far, or a
	// missing end-of-stream terminator.
	ErrIO = errors.New("lzm: malformed stream")
	// ErrNoMem matches the C original's ENOMEM for table allocation
	// failure at EncodeInit. Go's make panics rather than returning an
	// error on allocation failure, so this is kept only for taxonomy
	// parity and is never actually returned.
	ErrNoMem = errors.New("lzm: allocation failed")
)

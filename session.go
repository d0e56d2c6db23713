// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// smallInputCutoff forces the none-level literals-only path for chunks at
// or below this size: a match needs MIN_MATCH+overhead bytes to be
// useful, and SPEC_FULL.md §12 pins this at the original source's value
// (size_in <= 16), within spec.md's permitted range (>= MIN_MATCH+7=11).
const smallInputCutoff = 16

// EncodeState owns one level's match-finder tables. It is created by
// EncodeInit and destroyed by Finish; the same state may be reused across
// many chunks within one session (each Encode call reseeds the hash
// table). An EncodeState is exclusively owned by its caller — concurrent
// calls on the same handle are undefined, but distinct handles may run on
// separate goroutines without locking (spec.md §5).
type EncodeState struct {
	format Format
	level  Level
	tabs   *encodeTables
}

// EncodeInit validates format and level and allocates the tables sized for
// level. LevelDefault maps to LevelFast.
func EncodeInit(format Format, level Level) (*EncodeState, error) {
	if format != FormatLZM1 {
		return nil, ErrInvalidArgument
	}

	l := level
	if l == LevelDefault {
		l = LevelFast
	}
	if uint32(l) >= levelCount {
		return nil, ErrInvalidArgument
	}

	return &EncodeState{
		format: format,
		level:  l,
		tabs:   newEncodeTables(levelConfigs[l]),
	}, nil
}

// Finish releases the state's tables. The zero value is safe to call
// Finish on more than once.
func (s *EncodeState) Finish() {
	if s == nil {
		return
	}
	s.tabs = nil
}

// Encode compresses in into out and returns the number of bytes written.
// For in no longer than smallInputCutoff bytes the literals-only path is
// always used. On ErrOverflow at any level above LevelNone, Encode retries
// once at LevelNone before giving up — spec.md §6/§7's
// OVERFLOW -> none fallback, the only internal retry the engine performs.
func (s *EncodeState) Encode(in, out []byte) (int, error) {
	if in == nil || out == nil {
		return 0, ErrInvalidArgument
	}

	if len(in) <= smallInputCutoff {
		return encodeNone(in, out, nil)
	}

	n, err := levelConfigs[s.level].codec(in, out, s.tabs)
	if err == ErrOverflow && s.level != LevelNone {
		return encodeNone(in, out, nil)
	}
	return n, err
}

// DecodeState keeps no state between chunks; it exists only so a future
// format revision could add per-format decode state without breaking the
// API, matching lzmdecode.c's trivial decode_init/decode_finish.
type DecodeState struct {
	format Format
}

// DecodeInit validates format and returns a handle.
func DecodeInit(format Format) (*DecodeState, error) {
	if format != FormatLZM1 {
		return nil, ErrInvalidArgument
	}
	return &DecodeState{format: format}, nil
}

// Finish is a no-op kept for API symmetry with EncodeState.Finish.
func (s *DecodeState) Finish() {}

// Decode decompresses in into out and returns the number of bytes
// written.
func (s *DecodeState) Decode(in, out []byte) (int, error) {
	if in == nil || out == nil {
		return 0, ErrInvalidArgument
	}
	return decode(in, out)
}

// CompressedSize returns a worst-case upper bound on the compressed size
// of an n-byte chunk, saturating to n on overflow. Matches
// lzm_compressed_size: every chunk, however incompressible, can always be
// encoded as a single literals-only token with at most 24 bytes of
// overhead (1 control byte + up to 5 extended-length bytes + up to 4
// offset-field slack bytes + assorted margin).
func CompressedSize(n uint32) uint32 {
	csize := n + 24
	if csize < n {
		return n
	}
	return csize
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import "math/bits"

// getOffsetSafe determines and reads the offset prefix code without the
// over-read lzmdecode.c's decode_offset relies on: the C original always
// does an unconditional 4-byte readmem32 and trusts the chunk buffer's
// trailing slack to make that safe even one byte from the end of the
// stream. A Go slice carries no such slack, but the prefix code doesn't
// need one: putOffset (token.go) only ever sets the marker bit somewhere
// in the first byte's low nibble, so the byte count (1-4) is always
// determinable by inspecting in[pos] alone, before deciding how many more
// bytes to touch.
func getOffsetSafe(in []byte, pos int) (offset uint32, consumed uint, ok bool) {
	if pos >= len(in) {
		return 0, 0, false
	}
	consumed = uint(bits.TrailingZeros8(in[pos])) + 1
	if pos+int(consumed) > len(in) {
		return 0, 0, false
	}
	var word uint32
	for i := uint(0); i < consumed; i++ {
		word |= uint32(in[pos+int(i)]) << (8 * i)
	}
	return word >> consumed, consumed, true
}

// getLengthSafe is getLength with a bounds check sized to the specific
// extended-length tag at pos, replacing lzmdecode.c's decode_length's
// reliance on 15 bytes of guaranteed trailing slack.
func getLengthSafe(in []byte, pos int) (length uint32, consumed int, ok bool) {
	if pos >= len(in) {
		return 0, 0, false
	}
	need := 1
	switch in[pos] {
	case extTag1:
		need = 2
	case extTag2:
		need = 3
	case extTag3, extTag4:
		need = 5
	}
	if pos+need > len(in) {
		return 0, 0, false
	}
	length, consumed = getLength(in, pos)
	return length, consumed, true
}

// copyBackRef copies mlen bytes from out[outPos-off:] to out[outPos:],
// tolerating off < mlen (the copied region becomes a source for its own
// continuation). Adapted from the teacher's copyBackRef: one seed copy of
// the non-overlapping distance, then repeated doubling, rather than the
// original's offset-width-specific unrolled loops (off==1, off==2, ...,
// off>=9) — copy() already handles every width without per-case code, and
// the doubling still touches each destination byte exactly once. Bounds
// (off <= outPos, outPos+mlen <= len(out)) are the caller's
// responsibility; decode is the only caller and already checked both.
func copyBackRef(out []byte, outPos, off, mlen int) {
	match := outPos - off

	if off >= mlen {
		copy(out[outPos:outPos+mlen], out[match:match+mlen])
		return
	}

	copy(out[outPos:outPos+off], out[match:outPos])
	copied := off
	for copied < mlen {
		n := copy(out[outPos+copied:outPos+mlen], out[outPos:outPos+copied])
		copied += n
	}
}

// decode runs the single-pass token decode loop, matching lzmdecode.c's
// lzm_decode. The control byte's high nibble is the literal-length code,
// the low nibble the match-length code (both biased as in token.go); a
// code of 15 means the real length follows as an extended-length tag. The
// offset prefix code immediately follows the control byte; an offset of
// 0 marks the end of the stream.
func decode(in, out []byte) (int, error) {
	end := len(in)
	currIn := 0
	currOut := 0
	off := uint32(1)

	for currIn < end {
		op := in[currIn]
		currIn++
		llen := int(op >> 4)
		mlen := int(op&15) + minMatch

		o, consumed, ok := getOffsetSafe(in, currIn)
		if !ok {
			return 0, ErrIO
		}
		off = o
		currIn += int(consumed)

		if llen > 0 {
			if llen == 15 {
				length, n, ok := getLengthSafe(in, currIn)
				if !ok {
					return 0, ErrIO
				}
				llen = int(length) + 15
				currIn += n
			}
			if currIn+llen > end {
				return 0, ErrIO
			}
			if currOut+llen > len(out) {
				return 0, ErrOverflow
			}
			copy(out[currOut:currOut+llen], in[currIn:currIn+llen])
			currIn += llen
			currOut += llen
		}

		if off > uint32(currOut) {
			return 0, ErrIO
		}
		if off == 0 {
			break
		}

		if mlen == 15+minMatch {
			length, n, ok := getLengthSafe(in, currIn)
			if !ok {
				return 0, ErrIO
			}
			mlen = int(length) + 15 + minMatch
			currIn += n
		}

		if currOut+mlen > len(out) {
			return 0, ErrOverflow
		}
		copyBackRef(out, currOut, int(off), mlen)
		currOut += mlen
	}

	if off != 0 {
		return 0, ErrIO
	}
	return currOut, nil
}

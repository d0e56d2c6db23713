// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// Shared token-emission helpers used by all three encoders (none, fast,
// high). Mirrors lzmencode.c's output_offset/output_length/
// output_literals_op/output_match_op/output_data family: the control byte
// is written first, then the offset prefix code, then the literal
// extended-length tag (if the literal length overflowed its 4-bit nibble),
// then the literal bytes, then the match extended-length tag (if the match
// length overflowed its nibble).

// outputLiteralsOp writes the control byte's literal-length nibble and the
// literal bytes themselves. Returns the new output cursor.
func outputLiteralsOp(out []byte, ctrlPos, outPos int, in []byte, start, length int) int {
	if length == 0 {
		return outPos
	}
	if length < 15 {
		out[ctrlPos] = byte(length << 4)
	} else {
		out[ctrlPos] = 15 << 4
		outPos += putLength(out, outPos, uint32(length-15))
	}
	outPos += copy(out[outPos:], in[start:start+length])
	return outPos
}

// outputMatchOp writes the control byte's match-length nibble and, if the
// match length overflowed its 4-bit nibble, the extended-length tag.
func outputMatchOp(out []byte, ctrlPos, outPos int, length int) int {
	if length < 15 {
		out[ctrlPos] |= byte(length)
	} else {
		out[ctrlPos] |= 15
		outPos += putLength(out, outPos, uint32(length-15))
	}
	return outPos
}

// outputData writes one complete token: control byte, offset, literal
// run, then match length (if nonzero). length is pre-biased by MIN_MATCH
// by the caller (0 for a literals-only/terminator token).
func outputData(out []byte, outPos int, in []byte, start, literals int, offset uint32, length int) int {
	ctrlPos := outPos
	out[ctrlPos] = 0
	outPos++
	outPos += int(putOffset(out, outPos, offset))
	outPos = outputLiteralsOp(out, ctrlPos, outPos, in, start, literals)
	outPos = outputMatchOp(out, ctrlPos, outPos, length)
	return outPos
}

// outputMatch emits a literal run followed by a match, checking that out
// has enough room first. length is the real match length (>= MIN_MATCH);
// the MIN_MATCH bias for the wire is applied here.
func outputMatch(out []byte, outPos int, in []byte, start, literals int, offset uint32, length int) (int, error) {
	if outPos+literals+(1+5+5+4+8) > len(out) {
		return 0, ErrOverflow
	}
	return outputData(out, outPos, in, start, literals, offset, length-minMatch), nil
}

// outputLiterals emits a literals-only token (offset 0, no match),
// checking that out has enough room first. A literals-only token with
// offset 0 is how the decoder recognizes the end of the stream (spec.md
// §4.2: the offset prefix code never otherwise produces 0).
func outputLiterals(out []byte, outPos int, in []byte, start, literals int) (int, error) {
	if outPos+literals+(1+5+1+10) > len(out) {
		return 0, ErrOverflow
	}
	return outputData(out, outPos, in, start, literals, 0, 0), nil
}

// encodeNone emits a single literals-only token for the whole input: the
// LevelNone codec, and the fallback used by Encode when a higher level
// would overflow out. tabs is unused (no match-finder state needed).
func encodeNone(in, out []byte, _ *encodeTables) (int, error) {
	n, err := outputLiterals(out, 0, in, 0, len(in))
	if err != nil {
		return 0, err
	}
	return n, nil
}

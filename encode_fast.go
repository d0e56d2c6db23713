// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// encodeFast is the fast, single-slot-hash match finder (LevelFast).
// Mirrors lzmencode.c's lzm_encode_fast, with one deliberate departure:
// the C original prefetches the next candidate's hash/token one step
// ahead of the scan cursor as a latency-hiding optimization, reading up
// to 8 bytes past a cursor position that the loop bound hasn't validated
// yet. That over-read is harmless in C (the chunk buffer carries slack)
// but would panic on a Go slice. This port computes each candidate's
// hash/token at the point it is used instead of prefetching it; the
// sequence of candidates probed, table insertions made, and tokens
// emitted is identical either way, since both are pure functions of chunk
// position.
func encodeFast(in, out []byte, tabs *encodeTables) (int, error) {
	end := len(in)
	matchEnd := end - 7
	scanEnd := matchEnd - 7

	tabs.reset(in)
	insertFast(tabs, in, 0)

	litStart := 0
	currIn := 1
	outPos := 0
	misses := uint32(1<<missOrder) + 1

	for currIn < scanEnd {
		tok64 := readU64(in, currIn)
		tok32 := uint32(tok64)
		hv := hashFast(tok64)

		e := &tabs.lastHT[hv]
		last := int(e.index)
		lastTok := e.token
		e.index = uint32(currIn)
		e.token = tok32

		step := misses >> missOrder
		offset := uint32(currIn - last)
		if tok32 != lastTok || offset > maxOffset {
			misses++
			currIn += int(step)
			continue
		}
		misses = uint32(1<<missOrder) + 1

		length := minMatch + matchlen(in, currIn+minMatch, last+minMatch, matchEnd)
		back := matchlenRev(in, currIn, last, litStart, 0)
		currIn -= back
		last -= back
		length += back

		var err error
		outPos, err = outputMatch(out, outPos, in, litStart, currIn-litStart, uint32(currIn-last), length)
		if err != nil {
			return 0, err
		}

		currIn += length
		litStart = currIn

		// Reseed the hash at the match's tail so later matches can
		// reference within it, matching lzm_encode_fast's post-match
		// insertion at curr_in-2.
		insertFast(tabs, in, currIn-2)
	}

	n, err := outputLiterals(out, outPos, in, litStart, end-litStart)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func insertFast(tabs *encodeTables, in []byte, pos int) {
	tok64 := readU64(in, pos)
	tabs.lastHT[hashFast(tok64)] = htEntry{index: uint32(pos), token: uint32(tok64)}
}

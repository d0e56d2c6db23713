// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// prevMatch buffers the best match found so far, one step behind the scan
// cursor, so the encoder can look at the match that follows before
// deciding how (or whether) to emit it. Mirrors lzmencode.c's struct
// prev_match.
type prevMatch struct {
	litStart int
	start    int
	last     int
	length   int
}

// outputMatchLast flushes the buffered match unchanged, matching
// lzmencode.c's output_match_last.
func outputMatchLast(in []byte, prev *prevMatch, out []byte, outPos int) (int, error) {
	n, err := outputMatch(out, outPos, in, prev.litStart, prev.start-prev.litStart,
		uint32(prev.start-prev.last), prev.length)
	if err != nil {
		return 0, err
	}
	prev.litStart = prev.start + prev.length
	return n, nil
}

// outputMatchFinal flushes whatever match is still buffered (if any) and
// the trailing literal run, matching lzmencode.c's output_match_final.
func outputMatchFinal(in []byte, prev *prevMatch, out []byte, outPos int) (int, error) {
	if prev.length > 0 {
		var err error
		outPos, err = outputMatchLast(in, prev, out, outPos)
		if err != nil {
			return 0, err
		}
	}
	return outputLiterals(out, outPos, in, prev.litStart, len(in)-prev.litStart)
}

// outputMatchMerge decides what to do with the buffered match now that a
// new, later match has been found, matching lzmencode.c's
// output_match_merge:
//
//   - if the buffered match ends at or before the new one starts, they
//     don't overlap: flush the buffered match unchanged;
//   - if they overlap but the buffered match is still at least MIN_MATCH
//     bytes long up to the new match's start, truncate it to that point
//     and flush the truncated version;
//   - otherwise the buffered match is too short to survive the overlap
//     and is silently dropped.
//
// Either way, the new match becomes the buffered one.
func outputMatchMerge(in []byte, prev *prevMatch, out []byte, outPos int, start, last, length int) (int, error) {
	if prev.length > 0 {
		var err error
		switch {
		case prev.start+prev.length <= start:
			outPos, err = outputMatchLast(in, prev, out, outPos)
		case prev.start+minMatch <= start:
			prev.length = start - prev.start
			outPos, err = outputMatchLast(in, prev, out, outPos)
		}
		if err != nil {
			return 0, err
		}
	}

	prev.start = start
	prev.last = last
	prev.length = length
	return outPos, nil
}

// insertHigh evicts the hash bucket for the 4-byte token at pos into the
// chain buffer and replaces it with an entry for pos, matching
// lzmencode.c's inline hash-chain insertion (repeated at every scanned
// position in lzm_encode_high). It returns the evicted entry's position
// and token (the head of the chain to search) along with the token just
// computed for pos.
func insertHigh(tabs *encodeTables, in []byte, pos int) (lastIndex int, lastToken, curToken uint32) {
	tok := readU32(in, pos)
	hv := hashHigh(tok)
	old := tabs.lastHT[hv]
	tabs.chains[uint32(pos)&tabs.chainMask] = old
	tabs.lastHT[hv] = htEntry{index: uint32(pos), token: tok}
	return int(old.index), old.token, tok
}

// encodeHigh is the hash-chain match finder with lazy merge (LevelHigh2
// through LevelHigh6, distinguished only by chain depth). Mirrors
// lzmencode.c's lzm_encode_high; see encodeFast's doc comment for the one
// structural departure shared by both encoders (no cross-iteration
// prefetch, to stay within Go's slice bounds).
func encodeHigh(in, out []byte, tabs *encodeTables) (int, error) {
	end := len(in)
	matchEnd := end - 7
	scanEnd := matchEnd - 3

	tabs.reset(in)
	insertHigh(tabs, in, 0)

	prev := prevMatch{litStart: 0}
	currIn := 1
	outPos := 0
	misses := uint32(1<<missOrder) + 1

	for currIn < scanEnd {
		step := int(misses >> missOrder)

		last, lastTok, curTok := insertHigh(tabs, in, currIn)

		matchVal := 0
		matchLen := 0
		var matchLast, matchCurr int
		curChain := 1

		for {
			if uint32(currIn-last) > maxOffset {
				break
			}

			if curTok == lastTok && (matchLen == 0 || (currIn+matchLen < len(in) && in[currIn+matchLen] == in[last+matchLen])) {
				length := minMatch + matchlen(in, currIn+minMatch, last+minMatch, matchEnd)
				back := matchlenRev(in, currIn, last, prev.litStart, 0)
				co, lo := currIn-back, last-back
				length += back

				val := length - int(offsetCost(uint32(co-lo)))
				if val > matchVal {
					matchVal = val
					matchLen = length
					matchLast = lo
					matchCurr = co
					if co+length >= scanEnd {
						break
					}
				}
			}

			if curChain >= maxChainLen {
				break
			}
			curChain++

			entry := tabs.chains[uint32(last)&tabs.chainMask]
			nextLast := int(entry.index)
			lastTok = entry.token
			if nextLast >= last {
				break
			}
			last = nextLast
		}

		if matchLen == 0 {
			misses++
			currIn += step
			continue
		}
		misses = uint32(1<<missOrder) + 1

		var err error
		outPos, err = outputMatchMerge(in, &prev, out, outPos, matchCurr, matchLast, matchLen)
		if err != nil {
			return 0, err
		}

		matchCurr += matchLen
		if matchCurr >= scanEnd {
			break
		}

		// Densely reinsert every position the match consumed: with
		// misses just reset, step is 1, so this walks one-by-one
		// rather than skipping, matching lzm_encode_high's catch-up
		// loop after a hit.
		step = int(misses >> missOrder)
		currIn += step
		for currIn < matchCurr {
			insertHigh(tabs, in, currIn)
			currIn++
		}
	}

	n, err := outputMatchFinal(in, &prev, out, outPos)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import "math/bits"

// runStride bounds the word-stride used when comparing small (<=8) offset
// back-references: bytes that repeat with period off form a run, and
// comparing at stride runStride[off] still proves equality along the
// stride-1 overlap while minimizing word loads.
var runStride = [9]int{0, 8, 8, 6, 8, 5, 6, 7, 8}

// matchlenRun extends a match for a small offset (<=8) using the run
// stride table, matching lzmencode.c's matchlen_run.
func matchlenRun(buf []byte, curr, last, end, stride int) int {
	start := curr
	var currVal, lastVal uint64

	if last < end-7 {
		lastVal = readU64(buf, last)
		if curr < end-7 {
			currVal = readU64(buf, curr)
			if lastVal != currVal {
				return bits.TrailingZeros64(lastVal^currVal) >> 3
			}
			curr += stride
		}
		for curr < end-7 {
			currVal = readU64(buf, curr)
			if lastVal != currVal {
				return (curr - start) + (bits.TrailingZeros64(lastVal^currVal) >> 3)
			}
			curr += stride
		}
	} else {
		lastVal = uint64(readU32(buf, last))
	}

	if curr < end-3 && readU32(buf, curr) == uint32(lastVal) {
		curr += 4
	}
	if curr < end-1 && readU16(buf, curr) == uint16(lastVal) {
		curr += 2
	}
	if curr < end && buf[curr] == byte(lastVal) {
		curr++
	}
	return curr - start
}

// matchlen returns the number of bytes curr[i] == last[i] for i in
// [0,k), bounded by end, matching lzmencode.c's matchlen. Overlap between
// curr and last is tolerated: the encoder only ever references positions
// it has already scanned.
func matchlen(buf []byte, curr, last, end int) int {
	off := curr - last
	if off <= 8 {
		return matchlenRun(buf, curr, last, end, runStride[off])
	}

	start := curr
	if curr < end-7 {
		lastVal := readU64(buf, last)
		currVal := readU64(buf, curr)
		if lastVal != currVal {
			return bits.TrailingZeros64(lastVal ^ currVal) >> 3
		}
		last += 8
		curr += 8
	}
	for curr < end-7 {
		lastVal := readU64(buf, last)
		currVal := readU64(buf, curr)
		if lastVal != currVal {
			return (curr - start) + (bits.TrailingZeros64(lastVal^currVal) >> 3)
		}
		last += 8
		curr += 8
	}
	if curr < end-3 {
		lastVal := readU32(buf, last)
		currVal := readU32(buf, curr)
		if lastVal != currVal {
			return (curr - start) + (bits.TrailingZeros32(lastVal^currVal) >> 3)
		}
		last += 4
		curr += 4
	}
	if curr < end-1 && readU16(buf, last) == readU16(buf, curr) {
		last += 2
		curr += 2
	}
	if curr < end && buf[last] == buf[curr] {
		curr++
	}
	return curr - start
}

// matchlenRev extends a candidate backward from curr/match by up to
// min(curr-startLimit, match-matchLimit) bytes, matching lzmencode.c's
// matchlen_rev. Used by both the fast and the high encoder to recover lead
// bytes the hash probe missed. The fast encoder passes its literal start
// as startLimit; the high encoder passes prev.litStart, which is not
// raised to the end of a match still buffered in prev, so an extension
// can reach into that match and outputMatchMerge then truncates or drops
// it (see SPEC_FULL.md §12).
func matchlenRev(buf []byte, curr, match, startLimit, matchLimit int) int {
	if curr == startLimit || match == matchLimit {
		return 0
	}
	if buf[curr-1] != buf[match-1] {
		return 0
	}

	end := matchLimit
	off := curr - startLimit
	if off < match-matchLimit {
		end = match - off
	}

	c, m := curr, match

	if m > end+7 {
		nc, nm := c-8, m-8
		cv, mv := readU64(buf, nc), readU64(buf, nm)
		if cv != mv {
			return bits.LeadingZeros64(cv^mv) >> 3
		}
		c, m = nc, nm
	}
	for m > end+7 {
		nc, nm := c-8, m-8
		cv, mv := readU64(buf, nc), readU64(buf, nm)
		if cv != mv {
			return (curr - c) + (bits.LeadingZeros64(cv^mv) >> 3)
		}
		c, m = nc, nm
	}
	if m > end+3 {
		nc, nm := c-4, m-4
		cv, mv := readU32(buf, nc), readU32(buf, nm)
		if cv != mv {
			return (curr - c) + (bits.LeadingZeros32(cv^mv) >> 3)
		}
		c, m = nc, nm
	}
	if m > end+1 {
		nc, nm := c-2, m-2
		if readU16(buf, nc) == readU16(buf, nm) {
			c, m = nc, nm
		}
	}
	if m > end {
		nc, nm := c-1, m-1
		if buf[nc] == buf[nm] {
			c, m = nc, nm
		}
	}

	return curr - c
}

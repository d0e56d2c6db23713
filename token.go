// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import "math/bits"

// Wire-format constants, shared bit-exactly between encoder and decoder.
const (
	minMatch     = 4          // MIN_MATCH
	maxOffset    = 1 << 28    // MAX_OFFSET
	chunkMax     = 4 << 20    // CHUNK_MAX
	hashOrderFast = 12        // HASH_ORDER_FAST: 2^12 = 4096 buckets
	hashOrderHigh = 20        // HASH_ORDER_HIGH: 2^20 = 1048576 buckets
	maxChainLen   = 128       // MAX_CHAIN_LENGTH
	missOrder     = 6         // MISS_ORDER

	// extended literal/match length tag sentinels.
	extTag1 = 252
	extTag2 = 253
	extTag3 = 254
	extTag4 = 255
)

// offsetMap entry: bytes written/read for the prefix code, and the
// low-bit tag identifying that byte count.
type offsetMapEntry struct {
	bytes  uint
	prefix uint32
}

// offmap is indexed by clz32(offset | (offset==0)), giving a prefix-free
// self-delimiting encoding: the number of leading zero bits of the raw
// offset selects how many bytes the offset occupies on the wire.
var offmap = [32]offsetMapEntry{
	{0, 0}, {0, 0}, {0, 0}, {0, 0},
	{4, 8}, {4, 8}, {4, 8}, {4, 8}, {4, 8}, {4, 8}, {4, 8},
	{3, 4}, {3, 4}, {3, 4}, {3, 4}, {3, 4}, {3, 4}, {3, 4},
	{2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2}, {2, 2},
	{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1},
}

// clzOffsetIndex returns the offmap index for a raw offset, treating 0 as
// a special case (the end-of-stream terminator) the same way the leading
// zero count would for the smallest nonzero value's neighbor.
func clzOffsetIndex(offset uint32) int {
	v := offset
	if v == 0 {
		v = 1
	}
	return bits.LeadingZeros32(v)
}

// offsetCost returns the number of bytes the prefix code would use for
// offset, without writing anything. Used by the high encoder's match
// scoring (score = length - offsetCost(offset)).
func offsetCost(offset uint32) uint {
	return offmap[clzOffsetIndex(offset)].bytes
}

// putOffset writes offset's self-delimiting prefix code at out[pos:] and
// returns the number of bytes written. The caller must ensure out has at
// least 4 bytes of room at pos (the encode margin checks guarantee this);
// only the first `bytes` are meaningful on the wire, the rest are
// overwritten by whatever the caller emits next.
func putOffset(out []byte, pos int, offset uint32) uint {
	e := offmap[clzOffsetIndex(offset)]
	writeU32(out, pos, (offset<<e.bytes)|e.prefix)
	return e.bytes
}

// getOffset reads a self-delimiting offset prefix code from in[pos:] and
// returns the decoded offset and the number of bytes consumed. The caller
// must ensure in has at least 4 bytes available at pos.
func getOffset(in []byte, pos int) (offset uint32, consumed uint) {
	word := readU32(in, pos)
	bytes := uint(bits.TrailingZeros32(word)) + 1
	mask := uint32(1)<<(8*bytes) - 1
	return (word & mask) >> bytes, bytes
}

// putLength writes an extended length (literal length - 15, or match
// length - 15 - MIN_MATCH) as a 1..5 byte variable tag and returns the
// number of bytes written.
func putLength(out []byte, pos int, length uint32) int {
	switch {
	case length < extTag1:
		out[pos] = byte(length)
		return 1
	case length < extTag1+256:
		out[pos] = extTag1
		out[pos+1] = byte(length - extTag1)
		return 2
	case length < extTag2+65536:
		out[pos] = extTag2
		writeU16(out, pos+1, uint16(length-extTag2))
		return 3
	case length < extTag3+16777216:
		out[pos] = extTag3
		writeU32(out, pos+1, length-extTag3)
		return 4
	default:
		out[pos] = extTag4
		writeU32(out, pos+1, length-extTag4)
		return 5
	}
}

// getLength reads an extended length tag from in[pos:] and returns the
// decoded value and the number of bytes consumed.
func getLength(in []byte, pos int) (length uint32, consumed int) {
	tag := in[pos]
	switch tag {
	case extTag1:
		return extTag1 + uint32(in[pos+1]), 2
	case extTag2:
		return extTag2 + uint32(readU16(in, pos+1)), 3
	case extTag3:
		return extTag3 + (readU32(in, pos+1) & 0xFFFFFF), 4
	case extTag4:
		return extTag4 + readU32(in, pos+1), 5
	default:
		return uint32(tag), 1
	}
}

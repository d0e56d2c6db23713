// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// htEntry pairs a chunk position with the 4 bytes stored there at
// insertion time, so a bucket probe can reject a collision with one word
// compare instead of re-reading memory. Mirrors lzmencode.c's struct
// ht_entry.
type htEntry struct {
	index uint32
	token uint32
}

// encodeTables holds the match-finder state for one EncodeState, sized by
// level at EncodeInit. lastHT is the single-slot ("last position") table
// used by both fast and high encoders; chains is only allocated for high
// levels (chainOrder > 0).
type encodeTables struct {
	lastHT     []htEntry
	chains     []htEntry
	hashOrder  uint
	chainOrder uint
	chainMask  uint32
}

func newEncodeTables(cfg levelConfig) *encodeTables {
	t := &encodeTables{hashOrder: cfg.hashOrder, chainOrder: cfg.chainOrder}
	if cfg.hashOrder > 0 {
		t.lastHT = make([]htEntry, 1<<cfg.hashOrder)
	}
	if cfg.chainOrder > 0 {
		t.chains = make([]htEntry, 1<<cfg.chainOrder)
		t.chainMask = 1<<cfg.chainOrder - 1
	}
	return t
}

// reset reseeds every bucket of the last-position table with {0,
// first-4-bytes-of-chunk}, matching lzmencode.c's lzm_reset. Because every
// bucket initially points at position 0 with the chunk's own leading
// token, a hash probe's token comparison alone rejects the seed entry
// unless the chunk genuinely starts by repeating its own first bytes
// (handled correctly: such a hit is a real match against position 0, at
// an offset of at least 1 since scanning starts at position 1).
func (t *encodeTables) reset(in []byte) {
	if len(t.lastHT) == 0 {
		return
	}
	seed := htEntry{index: 0, token: readU32(in, 0)}
	for i := range t.lastHT {
		t.lastHT[i] = seed
	}
}

// hashFast hashes the 8-byte sequence at a position for the fast
// (single-slot) table, matching lzmencode.c's hash_fast.
func hashFast(seq uint64) uint32 {
	return uint32((seq * 0xAC565CAC35000000) >> (64 - hashOrderFast))
}

// hashHigh hashes the 4-byte sequence at a position for the high
// (hash-chain) table, matching lzmencode.c's hash_high.
func hashHigh(seq uint32) uint32 {
	return (seq * 2654435761) >> (32 - hashOrderHigh)
}

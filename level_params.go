// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

// levelConfig holds the per-level sizing for the encoder's tables and the
// codec function it dispatches to. Unexported; used only inside the
// package. Mirrors the teacher's compressLevelParams/fixedLevels split
// between tunables and the dispatch table.
type levelConfig struct {
	codec      func(in []byte, out []byte, tabs *encodeTables) (int, error)
	hashOrder  uint // log2 of the fast/high hash table bucket count
	chainOrder uint // log2 of the high encoder's chain buffer size (0 = no chain)
}

// levelConfigs holds one entry per compression level (0..6), matching
// lzmencode.c's lzm_encode_config table.
var levelConfigs = [levelCount]levelConfig{
	{codec: encodeNone, hashOrder: 0, chainOrder: 0},
	{codec: encodeFast, hashOrder: hashOrderFast, chainOrder: 0},
	{codec: encodeHigh, hashOrder: hashOrderHigh, chainOrder: 4},
	{codec: encodeHigh, hashOrder: hashOrderHigh, chainOrder: 8},
	{codec: encodeHigh, hashOrder: hashOrderHigh, chainOrder: 12},
	{codec: encodeHigh, hashOrder: hashOrderHigh, chainOrder: 16},
	{codec: encodeHigh, hashOrder: hashOrderHigh, chainOrder: 20},
}

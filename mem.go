// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import "encoding/binary"

// Unaligned little-endian memory access. The C original reads/writes the
// host's native word order directly through a cast pointer; this port pins
// every multi-byte access to little-endian explicitly via encoding/binary,
// which is both alignment-safe and endianness-portable across GOARCH
// targets (see SPEC_FULL.md §12 for why host order was not kept).

func readU16(buf []byte, pos int) uint16 {
	return binary.LittleEndian.Uint16(buf[pos:])
}

func readU32(buf []byte, pos int) uint32 {
	return binary.LittleEndian.Uint32(buf[pos:])
}

func readU64(buf []byte, pos int) uint64 {
	return binary.LittleEndian.Uint64(buf[pos:])
}

func writeU16(buf []byte, pos int, v uint16) {
	binary.LittleEndian.PutUint16(buf[pos:], v)
}

func writeU32(buf []byte, pos int, v uint32) {
	binary.LittleEndian.PutUint32(buf[pos:], v)
}

func writeU64(buf []byte, pos int, v uint64) {
	binary.LittleEndian.PutUint64(buf[pos:], v)
}

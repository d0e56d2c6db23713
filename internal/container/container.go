// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

// Package container implements the .lzm file framing: a fixed header
// (magic, format, chunk size) followed by a sequence of independently
// compressed chunk records, each prefixed by a 32-bit size word. Mirrors
// lzm.c's compress_fd/decompress_fd; the engine itself (package lzm) never
// sees a file handle, only in-memory chunk buffers.
package container

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/lzmcodec/lzm"
)

// headerMagic is HEADER_VALUE from lzm.h, written little-endian so the
// on-disk byte sequence is 4C 5A 4D 31 ("LZM1" read big-endian).
const headerMagic uint32 = 0x314D5A4C

// noCompressionFlag is bit 31 of a chunk's size word (spec.md's
// "chunk framing convention"): set, it means the payload that follows is
// stored raw and the engine must be bypassed on decode. Safe to use as a
// flag only because every valid ChunkSize stays below 1<<31.
const noCompressionFlag uint32 = 0x80000000

// DefaultChunkSize is CHUNK_MAX: the size new Writers use when none is
// given, matching the engine's one hard limit on chunk size.
const DefaultChunkSize = 4 << 20

// headerSize is the 12 on-disk bytes of magic + format + chunk size.
const headerSize = 4 + 4 + 4

var (
	// ErrBadMagic is returned by ReadHeader when the stream does not begin
	// with headerMagic.
	ErrBadMagic = errors.New("container: bad header magic")
	// ErrInvalidChunkSize is returned by ReadHeader for a zero chunk size,
	// and by NewWriter for a chunk size at or above noCompressionFlag (spec
	// requires chunk_size < 2^22, so bit 31 is always free for the flag).
	ErrInvalidChunkSize = errors.New("container: invalid chunk size")
	// ErrTruncated is returned when the stream ends mid-header or mid-record.
	ErrTruncated = errors.New("container: truncated stream")
	// ErrRecordTooLarge is returned when a record's declared size exceeds
	// the stream's chunk size, matching decompress_fd's "Invalid chunk size"
	// check on each record.
	ErrRecordTooLarge = errors.New("container: record exceeds chunk size")
)

// Header is the fixed 12-byte preamble of a .lzm stream.
type Header struct {
	Format    lzm.Format
	ChunkSize uint32
}

// WriteHeader writes the magic, format, and chunk size fields in that
// order, matching compress_fd's three leading write_data calls.
func WriteHeader(w io.Writer, h Header) error {
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], headerMagic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Format))
	binary.LittleEndian.PutUint32(buf[8:12], h.ChunkSize)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads and validates the fixed preamble, matching
// decompress_fd's header/format/chunk_size reads.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, ErrTruncated
	}

	if binary.LittleEndian.Uint32(buf[0:4]) != headerMagic {
		return Header{}, ErrBadMagic
	}

	h := Header{
		Format:    lzm.Format(binary.LittleEndian.Uint32(buf[4:8])),
		ChunkSize: binary.LittleEndian.Uint32(buf[8:12]),
	}
	if h.ChunkSize == 0 || h.ChunkSize >= noCompressionFlag {
		return Header{}, ErrInvalidChunkSize
	}
	return h, nil
}

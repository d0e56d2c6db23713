// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package container

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/lzmcodec/lzm"
)

// Reader unframes a .lzm stream record by record, matching lzm.c's
// decompress_fd loop. NewReader consumes and validates the header; Header
// exposes the values it found for callers that want to report them.
type Reader struct {
	r       io.Reader
	dec     *lzm.DecodeState
	header  Header
	in      []byte
	out     []byte
	pending []byte
	stats   Stats
	done    bool
	err     error
}

// NewReader reads and validates the container header.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	dec, err := lzm.DecodeInit(h.Format)
	if err != nil {
		return nil, err
	}

	return &Reader{
		r:      r,
		dec:    dec,
		header: h,
		in:     make([]byte, h.ChunkSize),
		out:    make([]byte, h.ChunkSize),
		stats:  Stats{TotalIn: headerSize},
	}, nil
}

// Header returns the values NewReader read from the stream's preamble.
func (cr *Reader) Header() Header { return cr.header }

// Stats returns the running byte counts; meaningful once Read has returned
// io.EOF, but readable at any point for progress reporting.
func (cr *Reader) Stats() Stats { return cr.stats }

// Read implements io.Reader, decoding one record at a time into an internal
// buffer and serving bytes out of it across calls.
func (cr *Reader) Read(p []byte) (int, error) {
	for len(cr.pending) == 0 {
		if cr.done {
			return 0, io.EOF
		}
		if cr.err != nil {
			return 0, cr.err
		}
		if err := cr.nextRecord(); err != nil {
			if err == io.EOF {
				cr.done = true
				return 0, io.EOF
			}
			cr.err = err
			return 0, err
		}
	}

	n := copy(p, cr.pending)
	cr.pending = cr.pending[n:]
	return n, nil
}

// nextRecord reads one {size word, payload} record, decompressing it
// (unless it carries the no-compression flag) into cr.pending. Returns
// io.EOF when the stream ends cleanly at a record boundary, matching
// decompress_fd's "bytes == 0 => break" termination.
func (cr *Reader) nextRecord() error {
	var sizeWord [4]byte
	n, err := io.ReadFull(cr.r, sizeWord[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return io.EOF
		}
		return ErrTruncated
	}
	cr.stats.TotalIn += 4

	word := binary.LittleEndian.Uint32(sizeWord[:])
	noCompression := word&noCompressionFlag != 0
	size := word &^ noCompressionFlag

	if size > cr.header.ChunkSize {
		return ErrRecordTooLarge
	}

	payload := cr.in[:size]
	if _, err := io.ReadFull(cr.r, payload); err != nil {
		return ErrTruncated
	}
	cr.stats.TotalIn += uint64(size)

	if noCompression {
		cr.pending = payload
		cr.stats.TotalOut += uint64(size)
		return nil
	}

	m, err := cr.dec.Decode(payload, cr.out)
	if err != nil {
		return err
	}
	cr.pending = cr.out[:m]
	cr.stats.TotalOut += uint64(m)
	return nil
}

// Close releases the decoder. Reader does not own r.
func (cr *Reader) Close() error {
	cr.dec.Finish()
	return nil
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package container

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/lzmcodec/lzm"
)

// Stats accumulates the byte counts compress_fd/decompress_fd report in
// verbose mode.
type Stats struct {
	TotalIn  uint64
	TotalOut uint64
}

// Ratio returns TotalOut/TotalIn as a percentage, 0 if nothing was written.
func (s Stats) Ratio() float64 {
	if s.TotalIn == 0 {
		return 0
	}
	return float64(s.TotalOut) / float64(s.TotalIn) * 100
}

// Writer frames an outgoing .lzm stream: it buffers writes into
// chunkSize-sized chunks, compresses each with an EncodeState shared across
// the whole stream, and falls back to a raw (no-compression-flagged)
// record when even the engine's own OVERFLOW->LevelNone retry doesn't fit.
// Matches lzm.c's compress_fd loop.
type Writer struct {
	w         io.Writer
	enc       *lzm.EncodeState
	chunkSize uint32
	in        []byte
	out       []byte
	pos       int
	stats     Stats
	err       error
}

// NewWriter writes the container header and returns a Writer ready for
// Write calls. chunkSize of 0 selects DefaultChunkSize.
func NewWriter(w io.Writer, format lzm.Format, level lzm.Level, chunkSize uint32) (*Writer, error) {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize >= noCompressionFlag {
		return nil, ErrInvalidChunkSize
	}

	enc, err := lzm.EncodeInit(format, level)
	if err != nil {
		return nil, err
	}

	if err := WriteHeader(w, Header{Format: format, ChunkSize: chunkSize}); err != nil {
		enc.Finish()
		return nil, err
	}

	return &Writer{
		w:         w,
		enc:       enc,
		chunkSize: chunkSize,
		in:        make([]byte, chunkSize),
		out:       make([]byte, chunkSize),
		stats:     Stats{TotalOut: headerSize},
	}, nil
}

// Write buffers p, flushing full chunks as they accumulate. It never
// returns a short write without an error.
func (cw *Writer) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}

	written := 0
	for len(p) > 0 {
		room := int(cw.chunkSize) - cw.pos
		n := len(p)
		if n > room {
			n = room
		}
		copy(cw.in[cw.pos:], p[:n])
		cw.pos += n
		p = p[n:]
		written += n

		if cw.pos == int(cw.chunkSize) {
			if err := cw.flush(); err != nil {
				cw.err = err
				return written, err
			}
		}
	}
	return written, nil
}

// flush compresses and emits the buffered chunk (if any), matching one
// iteration of compress_fd's loop body: try the configured level (which
// itself retries at LevelNone on overflow), then fall back to storing the
// chunk raw behind the no-compression flag if even that overflows the
// chunk-sized output buffer.
func (cw *Writer) flush() error {
	if cw.pos == 0 {
		return nil
	}
	chunk := cw.in[:cw.pos]

	size, err := cw.enc.Encode(chunk, cw.out)
	flag := uint32(0)
	payload := cw.out[:size]

	if errors.Is(err, lzm.ErrOverflow) {
		flag = noCompressionFlag
		payload = chunk
		size = len(chunk)
		err = nil
	}
	if err != nil {
		return err
	}

	var sizeWord [4]byte
	binary.LittleEndian.PutUint32(sizeWord[:], uint32(size)|flag)
	if _, err := cw.w.Write(sizeWord[:]); err != nil {
		return err
	}
	if _, err := cw.w.Write(payload); err != nil {
		return err
	}

	cw.stats.TotalIn += uint64(len(chunk))
	cw.stats.TotalOut += uint64(len(sizeWord) + size)
	cw.pos = 0
	return nil
}

// Close flushes any buffered partial chunk and releases the encoder. The
// stream needs no trailing sentinel: decompress_fd (and Reader) recognize
// the end by a plain EOF where a size word would start.
func (cw *Writer) Close() (Stats, error) {
	err := cw.flush()
	cw.enc.Finish()
	if err != nil {
		cw.err = err
		return cw.stats, err
	}
	return cw.stats, nil
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package container

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lzmcodec/lzm"
)

func writeAll(t *testing.T, format lzm.Format, level lzm.Level, chunkSize uint32, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, format, level, chunkSize)
	require.NoError(t, err)

	_, err = w.Write(data)
	require.NoError(t, err)

	_, err = w.Close()
	require.NoError(t, err)

	return buf.Bytes()
}

func readAll(t *testing.T, framed []byte) []byte {
	t.Helper()

	r, err := NewReader(bytes.NewReader(framed))
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestRoundTrip_SingleAndMultiChunk(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize uint32
		size      int
	}{
		{"empty", 4096, 0},
		{"smaller-than-chunk", 4096, 1000},
		{"exact-chunk", 4096, 4096},
		{"multi-chunk", 4096, 4096*3 + 17},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := bytes.Repeat([]byte("lzm-container-probe-"), (tc.size/20)+1)[:tc.size]

			framed := writeAll(t, lzm.FormatLZM1, lzm.LevelFast, tc.chunkSize, data)
			out := readAll(t, framed)

			require.Equal(t, data, out)
		})
	}
}

func TestRoundTrip_ForcesNoCompressionOnIncompressibleData(t *testing.T) {
	data := make([]byte, 8192)
	_, err := rand.Read(data)
	require.NoError(t, err)

	framed := writeAll(t, lzm.FormatLZM1, lzm.LevelHigh6, 2048, data)

	// Random data cannot fit a 2048-byte chunk into the 2048-byte output
	// buffer, so the first record carries the no-compression flag.
	firstWord := binary.LittleEndian.Uint32(framed[headerSize : headerSize+4])
	require.NotZero(t, firstWord&noCompressionFlag)

	r, err := NewReader(bytes.NewReader(framed))
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, data, out)

	stats := r.Stats()
	require.GreaterOrEqual(t, stats.TotalOut, uint64(len(data)))
}

func TestReadHeader_RejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 16, 0, 0})
	_, err := ReadHeader(buf)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestReadHeader_RejectsZeroChunkSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{Format: lzm.FormatLZM1, ChunkSize: 0}))

	_, err := ReadHeader(&buf)
	require.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestReadHeader_TruncatedStream(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestNewWriter_RejectsChunkSizeAtFlagBit(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, lzm.FormatLZM1, lzm.LevelFast, noCompressionFlag)
	require.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestReader_RejectsRecordLargerThanChunkSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{Format: lzm.FormatLZM1, ChunkSize: 16}))

	// A record claiming 1000 bytes of payload against a 16-byte chunk size.
	sizeWord := []byte{0xE8, 0x03, 0, 0}
	buf.Write(sizeWord)

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	_, err = io.ReadAll(r)
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestWriter_PreservesTrailingPartialChunk(t *testing.T) {
	data := []byte("trailing partial chunk that does not fill the buffer")
	framed := writeAll(t, lzm.FormatLZM1, lzm.LevelHigh3, 4096, data)
	out := readAll(t, framed)

	require.Equal(t, data, out)
}

// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (adapted)

package lzm

import (
	"bytes"
	"testing"
)

func TestDecode_InvalidArguments(t *testing.T) {
	if _, err := DecodeInit(Format(99)); err == nil {
		t.Fatal("expected error for unknown format")
	}

	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	if _, err := dec.Decode([]byte{0x01}, nil); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for nil out, got %v", err)
	}
	if _, err := dec.Decode(nil, make([]byte, 64)); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for nil in, got %v", err)
	}
}

func TestDecode_MissingTerminatorIsIO(t *testing.T) {
	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	// One real literal+match token ("hi" followed by a 4-byte
	// back-reference at offset 1) that exhausts the input with no
	// terminator (offset 0) token following.
	stream := []byte{0x20, 0x03, 'h', 'i'}
	out := make([]byte, 6)
	if _, err := dec.Decode(stream, out); err != ErrIO {
		t.Fatalf("expected ErrIO for missing terminator, got %v", err)
	}
}

func TestDecode_TruncatedInputAlwaysFails(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 256)
	cmp := roundTrip(t, LevelHigh6, data)

	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	maxCut := min(32, len(cmp)-1)
	for cut := 1; cut <= maxCut; cut++ {
		truncated := cmp[:len(cmp)-cut]
		out := make([]byte, len(data))
		if _, err := dec.Decode(truncated, out); err == nil {
			t.Fatalf("expected error for cut=%d", cut)
		}
	}
}

func TestDecode_OffsetExceedsProducedBytes(t *testing.T) {
	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	// Control byte: 0 literals, match length nibble 0 (biased to
	// MIN_MATCH). The offset field requests offset 5, but nothing has
	// been produced yet, so the decoder must reject it.
	stream := append([]byte{0x00}, putOffsetBytes(5)...)

	out := make([]byte, 32)
	if _, err := dec.Decode(stream, out); err != ErrIO {
		t.Fatalf("expected ErrIO for offset exceeding produced bytes, got %v", err)
	}
}

func putOffsetBytes(offset uint32) []byte {
	buf := make([]byte, 8)
	n := putOffset(buf, 0, offset)
	return buf[:n]
}

func TestDecode_TrailingBytesAreIgnored(t *testing.T) {
	data := bytes.Repeat([]byte("trailing-bytes-ok"), 64)
	cmp := roundTrip(t, LevelFast, data)

	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	withTail := append(append([]byte{}, cmp...), []byte("garbage-tail")...)
	out := make([]byte, len(data))
	n, err := dec.Decode(withTail, out)
	if err != nil {
		t.Fatalf("Decode with trailing bytes failed: %v", err)
	}
	if !bytes.Equal(out[:n], data) {
		t.Fatal("decoded output mismatch for trailing-byte input")
	}
}

func TestDecode_OutputTooSmall(t *testing.T) {
	data := bytes.Repeat([]byte("AABBCCDDEEFF"), 512)
	cmp := roundTrip(t, LevelHigh4, data)

	dec, err := DecodeInit(FormatLZM1)
	if err != nil {
		t.Fatalf("DecodeInit: %v", err)
	}
	defer dec.Finish()

	out := make([]byte, len(data)-1)
	if _, err := dec.Decode(cmp, out); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow for undersized out, got %v", err)
	}
}

func TestCopyBackRef(t *testing.T) {
	t.Run("non-overlapping", func(t *testing.T) {
		dst := []byte("abcdefghXXXXXXXX")
		copyBackRef(dst, 8, 8, 4)
		if got, want := string(dst), "abcdefghabcdXXXX"; got != want {
			t.Fatalf("unexpected dst: got %q want %q", got, want)
		}
	})

	t.Run("overlapping", func(t *testing.T) {
		dst := []byte{'A', 'B', 'C', 0, 0, 0, 0, 0}
		copyBackRef(dst, 3, 3, 5)
		if got, want := string(dst), "ABCABCAB"; got != want {
			t.Fatalf("unexpected dst: got %q want %q", got, want)
		}
	})

	t.Run("offset-one-run", func(t *testing.T) {
		dst := []byte{'Z', 0, 0, 0, 0}
		copyBackRef(dst, 1, 1, 4)
		if got, want := string(dst), "ZZZZZ"; got != want {
			t.Fatalf("unexpected dst: got %q want %q", got, want)
		}
	})
}

package maplog

import (
	"bufio"
	"bytes"
	"testing"
)

func TestBinaryCodec_InsertRoundTrip(t *testing.T) {
	block, err := binaryBlockOfInsert("a", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := bufio.NewReader(bytes.NewReader(block))
	op, eof, err := readBinaryRecord[string, int](r, nil, 1)
	if err != nil || eof {
		t.Fatalf("err=%v eof=%v", err, eof)
	}
	if op.Kind != OpInsert || op.Key != "a" || op.Value != 1 {
		t.Fatalf("got %+v", op)
	}
}

func TestBinaryCodec_RemoveRoundTrip(t *testing.T) {
	block, err := binaryBlockOfRemove("a", nil)
	if err != nil {
		t.Fatal(err)
	}
	r := bufio.NewReader(bytes.NewReader(block))
	op, eof, err := readBinaryRecord[string, int](r, nil, 1)
	if err != nil || eof {
		t.Fatalf("err=%v eof=%v", err, eof)
	}
	if op.Kind != OpRemove || op.Key != "a" {
		t.Fatalf("got %+v", op)
	}
}

func TestBinaryCodec_MultipleRecordsStreamInOrder(t *testing.T) {
	var buf bytes.Buffer
	b1, _ := binaryBlockOfInsert("a", 1, nil)
	b2, _ := binaryBlockOfInsert("b", 2, nil)
	b3, _ := binaryBlockOfRemove("a", nil)
	buf.Write(b1)
	buf.Write(b2)
	buf.Write(b3)

	r := bufio.NewReader(&buf)
	var ops []MapOperation[string, int]
	for {
		op, eof, err := readBinaryRecord[string, int](r, nil, uint64(len(ops)+1))
		if err != nil {
			t.Fatal(err)
		}
		if eof {
			break
		}
		ops = append(ops, op)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d ops, want 3", len(ops))
	}
	if ops[0].Key != "a" || ops[0].Value != 1 || ops[0].Kind != OpInsert {
		t.Fatalf("ops[0] = %+v", ops[0])
	}
	if ops[2].Key != "a" || ops[2].Kind != OpRemove {
		t.Fatalf("ops[2] = %+v", ops[2])
	}
}

func TestBinaryCodec_CRC32DetectsTamper(t *testing.T) {
	integrity := &IntegrityConfig{Kind: IntegrityCRC32}
	block, err := binaryBlockOfInsert("a", 1, integrity)
	if err != nil {
		t.Fatal(err)
	}
	block[len(block)-1] ^= 0xff

	reader := &IntegrityConfig{Kind: IntegrityCRC32}
	r := bufio.NewReader(bytes.NewReader(block))
	if _, _, err := readBinaryRecord[string, int](r, reader, 1); err == nil {
		t.Fatal("expected a CRC mismatch error")
	}
}

func TestBinaryCodec_UnknownOpcodeFails(t *testing.T) {
	block, err := binaryBlockOfInsert("a", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	// corrupt the op byte (first byte of the record_block, right after the
	// 2-byte len_prefix for a block this small).
	block[2] = 0x7f

	r := bufio.NewReader(bytes.NewReader(block))
	if _, _, err := readBinaryRecord[string, int](r, nil, 1); err == nil {
		t.Fatal("expected ErrUnknownOpcode")
	}
}

func TestBinaryCodec_ZeroLengthPrefixIsError(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{binLenClassU8, 0x00}))
	if _, _, err := readBinaryRecord[string, int](r, nil, 1); err == nil {
		t.Fatal("expected a zero-length block error")
	}
}

func TestBinaryCodec_CleanEOF(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(nil))
	_, eof, err := readBinaryRecord[string, int](r, nil, 1)
	if err != nil || !eof {
		t.Fatalf("err=%v eof=%v; want nil, true", err, eof)
	}
}

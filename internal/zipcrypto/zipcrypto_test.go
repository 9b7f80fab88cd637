package zipcrypto

import (
	"hash/crc32"
	"testing"

	"zipcrack/internal/testfixture"
)

func TestCRC32ReferenceValue(t *testing.T) {
	if got := crc32.ChecksumIEEE([]byte("Test")); got != 0x784DD132 {
		t.Fatalf("crc32(%q) = %#x, want 0x784DD132", "Test", got)
	}
}

func TestResetRejectsWrongPassword(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("hello world"), Password: "test", ModTime: 0x2151},
	})

	header := archive[len(archive)-len("hello world")-12 : len(archive)-len("hello world")]
	var e Engine
	if !e.Reset([]byte("test"), header, 0x2151) {
		t.Fatalf("Reset with correct password should succeed")
	}

	var e2 Engine
	if e2.Reset([]byte("nope"), header, 0x2151) {
		t.Fatalf("Reset with wrong password should fail (unless by sheer 2^-16 chance)")
	}
}

func TestTransformRoundTrip(t *testing.T) {
	plain := []byte("the quick brown fox jumps over the lazy dog")
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: plain, Password: "swordfish", ModTime: 0x1234},
	})

	payloadStart := len(archive) - len(plain) - 12
	payload := archive[payloadStart:]

	var e Engine
	if !e.Reset([]byte("swordfish"), payload[:12], 0x1234) {
		t.Fatalf("Reset should succeed with the correct password")
	}

	var got []byte
	e.Transform(payload[12:], func(chunk []byte) {
		got = append(got, chunk...)
	})

	if string(got) != string(plain) {
		t.Fatalf("Transform = %q, want %q", got, plain)
	}
}

func TestReaderDecryptsOnDemand(t *testing.T) {
	plain := make([]byte, 9000)
	for i := range plain {
		plain[i] = byte(i)
	}
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.bin", Plain: plain, Password: "p", ModTime: 0x4242},
	})
	payloadStart := len(archive) - len(plain) - 12
	payload := archive[payloadStart:]

	var e Engine
	if !e.Reset([]byte("p"), payload[:12], 0x4242) {
		t.Fatalf("Reset should succeed")
	}

	r := e.NewReader(payload[12:])
	buf := make([]byte, len(plain))
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			break
		}
	}
	if string(buf) != string(plain) {
		t.Fatalf("Reader round trip mismatch")
	}
}

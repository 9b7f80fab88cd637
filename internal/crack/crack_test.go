package crack

import (
	"testing"

	"zipcrack/internal/candidate"
	"zipcrack/internal/testfixture"
	"zipcrack/internal/zipfile"
)

func TestVerifyAcceptsCorrectPasswordStored(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("hello, world"), Password: "swordfish", ModTime: 0x1111},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	a := NewAttempt()
	if !a.Verify(entries[0], []byte("swordfish")) {
		t.Fatalf("Verify should accept the correct password")
	}
	if a.Verify(entries[0], []byte("wrong")) {
		t.Fatalf("Verify should reject the wrong password")
	}
}

func TestVerifyRejectsUnencryptedEntry(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("hello, world"), ModTime: 0x1111, Unencrypted: true},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if entries[0].IsEncrypted() {
		t.Fatalf("fixture entry should not be marked encrypted")
	}
	a := NewAttempt()
	if a.Verify(entries[0], []byte("anything")) {
		t.Fatalf("Verify should reject an entry that isn't encrypted, regardless of password")
	}
}

func TestVerifyAcceptsCorrectPasswordDeflated(t *testing.T) {
	plain := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compression")
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "b.txt", Plain: plain, Password: "hunter2", Deflate: true, ModTime: 0x2222},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	a := NewAttempt()
	if !a.Verify(entries[0], []byte("hunter2")) {
		t.Fatalf("Verify should accept the correct password")
	}
	if a.Verify(entries[0], []byte("hunter3")) {
		t.Fatalf("Verify should reject a near-miss password")
	}
}

func TestVerifyStreamingZip64WithDataDescriptor(t *testing.T) {
	plain := make([]byte, 5000)
	for i := range plain {
		plain[i] = byte(i * 3)
	}
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "big.bin", Plain: plain, Password: "p4ss", Deflate: true, ModTime: 0x3333, Streaming: true},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !entries[0].IsZip64() {
		t.Fatalf("expected the entry to report ZIP64 sentinels")
	}
	if !entries[0].HasDataDescriptor() {
		t.Fatalf("expected the entry to report a trailing data descriptor")
	}
	a := NewAttempt()
	if !a.Verify(entries[0], []byte("p4ss")) {
		t.Fatalf("Verify should accept the correct password through the streaming path")
	}
}

func TestVerifyEmptyPayloadDeflated(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "empty.txt", Plain: []byte{}, Password: "x", Deflate: true, ModTime: 0x4444, Streaming: true},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	a := NewAttempt()
	if !a.Verify(entries[0], []byte("x")) {
		t.Fatalf("Verify should accept the correct password for an empty entry")
	}
}

func TestSearchDictionaryFindsPassword(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("secret contents"), Password: "password", ModTime: 0x5555},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	dict := []byte("hello\nworld\npassword\nlist\n")
	src := candidate.NewDictionarySource(dict)

	res := SearchDictionary(entries, src, Options{Workers: 4})
	if !res.Found {
		t.Fatalf("expected to find the password")
	}
	if string(res.Password) != "password" {
		t.Fatalf("found %q, want %q", res.Password, "password")
	}
}

func TestSearchDictionaryNoMatch(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("secret contents"), Password: "unlisted", ModTime: 0x6666},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	dict := []byte("hello\nworld\npassword\nlist\n")
	src := candidate.NewDictionarySource(dict)

	res := SearchDictionary(entries, src, Options{Workers: 2})
	if res.Found {
		t.Fatalf("expected no match, got %q", res.Password)
	}
}

func TestSearchBruteFindsPassword(t *testing.T) {
	// "ab" is index 2 of the [ab] alphabet's space; note "ba" would not be
	// reachable at all, since multi-character candidates never end in the
	// alphabet's first byte (that suffix is covered by the shorter form).
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("tiny secret"), Password: "ab", ModTime: 0x7777},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	src, err := candidate.NewBruteSource("[ab]", 2)
	if err != nil {
		t.Fatalf("NewBruteSource: %v", err)
	}

	res := SearchBrute(entries, src, Options{Workers: 3})
	if !res.Found {
		t.Fatalf("expected to find the password")
	}
	if string(res.Password) != "ab" {
		t.Fatalf("found %q, want %q", res.Password, "ab")
	}
}

func TestSearchBruteNoMatchWithinSpace(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("tiny secret"), Password: "zz", ModTime: 0x8888},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	src, err := candidate.NewBruteSource("[ab]", 2)
	if err != nil {
		t.Fatalf("NewBruteSource: %v", err)
	}

	res := SearchBrute(entries, src, Options{Workers: 2})
	if res.Found {
		t.Fatalf("expected no match since %q is outside the alphabet, got %q", "zz", res.Password)
	}
}

func TestSearchBruteMultipleEntriesAnyMatch(t *testing.T) {
	archive := testfixture.Build([]testfixture.Entry{
		{Name: "a.txt", Plain: []byte("first"), Password: "ab", ModTime: 0x1},
		{Name: "b.txt", Plain: []byte("second"), Password: "bb", ModTime: 0x2},
	})
	entries, err := zipfile.Walk(archive)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	src, err := candidate.NewBruteSource("[ab]", 2)
	if err != nil {
		t.Fatalf("NewBruteSource: %v", err)
	}

	res := SearchBrute(entries, src, Options{Workers: 4})
	if !res.Found {
		t.Fatalf("expected to find a password that opens at least one entry")
	}
	if string(res.Password) != "ab" && string(res.Password) != "bb" {
		t.Fatalf("found %q, want %q or %q", res.Password, "ab", "bb")
	}
}

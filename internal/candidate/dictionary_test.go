package candidate

import "testing"

func drainAll(c *DictionaryCursor) [][]byte {
	var out [][]byte
	for !c.Done() {
		out = append(out, c.Next())
	}
	return out
}

func TestDictionarySourceSplitsLines(t *testing.T) {
	data := []byte("hello\nworld\npassword\nlist\n")
	d := NewDictionarySource(data)
	c := d.NewCursor(0, len(data))

	want := []string{"hello", "world", "password", "list"}
	got := drainAll(c)
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("line %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestDictionarySourceNoTrailingNewline(t *testing.T) {
	data := []byte("first\nsecond")
	d := NewDictionarySource(data)
	c := d.NewCursor(0, len(data))

	got := drainAll(c)
	want := []string{"first", "second"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("line %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestDictionarySourceStripsCarriageReturn(t *testing.T) {
	data := []byte("one\r\ntwo\r\n")
	d := NewDictionarySource(data)
	c := d.NewCursor(0, len(data))

	got := drainAll(c)
	if string(got[0]) != "one" || string(got[1]) != "two" {
		t.Fatalf("CRLF not stripped: %q", got)
	}
}

func TestDictionarySourcePartitionRealignsToLineBoundary(t *testing.T) {
	data := []byte("aaa\nbbb\nccc\nddd\n")
	d := NewDictionarySource(data)

	mid := d.LineBoundaryAfter(5) // lands inside "bbb\n", realigns to after it
	first := drainAll(d.NewCursor(0, mid))
	second := drainAll(d.NewCursor(mid, len(data)))

	total := len(first) + len(second)
	if total != 4 {
		t.Fatalf("partitioned cursors yielded %d lines total, want 4", total)
	}
	for _, l := range first {
		if string(l) != "aaa" && string(l) != "bbb" {
			t.Fatalf("unexpected line %q in first partition", l)
		}
	}
}

func TestDictionarySourceEmptyLinesYielded(t *testing.T) {
	data := []byte("a\n\nb\n")
	d := NewDictionarySource(data)
	got := drainAll(d.NewCursor(0, len(data)))
	if len(got) != 3 || len(got[1]) != 0 {
		t.Fatalf("expected an empty middle line, got %q", got)
	}
}

package server

import (
	"reflect"
	"testing"
)

func TestDrainLinesSplitsComplete(t *testing.T) {
	r := newRingBuffer()
	r.Append([]byte("hello\r\nworld\n partial"))
	got := r.DrainLines()
	want := []string{"hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	r.Append([]byte(" line\n"))
	got = r.DrainLines()
	want = []string{" partial line"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestAppendTruncatesWhenFull(t *testing.T) {
	r := newRingBuffer()
	big := make([]byte, BufferSize+100)
	for i := range big {
		big[i] = 'x'
	}
	truncated := r.Append(big)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if len(r.buf) != BufferSize {
		t.Fatalf("got %d bytes, want %d", len(r.buf), BufferSize)
	}
}

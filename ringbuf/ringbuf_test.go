package ringbuf

import "testing"

func TestBytesPutGetWraps(t *testing.T) {
	b := NewBytes(3)
	b.Put(1)
	b.Put(2)
	b.Put(3)
	if b.FreeSize() != 0 {
		t.Fatalf("FreeSize = %d, want 0", b.FreeSize())
	}
	if got := b.Get(); got != 1 {
		t.Fatalf("Get = %d, want 1", got)
	}
	b.Put(4) // wraps around to index 0
	want := []byte{2, 3, 4}
	for _, w := range want {
		if got := b.Get(); got != w {
			t.Fatalf("Get = %d, want %d", got, w)
		}
	}
	if b.Count() != 0 {
		t.Fatalf("Count = %d, want 0", b.Count())
	}
}

func TestBytesWriteAllOrNothing(t *testing.T) {
	b := NewBytes(2)
	if b.Write([]byte{1, 2, 3}) {
		t.Fatalf("Write should reject a payload larger than capacity")
	}
	if b.Count() != 0 {
		t.Fatalf("failed Write must not partially fill the buffer")
	}
	if !b.Write([]byte{1, 2}) {
		t.Fatalf("Write of exactly free size should succeed")
	}
	if b.Count() != 2 {
		t.Fatalf("Count = %d, want 2", b.Count())
	}
}

func TestBytesReadBounded(t *testing.T) {
	b := NewBytes(4)
	b.Write([]byte{1, 2})
	out := make([]byte, 4)
	n := b.Read(out)
	if n != 2 {
		t.Fatalf("Read returned %d, want 2", n)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Fatalf("Read contents = %v, want [1 2 ...]", out[:2])
	}
}

func TestBytesClear(t *testing.T) {
	b := NewBytes(4)
	b.Write([]byte{1, 2, 3})
	b.Clear()
	if b.Count() != 0 || b.FreeSize() != 4 {
		t.Fatalf("Clear did not reset buffer state")
	}
}

func TestRingPushPopWraps(t *testing.T) {
	r := NewRing[string](2)
	if !r.PushBack("a") {
		t.Fatalf("PushBack a should succeed")
	}
	if !r.PushBack("b") {
		t.Fatalf("PushBack b should succeed")
	}
	if r.PushBack("c") {
		t.Fatalf("PushBack on a full ring should fail")
	}
	if got := r.PopFront(); got != "a" {
		t.Fatalf("PopFront = %q, want a", got)
	}
	if !r.PushBack("c") {
		t.Fatalf("PushBack after freeing a slot should succeed")
	}
	if got := r.PopFront(); got != "b" {
		t.Fatalf("PopFront = %q, want b", got)
	}
	if got := r.PopFront(); got != "c" {
		t.Fatalf("PopFront = %q, want c", got)
	}
}

func TestRingAt(t *testing.T) {
	r := NewRing[int](3)
	r.PushBack(10)
	r.PushBack(20)
	r.PushBack(30)
	r.PopFront()
	r.PushBack(40) // wraps
	if r.At(0) != 20 {
		t.Fatalf("At(0) = %d, want 20", r.At(0))
	}
	if r.At(2) != 40 {
		t.Fatalf("At(2) = %d, want 40", r.At(2))
	}
}

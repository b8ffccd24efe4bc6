package buffer

import (
	"errors"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.Revision() != 0 {
		t.Errorf("expected revision 0, got %d", b.Revision())
	}
}

func TestNewBufferFromStringNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("gm\r\nnostr\rpv")

	if b.Text() != "gm\nnostr\npv" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("gm nostr")

	end, err := b.Insert(2, ",")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 3 {
		t.Errorf("expected end 3, got %d", end)
	}
	if b.Text() != "gm, nostr" {
		t.Errorf("expected %q, got %q", "gm, nostr", b.Text())
	}
	if b.Revision() != 1 {
		t.Errorf("expected revision 1, got %d", b.Revision())
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("abc")

	tests := []struct {
		name   string
		offset ByteOffset
	}{
		{"negative", -1},
		{"past end", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Insert(tt.offset, "x")
			if !errors.Is(err, ErrOffsetOutOfRange) {
				t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
			}
		})
	}

	if b.Revision() != 0 {
		t.Error("failed inserts should not bump the revision")
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("gm, nostr")

	if err := b.Delete(0, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "nostr" {
		t.Errorf("expected %q, got %q", "nostr", b.Text())
	}

	if err := b.Delete(3, 2); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if err := b.Delete(0, 99); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("hello world")

	end, err := b.Replace(6, 11, "nostr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 11 {
		t.Errorf("expected end 11, got %d", end)
	}
	if b.Text() != "hello nostr" {
		t.Errorf("expected %q, got %q", "hello nostr", b.Text())
	}
}

func TestBufferTextRangeClamps(t *testing.T) {
	b := NewBufferFromString("abcdef")

	tests := []struct {
		start, end ByteOffset
		want       string
	}{
		{0, 3, "abc"},
		{-5, 2, "ab"},
		{4, 100, "ef"},
		{4, 2, ""},
	}

	for _, tt := range tests {
		if got := b.TextRange(tt.start, tt.end); got != tt.want {
			t.Errorf("TextRange(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	if r.Len() != 3 {
		t.Errorf("expected len 3, got %d", r.Len())
	}
	if r.IsEmpty() {
		t.Error("range should not be empty")
	}
	if !r.IsValid() {
		t.Error("range should be valid")
	}
	if r.String() != "[2:5)" {
		t.Errorf("unexpected string %q", r.String())
	}
	if NewRange(3, 1).IsValid() {
		t.Error("inverted range should be invalid")
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.Insert(0, "x")
			_ = b.Text()
		}()
	}
	wg.Wait()

	if b.Len() != 50 {
		t.Errorf("expected length 50, got %d", b.Len())
	}
}

package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(0xdead0000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	ptr, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if ptr != 0xdead0000 {
		t.Fatalf("Expected 0xdead0000, got %#x", ptr)
	}

	ptr, ok = b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if ptr != 0xdead0000 {
		t.Fatalf("Expected 0xdead0000, got %#x", ptr)
	}

	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if _, ok := b.Drop(handle); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_NullPointer(t *testing.T) {
	b := NewLocalBackend()

	h, err := b.Create(0)
	if err != nil || h == 0 {
		t.Fatalf("Create(0) = %d, %v", h, err)
	}
	ptr, ok := b.Get(h)
	if !ok || ptr != 0 {
		t.Fatalf("Get = %#x, %v", ptr, ok)
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(1)
	h2, _ := b.Create(2)
	h3, _ := b.Create(3)

	b.Drop(h2)
	b.Drop(h1)

	// Freed slots are reused last-in first-out
	h4, _ := b.Create(4)
	h5, _ := b.Create(5)
	if h4 != h1 || h5 != h2 {
		t.Errorf("reused handles = %d, %d, want %d, %d", h4, h5, h1, h2)
	}

	for h, want := range map[Handle]uint64{h3: 3, h4: 4, h5: 5} {
		if ptr, ok := b.Get(h); !ok || ptr != want {
			t.Errorf("Get(%d) = %d, %v, want %d", h, ptr, ok, want)
		}
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()

	b.Create(1)
	b.Create(2)

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	_, err := b.Create(3)
	if !errors.Is(err, ErrClosed) {
		t.Fatal("Expected ErrClosed after Close")
	}
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0 after Close, got %d", b.Len())
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create(uint64(id) + 1)
			if ptr, ok := b.Get(h); !ok || ptr != uint64(id)+1 {
				t.Errorf("Get(%d) = %d, %v", h, ptr, ok)
			}
			b.Drop(h)
		}(i)
	}

	wg.Wait()
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	h1, _ := b.Create(1)
	h2, _ := b.Create(2)
	b.Create(3)

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()

	b.Create(10)
	b.Create(20)
	b.Create(30)

	var sum uint64
	b.Each(func(h Handle, ptr uint64) bool {
		sum += ptr
		return true
	})
	if sum != 60 {
		t.Fatalf("Expected pointer sum 60, got %d", sum)
	}

	count := 0
	b.Each(func(h Handle, ptr uint64) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	// Handle 0 is always invalid
	if _, ok := b.Get(0); ok {
		t.Fatal("Handle 0 should be invalid")
	}
	if _, ok := b.Drop(0); ok {
		t.Fatal("Handle 0 should fail Drop")
	}

	if _, ok := b.Get(999); ok {
		t.Fatal("Non-existent handle should be invalid")
	}
	if _, ok := b.Drop(999); ok {
		t.Fatal("Non-existent handle should fail Drop")
	}
}

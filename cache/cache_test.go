package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryGetPut(t *testing.T) {
	c := NewMemory()

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Put("k", []byte("v1"))
	got, ok := c.Get("k")
	if !ok || string(got) != "v1" {
		t.Errorf("Get(k) = %q, %v; want v1, true", got, ok)
	}

	c.Put("k", []byte("v2"))
	got, _ = c.Get("k")
	if string(got) != "v2" {
		t.Errorf("Put should overwrite: got %q, want v2", got)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	c := NewMemory()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			c.Put(key, []byte("x"))
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Size() != 10 {
		t.Errorf("size: got %d, want 10", c.Size())
	}
}

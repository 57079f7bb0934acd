package localid

import (
	"sort"
	"sync"
	"testing"
)

func TestNextUniqueness(t *testing.T) {
	g := NewGenerator("d-")

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate ID issued: %s", id)
		}
		seen[id] = true
	}
}

func TestNextConcurrent(t *testing.T) {
	g := NewGenerator("")

	const workers = 16
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := g.Next()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate ID issued: %s", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if got := g.Count(); got != workers*perWorker {
		t.Errorf("Count() = %d, want %d", got, workers*perWorker)
	}
}

func TestEncodeBase62Sortable(t *testing.T) {
	inputs := []int64{0, 1, 61, 62, 1000, 1_700_000_000, 1_700_000_001}

	encoded := make([]string, len(inputs))
	for i, n := range inputs {
		encoded[i] = encodeBase62(n, 6)
	}

	if !sort.StringsAreSorted(encoded) {
		t.Errorf("base62 encodings not in sorted order: %v", encoded)
	}
}

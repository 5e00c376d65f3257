package counter_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pattern-classroom/quizsvc/internal/counter"
)

func TestMemCounterSequencesPerPair(t *testing.T) {
	c := counter.NewMemCounter()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, err := c.Next(ctx, "u1", "mq1")
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Fatalf("u1/mq1 = %d, want %d", n, want)
		}
	}

	// other pairs have their own sequence
	for _, pair := range [][2]string{{"u1", "mq2"}, {"u2", "mq1"}} {
		n, err := c.Next(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Fatalf("%v = %d, want 1", pair, n)
		}
	}
}

func TestMemCounterConcurrentIssueIsGapFree(t *testing.T) {
	c := counter.NewMemCounter()
	const workers = 16

	var mu sync.Mutex
	seen := map[int]bool{}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := c.Next(context.Background(), "u1", "mq1")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != workers {
		t.Fatalf("issued %d distinct numbers, want %d", len(seen), workers)
	}
	for n := 1; n <= workers; n++ {
		if !seen[n] {
			t.Fatalf("gap at %d", n)
		}
	}
}

package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Handles handed out by the cache are read concurrently by other goroutines
// while the owning goroutine keeps inserting and evicting. The cache never
// writes through a handle, so this must pass under `-race`.
func TestRace_HandlesReadWhileOwnerEvicts(t *testing.T) {
	c, err := New[int, []byte](Options[int, []byte]{MaxCost: 16})
	require.NoError(t, err)

	const readers, rounds = 8, 2_000
	handles := make(chan *[]byte, readers)

	var g errgroup.Group
	for r := 0; r < readers; r++ {
		g.Go(func() error {
			for h := range handles {
				if len(*h) != 4 || (*h)[0] != 'v' {
					return fmt.Errorf("corrupted handle %q", *h)
				}
			}
			return nil
		})
	}

	// Single owner: all cache calls happen on this goroutine.
	for i := 0; i < rounds; i++ {
		v := []byte(fmt.Sprintf("v%03d", i%1000))
		h, ok := c.PutWithCost(i, &v, int64(1+i%4))
		require.True(t, ok)
		handles <- h
		require.LessOrEqual(t, c.TotalCost(), c.MaxCost())
	}
	close(handles)
	require.NoError(t, g.Wait())
}

// Ownership is documented as external: callers share a cache by wrapping it.
// Concurrent writers behind a mutex keep every invariant.
func TestRace_ExternallyLocked(t *testing.T) {
	c, err := New[string, int](Options[string, int]{MaxCost: 64})
	require.NoError(t, err)
	var mu sync.Mutex

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				k := fmt.Sprintf("w%d:%d", w, i%100)
				v := i
				mu.Lock()
				switch i % 5 {
				case 0:
					c.Remove(k)
				case 1:
					c.Get(k)
				default:
					c.PutWithCost(k, &v, int64(i%3))
				}
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.LessOrEqual(t, c.TotalCost(), c.MaxCost())
	require.Equal(t, c.Len(), len(c.Keys()))
}

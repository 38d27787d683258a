package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/cache"
)

func TestLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("get and put", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)

		_, ok := c.Get("a")
		assert.False(t, ok)

		c.Put("a", 1)
		c.Put("a", 2)
		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)

		var evicted []string
		c.SetEvictCallback(func(k string, _ int) { evicted = append(evicted, k) })

		c.Put("a", 1)
		c.Put("b", 2)
		c.Get("a")
		c.Put("c", 3)

		_, ok := c.Get("b")
		assert.False(t, ok)
		assert.Equal(t, []string{"b"}, evicted)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[int, string](0)

		c.Put(1, "one")
		c.Put(2, "two")
		v, ok := c.Remove(1)
		assert.True(t, ok)
		assert.Equal(t, "one", v)
		_, ok = c.Remove(1)
		assert.False(t, ok)

		c.Clear()
		assert.Zero(t, c.Len())
	})

	t.Run("concurrent use", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[int, int](16)

		var wg sync.WaitGroup
		for g := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					c.Put(g*100+i, i)
					c.Get(i)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 16, c.Len())
	})
}

package naya_test

import (
	"testing"

	"naya-cli/internal/naya"
)

func TestCommentsCache(t *testing.T) {
	comment := func(id, content string) naya.Comment {
		return naya.Comment{ID: id, Content: content}
	}

	t.Run("get misses until put", func(t *testing.T) {
		c := naya.NewCommentsCache()
		if _, _, ok := c.Get("r1"); ok {
			t.Error("Get() hit on an empty cache")
		}

		c.Put("r1", []naya.Comment{comment("c1", "nice")}, 1)
		comments, total, ok := c.Get("r1")
		if !ok || total != 1 || len(comments) != 1 {
			t.Errorf("Get() = %v, %d, %v", comments, total, ok)
		}
	})

	t.Run("append grows a cached thread", func(t *testing.T) {
		c := naya.NewCommentsCache()
		c.Put("r1", []naya.Comment{comment("c1", "nice")}, 1)

		total := c.Append("r1", comment("c2", "agreed"), 0)
		if total != 2 {
			t.Errorf("Append() = %d, want 2", total)
		}
		comments, _, _ := c.Get("r1")
		if len(comments) != 2 || comments[1].ID != "c2" {
			t.Errorf("comments = %v", comments)
		}
	})

	t.Run("append to an unloaded thread uses the fallback total", func(t *testing.T) {
		c := naya.NewCommentsCache()
		total := c.Append("r1", comment("c1", "first"), 4)
		if total != 5 {
			t.Errorf("Append() = %d, want 5", total)
		}
	})

	t.Run("drop removes by id and decrements once", func(t *testing.T) {
		c := naya.NewCommentsCache()
		c.Put("r1", []naya.Comment{comment("c1", "one"), comment("c2", "two")}, 2)

		total, cached := c.Drop("r1", "c1")
		if !cached || total != 1 {
			t.Errorf("Drop() = %d, %v", total, cached)
		}

		// Dropping the same comment again changes nothing.
		total, cached = c.Drop("r1", "c1")
		if !cached || total != 1 {
			t.Errorf("second Drop() = %d, %v", total, cached)
		}
	})

	t.Run("drop reports an uncached thread", func(t *testing.T) {
		c := naya.NewCommentsCache()
		if _, cached := c.Drop("r1", "c1"); cached {
			t.Error("Drop() claimed a hit on an empty cache")
		}
	})

	t.Run("returned slices do not alias the cache", func(t *testing.T) {
		c := naya.NewCommentsCache()
		c.Put("r1", []naya.Comment{comment("c1", "original")}, 1)

		comments, _, _ := c.Get("r1")
		comments[0].Content = "mutated"

		fresh, _, _ := c.Get("r1")
		if fresh[0].Content != "original" {
			t.Error("caller mutation leaked into the cache")
		}
	})

	t.Run("invalidate and reset clear entries", func(t *testing.T) {
		c := naya.NewCommentsCache()
		c.Put("r1", nil, 3)
		c.Put("r2", nil, 1)

		c.Invalidate("r1")
		if _, _, ok := c.Get("r1"); ok {
			t.Error("r1 survived Invalidate()")
		}

		c.Reset()
		if _, _, ok := c.Get("r2"); ok {
			t.Error("r2 survived Reset()")
		}
	})
}

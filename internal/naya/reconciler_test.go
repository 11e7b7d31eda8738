package naya_test

import (
	"fmt"
	"sync"
	"testing"

	"naya-cli/internal/naya"
)

func review(id string, likes int) *naya.Review {
	return &naya.Review{
		ID:         id,
		Title:      "Review " + id,
		Content:    "ten characters at least",
		Rating:     4,
		LikesCount: likes,
	}
}

func newCollections() *naya.ReviewCollections {
	return naya.NewReviewCollections(naya.NewNopLogger())
}

func TestReviewCollections_ApplyLikeSummary(t *testing.T) {
	t.Run("updates every list holding a copy", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 3), review("7", 0)})
		c.ReplaceList(naya.ListMap, []*naya.Review{review("42", 3)})
		c.ReplaceList(naya.ListPosted, []*naya.Review{review("42", 3)})

		c.ApplyLikeSummary("42", 4, true)

		for _, kind := range []naya.ListKind{naya.ListFeed, naya.ListMap, naya.ListPosted} {
			found := false
			for _, r := range c.List(kind) {
				if r.ID == "42" {
					found = true
					if r.LikesCount != 4 || !r.LikedByUser {
						t.Errorf("list %d copy = likes %d liked %v", kind, r.LikesCount, r.LikedByUser)
					}
				}
			}
			if !found {
				t.Errorf("review 42 missing from list %d", kind)
			}
		}

		liked := c.List(naya.ListLiked)
		if len(liked) != 1 || liked[0].ID != "42" {
			t.Fatalf("liked window = %v", liked)
		}
		if c.LikedTotal() != 1 {
			t.Errorf("LikedTotal() = %d", c.LikedTotal())
		}
	})

	t.Run("untouched reviews keep their state", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 3), review("7", 9)})

		c.ApplyLikeSummary("42", 4, true)

		for _, r := range c.List(naya.ListFeed) {
			if r.ID == "7" && (r.LikesCount != 9 || r.LikedByUser) {
				t.Errorf("review 7 was modified: %+v", r)
			}
		}
	})

	t.Run("replaying the same like moves the total only once", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 3)})

		c.ApplyLikeSummary("42", 4, true)
		c.ApplyLikeSummary("42", 4, true)

		if c.LikedTotal() != 1 {
			t.Errorf("LikedTotal() = %d, want 1", c.LikedTotal())
		}
		if liked := c.List(naya.ListLiked); len(liked) != 1 {
			t.Errorf("liked window length = %d, want 1", len(liked))
		}
	})

	t.Run("unlike removes the window copy and decrements once", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 3)})
		c.ApplyLikeSummary("42", 4, true)

		c.ApplyLikeSummary("42", 3, false)
		c.ApplyLikeSummary("42", 3, false)

		if c.LikedTotal() != 0 {
			t.Errorf("LikedTotal() = %d, want 0", c.LikedTotal())
		}
		if liked := c.List(naya.ListLiked); len(liked) != 0 {
			t.Errorf("liked window = %v, want empty", liked)
		}
		if c.IsLiked("42") {
			t.Error("IsLiked(42) = true after unlike")
		}
		for _, r := range c.List(naya.ListFeed) {
			if r.ID == "42" && (r.LikesCount != 3 || r.LikedByUser) {
				t.Errorf("feed copy = %+v", r)
			}
		}
	})

	t.Run("newly liked review lands at the front of the window", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("a", 0), review("b", 0)})

		c.ApplyLikeSummary("a", 1, true)
		c.ApplyLikeSummary("b", 1, true)

		liked := c.List(naya.ListLiked)
		if len(liked) != 2 || liked[0].ID != "b" || liked[1].ID != "a" {
			t.Errorf("liked window order = %v", liked)
		}
	})

	t.Run("window is capped while the total keeps counting", func(t *testing.T) {
		c := newCollections()
		feed := make([]*naya.Review, 0, naya.LikedWindowCap+5)
		for i := 0; i < naya.LikedWindowCap+5; i++ {
			feed = append(feed, review(fmt.Sprintf("r%d", i), 0))
		}
		c.ReplaceList(naya.ListFeed, feed)

		for i := 0; i < naya.LikedWindowCap+5; i++ {
			c.ApplyLikeSummary(fmt.Sprintf("r%d", i), 1, true)
		}

		if got := len(c.List(naya.ListLiked)); got != naya.LikedWindowCap {
			t.Errorf("liked window length = %d, want %d", got, naya.LikedWindowCap)
		}
		if c.LikedTotal() != naya.LikedWindowCap+5 {
			t.Errorf("LikedTotal() = %d, want %d", c.LikedTotal(), naya.LikedWindowCap+5)
		}
	})

	t.Run("a like with no local copy still counts", func(t *testing.T) {
		c := newCollections()

		c.ApplyLikeSummary("unseen", 1, true)

		if c.LikedTotal() != 1 {
			t.Errorf("LikedTotal() = %d, want 1", c.LikedTotal())
		}
		if !c.IsLiked("unseen") {
			t.Error("IsLiked(unseen) = false")
		}
		if liked := c.List(naya.ListLiked); len(liked) != 0 {
			t.Errorf("liked window = %v, want empty (nothing to denormalize)", liked)
		}
	})

	t.Run("concurrent opposite toggles never corrupt the total", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 0)})

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				c.ApplyLikeSummary("42", 1, true)
			}()
			go func() {
				defer wg.Done()
				c.ApplyLikeSummary("42", 0, false)
			}()
		}
		wg.Wait()

		total := c.LikedTotal()
		if total != 0 && total != 1 {
			t.Errorf("LikedTotal() = %d, want 0 or 1", total)
		}
		if c.IsLiked("42") != (total == 1) {
			t.Error("liked set and total disagree")
		}
	})
}

func TestReviewCollections_CommentsAndUpdates(t *testing.T) {
	t.Run("comment counts propagate to every copy", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 0)})
		c.ReplaceList(naya.ListPosted, []*naya.Review{review("42", 0)})

		c.ApplyCommentCount("42", 7)

		for _, kind := range []naya.ListKind{naya.ListFeed, naya.ListPosted} {
			for _, r := range c.List(kind) {
				if r.ID == "42" && r.CommentsCount != 7 {
					t.Errorf("list %d copy has %d comments", kind, r.CommentsCount)
				}
			}
		}
	})

	t.Run("edits replace every copy", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 2)})
		c.ReplaceList(naya.ListLiked, []*naya.Review{review("42", 2)})

		updated := review("42", 2)
		updated.Title = "Rewritten"
		c.ApplyReviewUpdate(updated)

		for _, kind := range []naya.ListKind{naya.ListFeed, naya.ListLiked} {
			for _, r := range c.List(kind) {
				if r.ID == "42" && r.Title != "Rewritten" {
					t.Errorf("list %d copy kept the old title %q", kind, r.Title)
				}
			}
		}
	})

	t.Run("removal drops every copy and the liked membership", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 0), review("7", 0)})
		c.ApplyLikeSummary("42", 1, true)

		c.RemoveReview("42")

		if c.FindReviewByID("42") != nil {
			t.Error("review 42 still findable after removal")
		}
		if c.LikedTotal() != 0 {
			t.Errorf("LikedTotal() = %d", c.LikedTotal())
		}
		if got := len(c.List(naya.ListFeed)); got != 1 {
			t.Errorf("feed length = %d, want 1", got)
		}
	})
}

func TestReviewCollections_Seeding(t *testing.T) {
	t.Run("profile seeding installs the window and total", func(t *testing.T) {
		c := newCollections()
		liked := make([]*naya.Review, 0, naya.LikedWindowCap+10)
		for i := 0; i < naya.LikedWindowCap+10; i++ {
			liked = append(liked, review(fmt.Sprintf("l%d", i), 1))
		}
		total := 99
		c.SeedLikedFromProfile(liked, &total)

		if got := len(c.List(naya.ListLiked)); got != naya.LikedWindowCap {
			t.Errorf("window length = %d, want %d", got, naya.LikedWindowCap)
		}
		if c.LikedTotal() != 99 {
			t.Errorf("LikedTotal() = %d, want 99", c.LikedTotal())
		}
		if !c.IsLiked(fmt.Sprintf("l%d", naya.LikedWindowCap+5)) {
			t.Error("membership lost for review beyond the window")
		}
	})

	t.Run("missing total falls back to the membership size", func(t *testing.T) {
		c := newCollections()
		c.SeedLikedFromProfile([]*naya.Review{review("a", 1), review("b", 1)}, nil)
		if c.LikedTotal() != 2 {
			t.Errorf("LikedTotal() = %d, want 2", c.LikedTotal())
		}
	})

	t.Run("reloaded lists get re-stamped from the liked set", func(t *testing.T) {
		c := newCollections()
		c.SeedLikedFromProfile([]*naya.Review{review("42", 1)}, nil)

		// A logged-out style payload: no liked flags.
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 1), review("7", 0)})
		c.ReconcileLikedState()

		for _, r := range c.List(naya.ListFeed) {
			switch r.ID {
			case "42":
				if !r.LikedByUser {
					t.Error("review 42 lost its liked flag after reload")
				}
			case "7":
				if r.LikedByUser {
					t.Error("review 7 gained a liked flag")
				}
			}
		}
	})

	t.Run("reset clears everything", func(t *testing.T) {
		c := newCollections()
		c.SeedLikedFromProfile([]*naya.Review{review("42", 1)}, nil)
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 1)})

		c.Reset()

		if c.LikedTotal() != 0 || c.IsLiked("42") || len(c.List(naya.ListFeed)) != 0 {
			t.Error("state survived Reset()")
		}
	})
}

func TestReviewCollections_Isolation(t *testing.T) {
	t.Run("returned copies do not alias internal storage", func(t *testing.T) {
		c := newCollections()
		c.ReplaceList(naya.ListFeed, []*naya.Review{review("42", 3)})

		out := c.List(naya.ListFeed)
		out[0].Title = "mutated by caller"

		if got := c.List(naya.ListFeed)[0].Title; got == "mutated by caller" {
			t.Error("caller mutation leaked into internal storage")
		}
	})

	t.Run("the input slice does not alias internal storage", func(t *testing.T) {
		c := newCollections()
		in := []*naya.Review{review("42", 3)}
		c.ReplaceList(naya.ListFeed, in)

		in[0].Title = "mutated after install"

		if got := c.List(naya.ListFeed)[0].Title; got == "mutated after install" {
			t.Error("input mutation leaked into internal storage")
		}
	})
}

package naya

import "sync"

// CommentsCache maps review ids to their loaded comment threads. Entries
// change only through explicit create/delete in this layer — an
// unrelated feed reload never touches them.
type CommentsCache struct {
	mu      sync.Mutex
	entries map[string]*commentThread
}

type commentThread struct {
	comments []Comment
	total    int
}

func NewCommentsCache() *CommentsCache {
	return &CommentsCache{entries: make(map[string]*commentThread)}
}

// Get returns the cached thread for a review, if loaded.
func (c *CommentsCache) Get(reviewID string) ([]Comment, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	thread, ok := c.entries[reviewID]
	if !ok {
		return nil, 0, false
	}
	return append([]Comment(nil), thread.comments...), thread.total, true
}

// Put installs a freshly fetched thread.
func (c *CommentsCache) Put(reviewID string, comments []Comment, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[reviewID] = &commentThread{
		comments: append([]Comment(nil), comments...),
		total:    total,
	}
}

// Append records a newly created comment and returns the new total.
// When the thread was never loaded the total alone is tracked.
func (c *CommentsCache) Append(reviewID string, comment Comment, fallbackTotal int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	thread, ok := c.entries[reviewID]
	if !ok {
		thread = &commentThread{total: fallbackTotal}
		c.entries[reviewID] = thread
	}
	thread.comments = append(thread.comments, comment)
	thread.total++
	return thread.total
}

// Drop removes a deleted comment and returns the new total. The second
// return reports whether the thread was cached at all.
func (c *CommentsCache) Drop(reviewID, commentID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	thread, ok := c.entries[reviewID]
	if !ok {
		return 0, false
	}
	filtered := thread.comments[:0]
	for _, cm := range thread.comments {
		if cm.ID != commentID {
			filtered = append(filtered, cm)
		}
	}
	if len(filtered) < len(thread.comments) && thread.total > 0 {
		thread.total--
	}
	thread.comments = filtered
	return thread.total, true
}

// Invalidate drops one review's thread.
func (c *CommentsCache) Invalidate(reviewID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, reviewID)
}

// Reset clears the cache on logout.
func (c *CommentsCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*commentThread)
}

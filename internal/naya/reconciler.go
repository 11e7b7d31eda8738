package naya

import "sync"

// ListKind names the independently rendered review lists.
type ListKind int

const (
	ListFeed ListKind = iota
	ListMap
	ListPublicProfile
	ListPosted
	ListLiked
)

// listOrder is the fixed search order used when one list needs to
// source a copy from another.
var listOrder = [...]ListKind{ListFeed, ListMap, ListPublicProfile, ListPosted, ListLiked}

// LikedWindowCap bounds the locally materialized liked-review window.
// The liked total keeps counting past it.
const LikedWindowCap = 20

// ReviewCollections keeps up to five denormalized copies of the same
// logical review consistent. Lists never share pointers; consistency
// exists only because every mutation is written into each list that
// holds a copy, atomically with respect to readers.
//
// Mutations on the same review id are serialized through a per-id lock
// so two rapid toggles cannot lose an update; mutations on different
// ids proceed independently.
type ReviewCollections struct {
	logger Logger

	mu         sync.RWMutex
	lists      map[ListKind][]*Review
	likedIDs   map[string]struct{}
	likedTotal int

	idLocksMu sync.Mutex
	idLocks   map[string]*sync.Mutex
}

func NewReviewCollections(logger Logger) *ReviewCollections {
	return &ReviewCollections{
		logger:   logger,
		lists:    make(map[ListKind][]*Review),
		likedIDs: make(map[string]struct{}),
		idLocks:  make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutation lock for one review id.
func (c *ReviewCollections) lockFor(id string) *sync.Mutex {
	c.idLocksMu.Lock()
	defer c.idLocksMu.Unlock()
	lock, ok := c.idLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.idLocks[id] = lock
	}
	return lock
}

// ReplaceList installs a freshly fetched list. The input is deep-copied
// so the caller's slice never aliases internal storage.
func (c *ReviewCollections) ReplaceList(kind ListKind, reviews []*Review) {
	copies := make([]*Review, 0, len(reviews))
	for _, r := range reviews {
		if r != nil {
			copies = append(copies, r.Clone())
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[kind] = copies
}

// List returns deep copies of one list's current contents.
func (c *ReviewCollections) List(kind ListKind) []*Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Review, 0, len(c.lists[kind]))
	for _, r := range c.lists[kind] {
		out = append(out, r.Clone())
	}
	return out
}

// LikedTotal returns the authoritative liked count, which may exceed
// the materialized liked window.
func (c *ReviewCollections) LikedTotal() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.likedTotal
}

// IsLiked reports membership in the liked-id set.
func (c *ReviewCollections) IsLiked(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.likedIDs[id]
	return ok
}

// ApplyLikeSummary propagates a like toggle outcome into every list
// holding the review. The liked total moves by exactly one only when
// membership actually changes, so replaying the same toggle is safe.
func (c *ReviewCollections) ApplyLikeSummary(id string, likesCount int, likedByUser bool) {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, wasLiked := c.likedIDs[id]
	switch {
	case likedByUser && !wasLiked:
		c.likedIDs[id] = struct{}{}
		c.likedTotal++
	case !likedByUser && wasLiked:
		delete(c.likedIDs, id)
		if c.likedTotal > 0 {
			c.likedTotal--
		}
	}

	c.updateEverywhereLocked(id, func(r *Review) {
		r.LikesCount = likesCount
		r.LikedByUser = likedByUser
	})

	if likedByUser {
		c.ensureInLikedWindowLocked(id)
	} else {
		c.removeFromListLocked(ListLiked, id)
	}
}

// ApplyCommentCount propagates a new comment count. Independent of the
// comments cache, which holds the bodies.
func (c *ReviewCollections) ApplyCommentCount(id string, count int) {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateEverywhereLocked(id, func(r *Review) {
		r.CommentsCount = count
	})
}

// ApplyReviewUpdate replaces the content of every copy after an edit.
// Like state and counters come from the updated record itself.
func (c *ReviewCollections) ApplyReviewUpdate(updated *Review) {
	if updated == nil || updated.ID == "" {
		return
	}
	lock := c.lockFor(updated.ID)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for kind, list := range c.lists {
		for i, r := range list {
			if r.ID == updated.ID {
				c.lists[kind][i] = updated.Clone()
			}
		}
	}
}

// RemoveReview drops every copy after a delete, including liked-set
// membership.
func (c *ReviewCollections) RemoveReview(id string) {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.likedIDs[id]; ok {
		delete(c.likedIDs, id)
		if c.likedTotal > 0 {
			c.likedTotal--
		}
	}
	for kind := range c.lists {
		c.removeFromListLocked(kind, id)
	}
}

// ReconcileLikedState re-stamps every copy in every list with
// LikedByUser derived from the authoritative liked-id set. Run after a
// full list reload, whose payload may not reflect the user's history.
func (c *ReviewCollections) ReconcileLikedState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, list := range c.lists {
		for _, r := range list {
			_, liked := c.likedIDs[r.ID]
			r.LikedByUser = liked
		}
	}
}

// SeedLikedFromProfile installs the liked window and liked-id set from
// the profile payload. total overrides the count when the server sent
// one; otherwise the window length is used.
func (c *ReviewCollections) SeedLikedFromProfile(liked []*Review, total *int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := make([]*Review, 0, LikedWindowCap)
	c.likedIDs = make(map[string]struct{}, len(liked))
	for _, r := range liked {
		if r == nil || r.ID == "" {
			continue
		}
		c.likedIDs[r.ID] = struct{}{}
		if len(window) < LikedWindowCap {
			clone := r.Clone()
			clone.LikedByUser = true
			window = append(window, clone)
		}
	}
	c.lists[ListLiked] = window

	if total != nil && *total >= 0 {
		c.likedTotal = *total
	} else {
		c.likedTotal = len(c.likedIDs)
	}
}

// FindReviewByID returns a deep copy of the first matching entry in the
// fixed order feed, map, public profile, posted, liked.
func (c *ReviewCollections) FindReviewByID(id string) *Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(id)
}

// Reset clears everything on logout.
func (c *ReviewCollections) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[ListKind][]*Review)
	c.likedIDs = make(map[string]struct{})
	c.likedTotal = 0
}

func (c *ReviewCollections) findLocked(id string) *Review {
	for _, kind := range listOrder {
		for _, r := range c.lists[kind] {
			if r.ID == id {
				return r.Clone()
			}
		}
	}
	return nil
}

// updateEverywhereLocked applies fn to each list's own copy of the
// review. Each list is mutated through its own storage, never through a
// shared pointer.
func (c *ReviewCollections) updateEverywhereLocked(id string, fn func(*Review)) {
	for kind, list := range c.lists {
		for i, r := range list {
			if r.ID == id {
				next := r.Clone()
				fn(next)
				c.lists[kind][i] = next
			}
		}
	}
}

// ensureInLikedWindowLocked prepends a denormalized copy to the liked
// window, sourcing the freshest copy from the other lists, then trims
// to capacity.
func (c *ReviewCollections) ensureInLikedWindowLocked(id string) {
	for _, r := range c.lists[ListLiked] {
		if r.ID == id {
			return
		}
	}

	source := c.findLocked(id)
	if source == nil {
		// Nothing local to denormalize from; the next profile load
		// will materialize it.
		c.logger.Debug("liked review not materialized locally", "review_id", id)
		return
	}
	source.LikedByUser = true

	window := append([]*Review{source}, c.lists[ListLiked]...)
	if len(window) > LikedWindowCap {
		window = window[:LikedWindowCap]
	}
	c.lists[ListLiked] = window
}

func (c *ReviewCollections) removeFromListLocked(kind ListKind, id string) {
	list := c.lists[kind]
	filtered := list[:0]
	for _, r := range list {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	c.lists[kind] = filtered
}

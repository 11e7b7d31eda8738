package naya

import (
	"context"
	"strings"
	"sync"
)

// placeAPI is the slice of the client the resolver needs.
type placeAPI interface {
	SearchPlaces(ctx context.Context, query PlaceQuery) ([]*Place, error)
	CreatePlace(ctx context.Context, draft PlaceDraft) (*Place, error)
}

// PlaceInput is what a review form supplies: either a direct place id or
// the free-text attributes of a destination.
type PlaceInput struct {
	ID          string
	Name        string
	City        string
	Country     string
	Description string
}

// PlaceResolver turns place input into a stable place id using a local
// natural-key cache plus search-then-create-with-conflict-retry. Place
// names are not unique server-side; the two-step flow is what keeps two
// users describing the same destination from creating visible duplicates.
type PlaceResolver struct {
	api    placeAPI
	logger Logger

	mu    sync.Mutex
	cache map[string]string // lower-cased name::city::country -> place id
}

func NewPlaceResolver(api placeAPI, logger Logger) *PlaceResolver {
	return &PlaceResolver{api: api, logger: logger, cache: make(map[string]string)}
}

// InvalidateCache drops every cached mapping. Called when the API base
// URL changes: ids cached against one backend mean nothing to another.
func (r *PlaceResolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]string)
}

// cacheKey builds the natural dedup key.
func cacheKey(name, city, country string) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(name)),
		strings.ToLower(strings.TrimSpace(city)),
		strings.ToLower(strings.TrimSpace(country)),
	}
	return strings.Join(parts, "::")
}

// Resolve returns a place id for the input. A non-empty direct id is
// returned as-is with no network call.
func (r *PlaceResolver) Resolve(ctx context.Context, in PlaceInput) (string, error) {
	if direct := strings.TrimSpace(in.ID); direct != "" {
		return direct, nil
	}

	name := strings.TrimSpace(in.Name)
	city := strings.TrimSpace(in.City)
	country := strings.TrimSpace(in.Country)
	description := strings.TrimSpace(in.Description)

	if name == "" || city == "" || country == "" {
		return "", NewError(KindIncompleteLocation,
			"provide the place's name, city and country, or its identifier")
	}

	key := cacheKey(name, city, country)
	if id, ok := r.cached(key); ok {
		return id, nil
	}

	if id := r.findExisting(ctx, name, city, country); id != "" {
		r.remember(key, id)
		return id, nil
	}

	created, err := r.api.CreatePlace(ctx, PlaceDraft{
		Name: name, City: city, Country: country, Description: description,
	})
	if err == nil {
		r.remember(key, created.ID)
		return created.ID, nil
	}

	// Another client may have created the place between our search and
	// create calls; the server reports the conflict by message.
	if strings.Contains(strings.ToLower(err.Error()), "already exists") {
		if id := r.findExisting(ctx, name, city, country); id != "" {
			r.remember(key, id)
			return id, nil
		}
	}

	return "", WrapError(err, KindPlaceResolutionFailed, "could not determine the place identifier: "+err.Error())
}

// findExisting searches the backend and picks the candidate whose
// lower-cased (name, city, country) tuple matches exactly. Search
// failures are logged and treated as a miss; creation will settle it.
func (r *PlaceResolver) findExisting(ctx context.Context, name, city, country string) string {
	candidates, err := r.api.SearchPlaces(ctx, PlaceQuery{
		Search: name, City: city, Country: country, Limit: 10,
	})
	if err != nil {
		r.logger.Warn("place search failed, will try to create", "error", err)
		return ""
	}

	target := cacheKey(name, city, country)
	for _, place := range candidates {
		if place == nil {
			continue
		}
		if cacheKey(place.Name, place.City, place.Country) == target {
			return place.ID
		}
	}
	return ""
}

func (r *PlaceResolver) cached(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.cache[key]
	return id, ok
}

func (r *PlaceResolver) remember(key, id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = id
}

package storefront

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver answers make/model/year lookups for the vehicle pickers.
// Results are cached per key for the lifetime of the resolver and a
// lookup failure caches an empty list, so a flaky backend degrades to
// an empty picker instead of a retry storm. Callers always receive
// their own copy of a result.
type Resolver struct {
	client *Client

	mu     sync.Mutex
	makes  []string
	models map[string][]string
	years  map[string][]int

	group singleflight.Group
}

// NewResolver builds a resolver over the given client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{
		client: client,
		models: make(map[string][]string),
		years:  make(map[string][]int),
	}
}

// Makes returns the full make list, fetched once per resolver.
func (r *Resolver) Makes(ctx context.Context) []string {
	r.mu.Lock()
	if r.makes != nil {
		cached := copyStrings(r.makes)
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	result, _, _ := r.group.Do("makes", func() (any, error) {
		fetched, err := r.client.FetchMakes(ctx)
		if err != nil {
			fetched = nil
		}
		cleaned := cleanStrings(fetched)

		r.mu.Lock()
		r.makes = cleaned
		r.mu.Unlock()
		return cleaned, nil
	})
	return copyStrings(result.([]string))
}

// Models returns the model list for a make. Concurrent calls for the
// same make share one in-flight fetch.
func (r *Resolver) Models(ctx context.Context, make string) []string {
	key := strings.TrimSpace(make)
	if key == "" {
		return []string{}
	}

	r.mu.Lock()
	if cached, ok := r.models[key]; ok {
		out := copyStrings(cached)
		r.mu.Unlock()
		return out
	}
	r.mu.Unlock()

	result, _, _ := r.group.Do("models::"+key, func() (any, error) {
		fetched, err := r.client.FetchModels(ctx, key)
		if err != nil {
			fetched = nil
		}
		cleaned := cleanStrings(fetched)

		r.mu.Lock()
		r.models[key] = cleaned
		r.mu.Unlock()
		return cleaned, nil
	})
	return copyStrings(result.([]string))
}

// Years returns the year list for a make and model, subject to the
// same caching and deduplication as Models.
func (r *Resolver) Years(ctx context.Context, make, model string) []int {
	mk := strings.TrimSpace(make)
	md := strings.TrimSpace(model)
	if mk == "" || md == "" {
		return []int{}
	}
	key := mk + "::" + md

	r.mu.Lock()
	if cached, ok := r.years[key]; ok {
		out := copyYears(cached)
		r.mu.Unlock()
		return out
	}
	r.mu.Unlock()

	result, _, _ := r.group.Do("years::"+key, func() (any, error) {
		fetched, err := r.client.FetchYears(ctx, mk, md)
		if err != nil {
			fetched = nil
		}
		cleaned := cleanYears(fetched)

		r.mu.Lock()
		r.years[key] = cleaned
		r.mu.Unlock()
		return cleaned, nil
	})
	return copyYears(result.([]int))
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyYears(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func cleanStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func cleanYears(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, y := range in {
		if y <= 0 {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

package api

import (
	"context"
	"strings"
	"time"

	"github.com/nikbrunner/forkify/internal/model"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Default lifetimes for cached search results.
const (
	DefaultCacheTTL     = 10 * time.Minute
	DefaultCacheCleanup = 30 * time.Minute
)

// Gateway is the set of API calls a CachedGateway wraps.
type Gateway interface {
	GetRecipe(ctx context.Context, id string) (model.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]model.SearchResult, error)
	CreateRecipe(ctx context.Context, draft model.RecipeDraft) (model.Recipe, error)
}

// CachedGateway keeps recent search results in memory. Recipe loads
// always reach the API so a reopened recipe is never stale. Failed calls
// are never cached.
type CachedGateway struct {
	next  Gateway
	cache *cache.Cache
	log   logrus.FieldLogger
}

// CacheParams holds parameters for creating a new CachedGateway.
type CacheParams struct {
	TTL     time.Duration      // optional, defaults to DefaultCacheTTL
	Cleanup time.Duration      // optional, defaults to DefaultCacheCleanup
	Logger  logrus.FieldLogger // optional
}

// NewCachedGateway wraps next with an in-memory cache.
func NewCachedGateway(next Gateway, params CacheParams) *CachedGateway {
	if params.TTL <= 0 {
		params.TTL = DefaultCacheTTL
	}
	if params.Cleanup <= 0 {
		params.Cleanup = DefaultCacheCleanup
	}
	if params.Logger == nil {
		params.Logger = logrus.StandardLogger()
	}
	return &CachedGateway{
		next:  next,
		cache: cache.New(params.TTL, params.Cleanup),
		log:   params.Logger,
	}
}

func searchKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// GetRecipe fetches the recipe from the API.
func (g *CachedGateway) GetRecipe(ctx context.Context, id string) (model.Recipe, error) {
	return g.next.GetRecipe(ctx, id)
}

// SearchRecipes returns the cached results for query or fetches them.
// Queries differing only in case or surrounding space share an entry.
func (g *CachedGateway) SearchRecipes(ctx context.Context, query string) ([]model.SearchResult, error) {
	if v, ok := g.cache.Get(searchKey(query)); ok {
		g.log.WithField("query", query).Debug("search cache hit")
		return cloneResults(v.([]model.SearchResult)), nil
	}
	results, err := g.next.SearchRecipes(ctx, query)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(searchKey(query), cloneResults(results))
	return results, nil
}

// cloneResults copies results so callers and the cache never share a Key.
func cloneResults(results []model.SearchResult) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		out[i] = r.Clone()
	}
	return out
}

// CreateRecipe uploads through to the API. Cached searches are dropped
// since the new recipe may belong in them.
func (g *CachedGateway) CreateRecipe(ctx context.Context, draft model.RecipeDraft) (model.Recipe, error) {
	rec, err := g.next.CreateRecipe(ctx, draft)
	if err != nil {
		return model.Recipe{}, err
	}
	g.cache.Flush()
	return rec, nil
}

// Len returns the number of cached searches, expired ones included until
// the next cleanup.
func (g *CachedGateway) Len() int {
	return g.cache.ItemCount()
}

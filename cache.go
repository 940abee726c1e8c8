package xmldoc

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// DisableSelectorCache disables caching of compiled compact-query
// selectors (§4.6) when true.
var DisableSelectorCache = false

// SelectorCacheMaxEntries bounds how many compiled selectors are cached.
// Caching is disabled when this is <= 0.
var SelectorCacheMaxEntries = 50

var (
	selectorCacheOnce sync.Once
	selectorCache     *lru.Cache
	selectorCacheMu   sync.Mutex
)

// compiledQuery is the selector-cache entry for a compact query string
// (§4.6), keyed by its source text. It holds that source text only; the
// reduction to XPath is not cached and runs again on every Find/FindOne call.
type compiledQuery struct {
	xpathExpr string
}

func getCompiledQuery(raw string, build func() (compiledQuery, error)) (compiledQuery, error) {
	if DisableSelectorCache || SelectorCacheMaxEntries <= 0 {
		return build()
	}
	selectorCacheOnce.Do(func() {
		selectorCache = lru.New(SelectorCacheMaxEntries)
	})
	selectorCacheMu.Lock()
	if v, ok := selectorCache.Get(raw); ok {
		selectorCacheMu.Unlock()
		return v.(compiledQuery), nil
	}
	selectorCacheMu.Unlock()

	q, err := build()
	if err != nil {
		return compiledQuery{}, err
	}
	selectorCacheMu.Lock()
	selectorCache.Add(raw, q)
	selectorCacheMu.Unlock()
	return q, nil
}

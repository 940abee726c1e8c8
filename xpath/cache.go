package xpath

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// exprCacheCapacity bounds the compiled-expression cache. Absolute-path
// sub-expressions (those anchored at the document root) are safe to share
// across evaluations against the same document, since their result
// depends only on the document and the expression text, never on the
// calling context node.
const exprCacheCapacity = 500000

var (
	compileCacheMu sync.Mutex
	compileCache   = lru.New(exprCacheCapacity)
)

// Compile parses expr into a reusable *Expr, memoizing the parse itself
// (not the evaluated result — evaluation still depends on the document
// instance) behind an LRU so that repeated Select/Evaluate calls with the
// same expression text don't re-run the lexer/parser every time.
func Compile(expr string) (*Expr, error) {
	compileCacheMu.Lock()
	if v, ok := compileCache.Get(expr); ok {
		compileCacheMu.Unlock()
		return v.(*Expr), nil
	}
	compileCacheMu.Unlock()

	e, err := parseExpr(expr)
	if err != nil {
		return nil, parseError(err)
	}
	compileCacheMu.Lock()
	compileCache.Add(expr, e)
	compileCacheMu.Unlock()
	return e, nil
}

// resultCache memoizes evaluation of absolute-path expressions keyed by
// (document identity, expression text) — the "LRU cache for absolute-path
// sub-expressions" of §4.4. Relative expressions are never cached here
// since their value depends on the calling context node.
type resultCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func newResultCache() *resultCache {
	return &resultCache{cache: lru.New(exprCacheCapacity)}
}

type cacheKey struct {
	doc  interface{}
	expr string
}

func (rc *resultCache) get(doc interface{}, expr string) (*NodeSet, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	v, ok := rc.cache.Get(cacheKey{doc, expr})
	if !ok {
		return nil, false
	}
	return v.(*NodeSet), true
}

func (rc *resultCache) put(doc interface{}, expr string, ns *NodeSet) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache.Add(cacheKey{doc, expr}, ns)
}

var sharedResultCache = newResultCache()

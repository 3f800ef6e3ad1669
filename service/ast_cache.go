package service

import (
	"errors"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/parser"
)

// ASTCache is a bounded cache of decoded AST artifacts keyed by path. Each
// scoring worker owns one instance, so a file compared against many others
// is decoded once per worker instead of once per pair. Cached trees are
// shared read-only: the edit-distance engine converts them into
// comparison-local trees before assigning any per-comparison state.
type ASTCache struct {
	entries *lru.Cache[string, *parser.Node]

	// Hit accounting is unsynchronized on purpose: a cache belongs to a
	// single worker goroutine.
	hits   int
	misses int
}

// NewASTCache creates a cache holding up to size decoded trees.
func NewASTCache(size int) (*ASTCache, error) {
	if size < 1 {
		size = 1
	}
	entries, err := lru.New[string, *parser.Node](size)
	if err != nil {
		return nil, err
	}
	return &ASTCache{entries: entries}, nil
}

// Load returns the decoded tree at path, reading and decoding it on first
// use. A missing artifact and a malformed one are distinct failures: the
// first means the upstream extraction never produced it, the second that it
// produced garbage.
func (c *ASTCache) Load(path string) (*parser.Node, error) {
	if root, ok := c.entries.Get(path); ok {
		c.hits++
		return root, nil
	}
	c.misses++

	root, err := parser.LoadASTFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewMissingInputError(path, err)
		}
		return nil, domain.NewASTParseError(path, err)
	}
	c.entries.Add(path, root)
	return root, nil
}

// Len returns the number of cached trees.
func (c *ASTCache) Len() int {
	return c.entries.Len()
}

// Hits returns the number of cache hits so far.
func (c *ASTCache) Hits() int {
	return c.hits
}

// Misses returns the number of cache misses so far.
func (c *ASTCache) Misses() int {
	return c.misses
}

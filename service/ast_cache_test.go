package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clonesieve/clonesieve/domain"
)

func writeASTArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing AST artifact: %v", err)
	}
	return path
}

func TestNewASTCache(t *testing.T) {
	cache, err := NewASTCache(8)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}
	if cache == nil {
		t.Fatal("NewASTCache returned nil")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Len())
	}
}

func TestASTCacheLoadDecodesOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeASTArtifact(t, dir, "s1.json", `{"type":"Module","children":[{"type":"Return"}]}`)

	cache, err := NewASTCache(8)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if first == nil || first.Type != "Module" {
		t.Fatalf("unexpected root: %v", first)
	}

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if second != first {
		t.Fatal("expected the cached tree on the second Load")
	}
	if cache.Hits() != 1 || cache.Misses() != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", cache.Hits(), cache.Misses())
	}
}

func TestASTCacheLoadMissingFile(t *testing.T) {
	cache, err := NewASTCache(4)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}

	_, err = cache.Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for absent artifact")
	}
	if !domain.IsMissingInput(err) {
		t.Fatalf("expected missing-input error, got %v", err)
	}
}

func TestASTCacheLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeASTArtifact(t, dir, "bad.json", `{"type": "Module", "children": [`)

	cache, err := NewASTCache(4)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}

	_, err = cache.Load(path)
	if err == nil {
		t.Fatal("expected error for malformed artifact")
	}
	if !domain.IsASTParse(err) {
		t.Fatalf("expected AST parse error, got %v", err)
	}
	if cache.Len() != 0 {
		t.Fatal("malformed artifact must not be cached")
	}
}

func TestASTCacheNullTree(t *testing.T) {
	dir := t.TempDir()
	path := writeASTArtifact(t, dir, "empty.json", `null`)

	cache, err := NewASTCache(4)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}

	root, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if root != nil {
		t.Fatalf("expected nil root for null artifact, got %v", root)
	}
}

func TestASTCacheEviction(t *testing.T) {
	dir := t.TempDir()
	a := writeASTArtifact(t, dir, "a.json", `{"type":"A"}`)
	b := writeASTArtifact(t, dir, "b.json", `{"type":"B"}`)
	c := writeASTArtifact(t, dir, "c.json", `{"type":"C"}`)

	cache, err := NewASTCache(2)
	if err != nil {
		t.Fatalf("NewASTCache failed: %v", err)
	}

	for _, path := range []string{a, b, c} {
		if _, err := cache.Load(path); err != nil {
			t.Fatalf("Load %s failed: %v", path, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", cache.Len())
	}

	// a was evicted; loading it again is a miss, not an error.
	if _, err := cache.Load(a); err != nil {
		t.Fatalf("reload after eviction failed: %v", err)
	}
	if cache.Misses() != 4 {
		t.Fatalf("expected 4 misses, got %d", cache.Misses())
	}
}

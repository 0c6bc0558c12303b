package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withCacheDir(t *testing.T) string {
	t.Helper()
	tmpCacheDir, err := os.MkdirTemp("", "treeline-cache")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpCacheDir) })
	t.Setenv(CacheDirEnv, tmpCacheDir)
	return tmpCacheDir
}

func TestGetCacheKey(t *testing.T) {
	tests := []struct {
		name   string
		source string
		prefix string
	}{
		{
			name:   "git url",
			source: "git::https://example.com/repo.git?ref=v1",
			prefix: "git--https---example.com-repo.git-ref=v1-",
		},
		{
			name:   "host shorthand",
			source: "github.com/org/repo",
			prefix: "github.com-org-repo-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GetCacheKey(tt.source)
			if !strings.HasPrefix(key, tt.prefix) {
				t.Errorf("GetCacheKey(%q) = %q, want prefix %q", tt.source, key, tt.prefix)
			}
			if len(key) != len(tt.prefix)+8 {
				t.Errorf("expected an 8 character hash suffix, got %q", key)
			}
			if key != GetCacheKey(tt.source) {
				t.Errorf("cache key is not stable")
			}
		})
	}

	if GetCacheKey("a/b") == GetCacheKey("a:b") {
		t.Errorf("sources that sanitize alike must still get distinct keys")
	}
}

func TestGlobalCacheDir(t *testing.T) {
	dir := withCacheDir(t)
	got, err := GlobalCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("GlobalCacheDir() = %q, want %q", got, dir)
	}

	t.Setenv(CacheDirEnv, "")
	got, err = GlobalCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, filepath.Join(".treeline", "cache")) {
		t.Errorf("default cache dir = %q", got)
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		source string
		remote bool
	}{
		{"git::https://example.com/repo.git", true},
		{"https://example.com/archive.zip", true},
		{"s3::https://s3.amazonaws.com/bucket/key", true},
		{"github.com/org/repo", true},
		{"./local", false},
		{"../local", false},
		{"/abs/path", false},
		{"docs", false},
		{"docs/api", false},
	}
	for _, tt := range tests {
		if got := isRemote(tt.source); got != tt.remote {
			t.Errorf("isRemote(%q) = %v, want %v", tt.source, got, tt.remote)
		}
	}
}

func TestResolve_Local(t *testing.T) {
	dir, err := os.MkdirTemp("", "treeline-src")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	got, err := Resolve(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Remote || got.CacheHit {
		t.Errorf("local source reported as remote: %+v", got)
	}
	if got.Path != dir {
		t.Errorf("Path = %q, want %q", got.Path, dir)
	}
}

func TestResolve_NotFound(t *testing.T) {
	_, err := Resolve(context.Background(), "./definitely-missing-dir", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_CacheHit(t *testing.T) {
	cacheDir := withCacheDir(t)
	src := "github.com/example/cached"
	cached := filepath.Join(cacheDir, GetCacheKey(src))
	if err := os.MkdirAll(cached, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(context.Background(), src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := Resolved{Path: cached, Remote: true, CacheHit: true}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolve_Download(t *testing.T) {
	withCacheDir(t)

	// a local directory addressed through go-getter's file:: forcing prefix
	srcDir, err := os.MkdirTemp("", "treeline-src")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(srcDir) }()
	if err := os.WriteFile(filepath.Join(srcDir, "readme.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	src := "file::" + srcDir
	got, err := Resolve(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !got.Remote || got.CacheHit {
		t.Errorf("first resolve should download: %+v", got)
	}
	if _, err := os.Stat(filepath.Join(got.Path, "readme.md")); err != nil {
		t.Errorf("downloaded tree is missing readme.md: %v", err)
	}

	again, err := Resolve(context.Background(), src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit {
		t.Errorf("second resolve should hit the cache: %+v", again)
	}

	refreshed, err := Resolve(context.Background(), src, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Errorf("refresh should bypass the cache: %+v", refreshed)
	}
}

func TestSave(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "treeline-src")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(srcDir) }()

	for _, f := range []string{"a/b.txt", ".git/HEAD", "c.txt"} {
		path := filepath.Join(srcDir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}

	dstParent, err := os.MkdirTemp("", "treeline-dst")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(dstParent) }()
	dst := filepath.Join(dstParent, "copy")

	if err := Save(srcDir, dst); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	for _, f := range []string{"a/b.txt", "c.txt"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(f))); err != nil {
			t.Errorf("expected %s to be copied: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dst, ".git")); !os.IsNotExist(err) {
		t.Errorf(".git should be skipped, stat err = %v", err)
	}

	if err := Save(srcDir, dst); err == nil || !strings.Contains(err.Error(), "non-empty") {
		t.Errorf("expected refusal to overwrite, got %v", err)
	}
}

func TestSave_IntoSource(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "treeline-src")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(srcDir) }()
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	link := srcDir + "-link"
	if err := os.Symlink(srcDir, link); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(link) }()

	tests := []struct {
		name string
		dst  string
	}{
		{
			name: "child",
			dst:  filepath.Join(srcDir, "copy"),
		},
		{
			name: "nested missing parents",
			dst:  filepath.Join(srcDir, "out", "deep", "copy"),
		},
		{
			name: "same directory",
			dst:  srcDir,
		},
		{
			name: "through a symlink",
			dst:  filepath.Join(link, "copy"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Save(srcDir, tt.dst)
			if err == nil || !strings.Contains(err.Error(), "into itself") {
				t.Fatalf("expected refusal to save into the source, got %v", err)
			}
			entries, err := os.ReadDir(srcDir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("source was modified: %d entries", len(entries))
			}
		})
	}

	sibling := srcDir + "-copy"
	defer func() { _ = os.RemoveAll(sibling) }()
	if err := Save(srcDir, sibling); err != nil {
		t.Errorf("a sibling with a shared name prefix should be allowed: %v", err)
	}
}

func TestClean(t *testing.T) {
	cacheDir := withCacheDir(t)

	removed, err := Clean()
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Errorf("expected existing cache dir to be removed")
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("cache dir still present: %v", err)
	}

	removed, err = Clean()
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Errorf("second clean should report nothing removed")
	}
}

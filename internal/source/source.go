package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"github.com/ms-henglu/treeline/internal/log"
	"github.com/otiai10/copy"
)

var ErrNotFound = errors.New("source not found")

type Options struct {
	// Refresh downloads a remote source again even if it is cached.
	Refresh bool
}

// Resolved is a source that is available on the local filesystem.
type Resolved struct {
	Path     string
	Remote   bool
	CacheHit bool
}

// Resolve turns src into a local directory. Existing local paths are used in
// place; anything that looks like a go-getter address (git::, https://, s3::,
// github.com/...) is downloaded into the global cache.
func Resolve(ctx context.Context, src string, opts Options) (Resolved, error) {
	if _, err := os.Stat(src); err == nil {
		abs, err := filepath.Abs(src)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Path: abs}, nil
	}

	if !isRemote(src) {
		return Resolved{}, fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	path, hit, err := ensureCache(ctx, src, opts.Refresh)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Path: path, Remote: true, CacheHit: hit}, nil
}

func isRemote(src string) bool {
	if strings.HasPrefix(src, ".") || filepath.IsAbs(src) {
		return false
	}
	if strings.Contains(src, "::") || strings.Contains(src, "://") {
		return true
	}
	// host/path shorthand such as github.com/org/repo
	host, _, found := strings.Cut(src, "/")
	return found && strings.Contains(host, ".")
}

func ensureCache(ctx context.Context, src string, refresh bool) (string, bool, error) {
	cacheDir, err := GlobalCacheDir()
	if err != nil {
		return "", false, err
	}
	cachePath := filepath.Join(cacheDir, GetCacheKey(src))

	if _, err := os.Stat(cachePath); err == nil {
		if !refresh {
			log.Debug("Cache hit for %s (%s)", src, cachePath)
			return cachePath, true, nil
		}
		if err := os.RemoveAll(cachePath); err != nil {
			return "", false, fmt.Errorf("failed to clear cached copy of %s: %w", src, err)
		}
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, err
	}

	log.Debug("Downloading %s to %s...", src, cachePath)
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  cachePath,
		Pwd:  cwd,
		Mode: getter.ClientModeAny,
	}
	if err := client.Get(); err != nil {
		_ = os.RemoveAll(cachePath)
		return "", false, fmt.Errorf("failed to download %s: %w", src, err)
	}

	return cachePath, false, nil
}

// Save copies the directory at src to dst, skipping .git directories.
// Symlinks are copied as links. dst must not exist or be an empty directory,
// and must not lie inside src.
func Save(src, dst string) error {
	realSrc, err := resolvePath(src)
	if err != nil {
		return err
	}
	realDst, err := resolvePath(dst)
	if err != nil {
		return err
	}
	if within(realSrc, realDst) {
		return fmt.Errorf("refusing to save %s into itself: %s is inside it", src, dst)
	}

	if entries, err := os.ReadDir(dst); err == nil && len(entries) > 0 {
		return fmt.Errorf("refusing to save into non-empty directory %s", dst)
	}

	opts := copy.Options{
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			return info.IsDir() && info.Name() == ".git", nil
		},
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("failed to save %s to %s: %w", src, dst, err)
	}
	return nil
}

// resolvePath returns path as an absolute path with symlinks resolved.
// Trailing elements that do not exist yet are kept as given.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var missing []string
	for {
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			return filepath.Join(append([]string{real}, missing...)...), nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return filepath.Join(append([]string{abs}, missing...)...), nil
		}
		missing = append([]string{filepath.Base(abs)}, missing...)
		abs = parent
	}
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Clean removes the download cache. It reports whether anything was removed.
func Clean() (bool, error) {
	cacheDir, err := GlobalCacheDir()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return false, fmt.Errorf("failed to remove cache directory %s: %w", cacheDir, err)
	}
	return true, nil
}

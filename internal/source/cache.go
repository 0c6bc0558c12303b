package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ms-henglu/treeline/internal/log"
)

// CacheDirEnv overrides the download cache location.
const CacheDirEnv = "TREELINE_CACHE_DIR"

// GlobalCacheDir returns the download cache directory.
// It checks TREELINE_CACHE_DIR first, then defaults to ~/.treeline/cache.
func GlobalCacheDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return "", fmt.Errorf("failed to get user home directory (%v) and current working directory (%w)", err, wdErr)
		}
		log.Warn(fmt.Sprintf("Failed to get user home directory: %v. Falling back to current directory for cache. Set %s to choose a cache location.", err, CacheDirEnv))
		return filepath.Join(cwd, ".treeline", "cache"), nil
	}
	return filepath.Join(homeDir, ".treeline", "cache"), nil
}

// GetCacheKey returns a readable, unique directory name for a source address.
// e.g. git::https://example.com/repo.git?ref=v1 -> git--https---example.com-repo.git-ref=v1-1a2b3c4d
func GetCacheKey(source string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '?', '*', '"', '<', '>', '|', '&':
			return '-'
		}
		return r
	}, source)

	return fmt.Sprintf("%s-%s", sanitized, hashString(source)[:8])
}

func hashString(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// ContentCache is a content-addressed cache over a Store container.
//
// Reads fail softly: any store error is a cache miss, never a request
// failure. Writes are best-effort: failures are logged and swallowed.
// Entries never expire — the same URL and settings always produce the
// same artifact, so stale entries cannot occur, only orphaned ones.
//
// A nil *ContentCache is valid and behaves as an always-miss cache.
type ContentCache struct {
	store     Store
	container string
}

// NewContentCache wraps store with the cache container name.
// Returns nil when store is nil (cache disabled).
func NewContentCache(store Store, container string) *ContentCache {
	if store == nil {
		return nil
	}
	return &ContentCache{store: store, container: container}
}

// GetFile copies the cached artifact under key into destPath.
// Returns false on miss or on any store/filesystem error.
func (c *ContentCache) GetFile(ctx context.Context, key, destPath string) bool {
	if c == nil {
		return false
	}
	body, err := c.store.Download(ctx, c.container, key)
	if err != nil {
		c.logMiss(key, err)
		return false
	}
	defer body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		slog.Warn("content cache: write local copy failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(destPath)
		slog.Warn("content cache: copy failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return false
	}
	slog.Debug("content cache: hit", slog.String("key", key))
	return true
}

// PutFile uploads srcPath under key. Best-effort.
func (c *ContentCache) PutFile(ctx context.Context, key, srcPath, contentType string) {
	if c == nil {
		return
	}
	f, err := os.Open(srcPath)
	if err != nil {
		slog.Warn("content cache: open for upload failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	defer f.Close()
	if err := c.store.Upload(ctx, c.container, key, f, contentType); err != nil {
		slog.Warn("content cache: upload failed", slog.String("key", key), slog.Any("error", err))
	}
}

// GetText fetches a cached text artifact. Returns false on miss or error.
func (c *ContentCache) GetText(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	body, err := c.store.Download(ctx, c.container, key)
	if err != nil {
		c.logMiss(key, err)
		return "", false
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		slog.Warn("content cache: read failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	slog.Debug("content cache: hit", slog.String("key", key))
	return string(data), true
}

// PutText uploads a text artifact under key. Best-effort.
func (c *ContentCache) PutText(ctx context.Context, key, text, contentType string) {
	if c == nil {
		return
	}
	if err := c.store.Upload(ctx, c.container, key, bytes.NewReader([]byte(text)), contentType); err != nil {
		slog.Warn("content cache: upload failed", slog.String("key", key), slog.Any("error", err))
	}
}

// logMiss distinguishes routine absence from connectivity/auth trouble.
func (c *ContentCache) logMiss(key string, err error) {
	if errors.Is(err, ErrNotFound) {
		slog.Debug("content cache: miss", slog.String("key", key))
		return
	}
	slog.Warn("content cache: read failed, treating as miss", slog.String("key", key), slog.Any("error", err))
}

package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// MemoryUploader keeps objects in process. It backs local runs without R2 and tests.
type MemoryUploader struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL *url.URL
}

func NewMemoryUploader(publicBaseURL string) (*MemoryUploader, error) {
	u := &MemoryUploader{objects: make(map[string][]byte)}
	if publicBaseURL != "" {
		base, err := url.Parse(publicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid public base URL %q: %w", publicBaseURL, err)
		}
		u.baseURL = base
	}
	return u, nil
}

func (u *MemoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body (key: %s): %w", key, err)
	}
	sum := md5.Sum(data)

	u.mu.Lock()
	u.objects[key] = data
	u.mu.Unlock()

	return &UploadResult{Key: key, Location: u.GetPublicURL(key), ETag: hex.EncodeToString(sum[:])}, nil
}

func (u *MemoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	delete(u.objects, key)
	return nil
}

func (u *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(u.baseURL, key)
}

// Object returns a copy of the stored body for key.
func (u *MemoryUploader) Object(key string) ([]byte, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	data, ok := u.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Len returns the number of stored objects.
func (u *MemoryUploader) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.objects)
}

package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"personabot/pkg/cache"

	"github.com/google/uuid"
)

// Store keeps the base64 encoding of an uploaded image for debugging. Every
// Save gets its own name, so concurrent requests never overwrite each other.
type Store interface {
	Save(ctx context.Context, encoded string) (string, error)
}

type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes <dir>/selfie_<uuid>.txt and returns its path.
func (s *FileStore) Save(ctx context.Context, encoded string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("selfie_%s.txt", uuid.NewString()))
	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = cache.ArtifactTTL
	}
	return &RedisStore{cache: c, ttl: ttl}
}

// Save stores the encoding under <prefix>:selfie:<uuid> and returns the key.
func (s *RedisStore) Save(ctx context.Context, encoded string) (string, error) {
	key := s.cache.Key("selfie", uuid.NewString())
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store artifact: %w", err)
	}
	return key, nil
}

// Nop discards artifacts.
type Nop struct{}

func (Nop) Save(ctx context.Context, encoded string) (string, error) {
	return "", nil
}

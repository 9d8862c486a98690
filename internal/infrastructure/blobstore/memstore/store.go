package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
)

type object struct {
	body         []byte
	lastModified time.Time
}

// Store is an in-process snapshot.BlobStore for local runs and tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		objects: make(map[string]object),
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, snapshot.ErrBlobNotFound
	}
	return append([]byte(nil), obj.body...), nil
}

func (s *Store) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	s.objects[key] = object{
		body:         append([]byte(nil), body...),
		lastModified: s.now().UTC(),
	}
	s.mu.Unlock()
	return nil
}

// PutAt stores body with an explicit modification time.
func (s *Store) PutAt(key string, body []byte, modifiedAt time.Time) {
	s.mu.Lock()
	s.objects[key] = object{
		body:         append([]byte(nil), body...),
		lastModified: modifiedAt.UTC(),
	}
	s.mu.Unlock()
}

// List returns matching objects ordered by key, the way S3 lists them.
func (s *Store) List(_ context.Context, prefix string) ([]snapshot.Object, error) {
	s.mu.RLock()
	out := make([]snapshot.Object, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, snapshot.Object{
			Key:          key,
			Size:         int64(len(obj.body)),
			LastModified: obj.lastModified,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

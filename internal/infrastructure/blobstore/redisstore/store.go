package redisstore

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
)

// Store keeps each snapshot body under {prefix}blob:{key}. Keys are indexed in
// sorted sets scored by modification time in unix milliseconds: every key in
// {prefix}blob:index and snapshot keys also in {prefix}blob:index:{league}, so
// a league listing reads only that league's entries.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func New(client redis.UniversalClient, keyPrefix string) *Store {
	return &Store{
		client: client,
		prefix: keyPrefix,
		now:    time.Now,
	}
}

func (s *Store) blobKey(key string) string { return s.prefix + "blob:" + key }
func (s *Store) indexKey() string          { return s.prefix + "blob:index" }

func (s *Store) leagueIndexKey(league string) string {
	return s.prefix + "blob:index:" + league
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := s.client.Get(ctx, s.blobKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshot.ErrBlobNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get blob key=%s", key)
	}
	return body, nil
}

func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	modifiedAt := s.now().UTC().UnixMilli()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.blobKey(key), body, 0)
		entry := redis.Z{Score: float64(modifiedAt), Member: key}
		pipe.ZAdd(ctx, s.indexKey(), entry)
		if league, _, err := snapshot.ParseKey(key); err == nil {
			pipe.ZAdd(ctx, s.leagueIndexKey(league), entry)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "redis put blob key=%s", key)
	}
	return nil
}

// List walks an index in modification order and returns the keys with the
// given prefix. A league prefix such as "PL_matches_" reads the league index;
// any other prefix scans the full index. Index entries whose body has been
// removed are skipped.
func (s *Store) List(ctx context.Context, prefix string) ([]snapshot.Object, error) {
	index := s.indexKey()
	if league, ok := snapshot.PrefixLeague(prefix); ok {
		index = s.leagueIndexKey(league)
	}

	entries, err := s.client.ZRangeWithScores(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "redis list blob index prefix=%s", prefix)
	}

	matched := make([]redis.Z, 0, len(entries))
	for _, entry := range entries {
		member, ok := entry.Member.(string)
		if ok && strings.HasPrefix(member, prefix) {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	sizes := make([]*redis.IntCmd, len(matched))
	exists := make([]*redis.IntCmd, len(matched))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, entry := range matched {
			key := s.blobKey(entry.Member.(string))
			exists[i] = pipe.Exists(ctx, key)
			sizes[i] = pipe.StrLen(ctx, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "redis stat blobs prefix=%s", prefix)
	}

	out := make([]snapshot.Object, 0, len(matched))
	for i, entry := range matched {
		if exists[i].Val() == 0 {
			continue
		}
		out = append(out, snapshot.Object{
			Key:          entry.Member.(string),
			Size:         sizes[i].Val(),
			LastModified: time.UnixMilli(int64(entry.Score)).UTC(),
		})
	}
	return out, nil
}

// Package cache is the optional redis layer: per-source collection
// results cached by day, and sent markers that keep serve mode from
// mailing the same day twice.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksasanka/ai-newsletter/internal/model"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func itemsKey(source, day string) string {
	return fmt.Sprintf("newsletter:cache:%s:%s", source, day)
}

func sentKey(day string) string {
	return fmt.Sprintf("newsletter:sent:%s", day)
}

// GetItems returns the cached collection result for a source and day.
// The bool reports whether the key existed; a cached empty result is
// still a hit.
func (s *Store) GetItems(ctx context.Context, source, day string) ([]model.ContentItem, bool, error) {
	b, err := s.rdb.Get(ctx, itemsKey(source, day)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []model.ContentItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// PutItems stores a source's collection result for a day.
func (s *Store) PutItems(ctx context.Context, source, day string, items []model.ContentItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, itemsKey(source, day), b, s.ttl).Err()
}

// WasSent reports whether the digest already went out on the given day.
func (s *Store) WasSent(ctx context.Context, day string) (bool, error) {
	res, err := s.rdb.Get(ctx, sentKey(day)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res == "1", nil
}

// MarkSent records that the digest went out on the given day. Markers
// outlive the item cache so a restart cannot re-send an old day.
func (s *Store) MarkSent(ctx context.Context, day string) error {
	return s.rdb.Set(ctx, sentKey(day), "1", 30*24*time.Hour).Err()
}

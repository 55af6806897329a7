// Package redisstore persists ledger entries in Redis lists, one list per
// klient. RPUSH keeps append order, so the causal-order contract holds without
// extra sequencing.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"domusvita/pkg/domain"
	"domusvita/pkg/ledger"
)

const entryKeyPrefix = "ledger:klient:"

type RedisStore struct {
	client *redis.Client
}

func New(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(klientID domain.KlientID) string {
	return entryKeyPrefix + klientID.String()
}

func (s *RedisStore) Append(ctx context.Context, entry ledger.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	if err := s.client.RPush(ctx, key(entry.KlientID), payload).Err(); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByKlient(ctx context.Context, klientID domain.KlientID) ([]ledger.Entry, error) {
	raw, err := s.client.LRange(ctx, key(klientID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	entries := make([]ledger.Entry, 0, len(raw))
	for _, item := range raw {
		var entry ledger.Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

package corpus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"disambig/internal/window"
)

// RedisCorpus keeps labelled windows in a Redis list, one record per entry.
type RedisCorpus struct {
	client *redis.Client
	key    string
}

// NewRedisCorpus stores the corpus called name under "corpus:<name>".
func NewRedisCorpus(client *redis.Client, name string) *RedisCorpus {
	return &RedisCorpus{client: client, key: "corpus:" + name}
}

func (rc *RedisCorpus) Key() string { return rc.key }

// Append pushes examples to the end of the list and returns its new length.
func (rc *RedisCorpus) Append(ctx context.Context, examples ...window.Example) (int64, error) {
	if len(examples) == 0 {
		return rc.Count(ctx)
	}
	records := make([]any, len(examples))
	for i, ex := range examples {
		records[i] = FormatRecord(ex)
	}
	return rc.client.RPush(ctx, rc.key, records...).Result()
}

// Load returns every stored window in insertion order.
func (rc *RedisCorpus) Load(ctx context.Context) ([]window.Example, error) {
	records, err := rc.client.LRange(ctx, rc.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	examples := make([]window.Example, 0, len(records))
	for i, r := range records {
		ex, err := ParseRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", rc.key, i, err)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// Count returns the number of stored windows.
func (rc *RedisCorpus) Count(ctx context.Context) (int64, error) {
	return rc.client.LLen(ctx, rc.key).Result()
}

// Clear removes the corpus.
func (rc *RedisCorpus) Clear(ctx context.Context) error {
	return rc.client.Del(ctx, rc.key).Err()
}

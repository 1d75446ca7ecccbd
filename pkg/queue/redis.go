package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"studyguide.parallel/blur5/pkg/stats"
)

const (
	ResultsKey = "blur5:results"
	// MaxHistory bounds the results list.
	MaxHistory = 1000
)

// ErrEmpty is returned by Latest when no results have been stored.
var ErrEmpty = errors.New("no stored results")

// ResultStore keeps benchmark records in a Redis list, newest first.
type ResultStore struct {
	client *redis.Client
}

// NewResultStore connects to the Redis server at addr.
func NewResultStore(ctx context.Context, addr string) (*ResultStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}
	return &ResultStore{client: client}, nil
}

// Push stores one record and trims the list to MaxHistory entries.
func (s *ResultStore) Push(ctx context.Context, rec stats.PerformanceData) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to marshal result")
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, ResultsKey, data)
		pipe.LTrim(ctx, ResultsKey, 0, MaxHistory-1)
		return nil
	})
	return errors.Wrap(err, "failed to push result")
}

// Recent returns up to n records, newest first.
func (s *ResultStore) Recent(ctx context.Context, n int) ([]stats.PerformanceData, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, ResultsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read results")
	}

	out := make([]stats.PerformanceData, 0, len(raw))
	for _, item := range raw {
		var rec stats.PerformanceData
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal result")
		}
		out = append(out, rec)
	}
	return out, nil
}

// Latest returns the most recent record.
func (s *ResultStore) Latest(ctx context.Context) (stats.PerformanceData, error) {
	recs, err := s.Recent(ctx, 1)
	if err != nil {
		return stats.PerformanceData{}, err
	}
	if len(recs) == 0 {
		return stats.PerformanceData{}, ErrEmpty
	}
	return recs[0], nil
}

// Close closes the Redis connection.
func (s *ResultStore) Close() error {
	return s.client.Close()
}

package rewind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisJournalStore appends Transitions to one Redis stream per processor
type RedisJournalStore struct {
	client *redis.Client
	prefix string
}

const (
	RedisConnectTimeout = 5 * time.Second

	journalSuffix = ":journal"
	dataField     = "data"
)

// ErrJournalRecordMalformed indicates a stored journal entry could not be
// decoded
var ErrJournalRecordMalformed = errors.New("journal record malformed")

// NewRedisJournalStore connects to Redis and verifies the connection
func NewRedisJournalStore(
	ctx context.Context, cfg JournalConfig,
) (*RedisJournalStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisJournalStore{
		client: client,
		prefix: cfg.Prefix,
	}, nil
}

func (s *RedisJournalStore) Append(ctx context.Context, tr *Transition) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.streamKey(tr.Processor),
		Values: map[string]any{dataField: string(data)},
	}).Err()
}

// Records reads the named processor's stream from the beginning
func (s *RedisJournalStore) Records(
	ctx context.Context, processor string,
) ([]*Transition, error) {
	msgs, err := s.client.XRange(ctx, s.streamKey(processor), "-", "+").Result()
	if err != nil {
		return nil, err
	}

	res := make([]*Transition, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values[dataField].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrJournalRecordMalformed, msg.ID)
		}
		tr := &Transition{}
		if err := json.Unmarshal([]byte(raw), tr); err != nil {
			return nil, fmt.Errorf("%w: %s: %w",
				ErrJournalRecordMalformed, msg.ID, err,
			)
		}
		res = append(res, tr)
	}
	return res, nil
}

// LastSequence returns the sequence of the newest entry in the named
// processor's stream
func (s *RedisJournalStore) LastSequence(
	ctx context.Context, processor string,
) (int64, error) {
	msgs, err := s.client.XRevRangeN(
		ctx, s.streamKey(processor), "+", "-", 1,
	).Result()
	if err != nil || len(msgs) == 0 {
		return 0, err
	}
	raw, ok := msgs[0].Values[dataField].(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrJournalRecordMalformed, msgs[0].ID)
	}
	tr := &Transition{}
	if err := json.Unmarshal([]byte(raw), tr); err != nil {
		return 0, fmt.Errorf("%w: %s: %w",
			ErrJournalRecordMalformed, msgs[0].ID, err,
		)
	}
	return tr.Sequence, nil
}

func (s *RedisJournalStore) Close() error {
	return s.client.Close()
}

func (s *RedisJournalStore) streamKey(processor string) string {
	return fmt.Sprintf("%s:%s%s", s.prefix, processor, journalSuffix)
}

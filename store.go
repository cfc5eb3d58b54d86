package rewind

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownJournalBackend indicates JournalConfig.Backend named a backend
// that does not exist
var ErrUnknownJournalBackend = errors.New("unknown journal backend")

// OpenJournalStore opens the JournalStore selected by cfg.Backend
func OpenJournalStore(
	ctx context.Context, cfg JournalConfig,
) (JournalStore, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryJournalStore(), nil
	case BackendRedis:
		return asJournalStore(NewRedisJournalStore(ctx, cfg))
	case BackendBolt:
		return asJournalStore(NewBoltJournalStore(cfg.BoltPath))
	case BackendPostgres:
		return asJournalStore(OpenPostgresJournalStore(ctx, cfg.PostgresURL))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJournalBackend, cfg.Backend)
	}
}

func asJournalStore[S JournalStore](s S, err error) (JournalStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

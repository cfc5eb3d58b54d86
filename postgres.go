package rewind

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type (
	// PostgresQuerier is the subset of pgx used by PostgresJournalStore. It
	// is satisfied by *pgx.Conn, *pgxpool.Pool, and pgx.Tx
	PostgresQuerier interface {
		Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
		Query(context.Context, string, ...any) (pgx.Rows, error)
	}

	// PostgresJournalStore appends Transitions to the rewind_journal table
	PostgresJournalStore struct {
		db    PostgresQuerier
		close func()
	}
)

const (
	pgCreateJournal = `
CREATE TABLE IF NOT EXISTS rewind_journal (
	processor   TEXT        NOT NULL,
	sequence    BIGINT      NOT NULL,
	kind        TEXT        NOT NULL,
	data        JSONB       NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (processor, sequence)
)`

	pgInsertTransition = `
INSERT INTO rewind_journal (processor, sequence, kind, data, recorded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (processor, sequence) DO NOTHING`

	pgSelectTransitions = `
SELECT data FROM rewind_journal
WHERE processor = $1
ORDER BY sequence`

	pgLastSequence = `
SELECT COALESCE(MAX(sequence), 0) FROM rewind_journal
WHERE processor = $1`
)

// OpenPostgresJournalStore connects a pgx pool to url and prepares the
// journal table
func OpenPostgresJournalStore(
	ctx context.Context, url string,
) (*PostgresJournalStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s, err := NewPostgresJournalStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.close = pool.Close
	return s, nil
}

// NewPostgresJournalStore prepares the journal table using db. Closing the
// returned store does not close db
func NewPostgresJournalStore(
	ctx context.Context, db PostgresQuerier,
) (*PostgresJournalStore, error) {
	if _, err := db.Exec(ctx, pgCreateJournal); err != nil {
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	return &PostgresJournalStore{db: db}, nil
}

func (s *PostgresJournalStore) Append(
	ctx context.Context, tr *Transition,
) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, pgInsertTransition,
		tr.Processor, tr.Sequence, string(tr.Kind), string(data), tr.Timestamp,
	)
	return err
}

// Records returns the named processor's Transitions ordered by sequence
func (s *PostgresJournalStore) Records(
	ctx context.Context, processor string,
) ([]*Transition, error) {
	rows, err := s.db.Query(ctx, pgSelectTransitions, processor)
	if err != nil {
		return nil, err
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, err
	}

	res := make([]*Transition, 0, len(raw))
	for _, data := range raw {
		tr := &Transition{}
		if err := json.Unmarshal(data, tr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrJournalRecordMalformed, err)
		}
		res = append(res, tr)
	}
	return res, nil
}

// LastSequence returns the highest stored sequence of the named processor
func (s *PostgresJournalStore) LastSequence(
	ctx context.Context, processor string,
) (int64, error) {
	rows, err := s.db.Query(ctx, pgLastSequence, processor)
	if err != nil {
		return 0, err
	}
	return pgx.CollectOneRow(rows, pgx.RowTo[int64])
}

func (s *PostgresJournalStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

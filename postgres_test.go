package rewind_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/rewind"
)

type (
	fakePostgres struct {
		execErr error
		execs   []fakeExec
		rows    [][]byte
		seqs    []int64
	}

	fakeExec struct {
		sql  string
		args []any
	}

	fakeRows struct {
		values []any
		idx    int
	}
)

func (f *fakePostgres) Exec(
	_ context.Context, sql string, args ...any,
) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	f.execs = append(f.execs, fakeExec{sql: sql, args: args})
	if len(args) == 5 {
		f.rows = append(f.rows, []byte(args[3].(string)))
		f.seqs = append(f.seqs, args[1].(int64))
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (f *fakePostgres) Query(
	_ context.Context, sql string, _ ...any,
) (pgx.Rows, error) {
	if strings.Contains(sql, "MAX(sequence)") {
		var last int64
		for _, seq := range f.seqs {
			last = max(last, seq)
		}
		return &fakeRows{values: []any{last}, idx: -1}, nil
	}
	values := make([]any, len(f.rows))
	for i, row := range f.rows {
		values[i] = row
	}
	return &fakeRows{values: values, idx: -1}, nil
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT")
}

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}

func (r *fakeRows) RawValues() [][]byte {
	return nil
}

func (r *fakeRows) Conn() *pgx.Conn {
	return nil
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	switch out := dest[0].(type) {
	case *[]byte:
		*out = r.values[r.idx].([]byte)
	case *int64:
		*out = r.values[r.idx].(int64)
	default:
		return errors.New("unexpected scan target")
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	return []any{r.values[r.idx]}, nil
}

func TestPostgresJournalStore(t *testing.T) {
	db := &fakePostgres{}
	ctx := context.Background()

	store, err := rewind.NewPostgresJournalStore(ctx, db)
	require.NoError(t, err)
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS rewind_journal")

	journalText(t, store, "doc")
	require.Len(t, db.execs, 4)

	insert := db.execs[1]
	assert.True(t, strings.Contains(insert.sql, "ON CONFLICT"))
	assert.Equal(t, "doc", insert.args[0])
	assert.Equal(t, int64(1), insert.args[1])
	assert.Equal(t, "execute", insert.args[2])
	assert.IsType(t, time.Time{}, insert.args[4])

	recs, err := store.Records(ctx, "doc")
	assert.NoError(t, err)
	assertTextJournal(t, recs, "doc")
	assertLastSequence(t, store, "doc", 3)
	assert.NoError(t, store.Close())
}

func TestPostgresJournalStoreSchemaError(t *testing.T) {
	db := &fakePostgres{execErr: errors.New("permission denied")}
	store, err := rewind.NewPostgresJournalStore(context.Background(), db)
	assert.ErrorContains(t, err, "create journal table")
	assert.Nil(t, store)
}

func TestPostgresJournalStoreMalformed(t *testing.T) {
	db := &fakePostgres{rows: [][]byte{[]byte("not-json")}}
	store, err := rewind.NewPostgresJournalStore(context.Background(), db)
	require.NoError(t, err)

	recs, err := store.Records(context.Background(), "doc")
	assert.ErrorIs(t, err, rewind.ErrJournalRecordMalformed)
	assert.Nil(t, recs)
}

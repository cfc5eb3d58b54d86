package rewind

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltJournalStore keeps one bbolt bucket per processor, keyed by
// big-endian Transition sequence so that iteration is in order
type BoltJournalStore struct {
	db *bolt.DB
}

const boltOpenTimeout = 5 * time.Second

// NewBoltJournalStore opens or creates the bbolt file at path
func NewBoltJournalStore(path string) (*BoltJournalStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: boltOpenTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open bolt journal: %w", err)
	}
	return &BoltJournalStore{db: db}, nil
}

func (s *BoltJournalStore) Append(ctx context.Context, tr *Transition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(tr.Processor))
		if err != nil {
			return err
		}
		return b.Put(sequenceKey(tr.Sequence), data)
	})
}

// Records returns the named processor's Transitions ordered by sequence
func (s *BoltJournalStore) Records(
	ctx context.Context, processor string,
) ([]*Transition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := []*Transition{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(processor))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			tr := &Transition{}
			if err := json.Unmarshal(v, tr); err != nil {
				return fmt.Errorf("%w: %x: %w",
					ErrJournalRecordMalformed, k, err,
				)
			}
			res = append(res, tr)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// LastSequence returns the highest key in the named processor's bucket
func (s *BoltJournalStore) LastSequence(
	ctx context.Context, processor string,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var res int64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(processor))
		if b == nil {
			return nil
		}
		if k, _ := b.Cursor().Last(); k != nil {
			res = int64(binary.BigEndian.Uint64(k))
		}
		return nil
	})
	return res, err
}

func (s *BoltJournalStore) Close() error {
	return s.db.Close()
}

// bucketName is never empty, as bbolt rejects empty bucket names
func bucketName(processor string) []byte {
	return []byte("journal:" + processor)
}

func sequenceKey(seq int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(seq))
	return key
}

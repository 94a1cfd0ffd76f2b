// internal/journal/journal.go
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/google/uuid"
)

// dbName is the database name under the journal directory.
const dbName = "journal"

var keyPrefix = []byte("tx/")

// Record is one journaled broadcast attempt.
type Record struct {
	Time    time.Time `json:"time"`
	ChainID string    `json:"chainId"`
	Signer  string    `json:"signer"`
	TxType  string    `json:"txType"`
	Summary string    `json:"summary,omitempty"`
	Fee     string    `json:"fee,omitempty"`
	Gas     uint64    `json:"gas,omitempty"`
	Memo    string    `json:"memo,omitempty"`
	Success bool      `json:"success"`
	TxHash  string    `json:"txHash,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Journal stores broadcast records in a cosmos-db key/value store, ordered by time.
type Journal struct {
	db  dbm.DB
	now func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces the clock used to timestamp records.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// New wraps an open database.
func New(db dbm.DB, opts ...Option) *Journal {
	j := &Journal{db: db, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Open opens (or creates) the goleveldb journal in dir.
func Open(dir string, opts ...Option) (*Journal, error) {
	db, err := dbm.NewDB(dbName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal in %s: %w", dir, err)
	}
	return New(db, opts...), nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append stores rec, stamping it with the current time when unset.
func (j *Journal) Append(rec Record) error {
	if rec.Time.IsZero() {
		rec.Time = j.now()
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode journal record: %w", err)
	}
	if err := j.db.SetSync(recordKey(rec), value); err != nil {
		return fmt.Errorf("failed to write journal record: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. A limit of 0 returns all.
func (j *Journal) List(limit int) ([]Record, error) {
	it, err := j.db.ReverseIterator(keyPrefix, prefixEnd(keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	defer it.Close()

	var records []Record
	for ; it.Valid(); it.Next() {
		if limit > 0 && len(records) >= limit {
			break
		}
		var rec Record
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			return nil, fmt.Errorf("corrupt journal record %q: %w", it.Key(), err)
		}
		records = append(records, rec)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	return records, nil
}

// recordKey is tx/<zero padded unix nanos>/<hash or attempt id>, which sorts by time.
func recordKey(rec Record) []byte {
	id := rec.TxHash
	if id == "" {
		id = "failed-" + uuid.NewString()
	}
	return []byte(fmt.Sprintf("%s%020d/%s", keyPrefix, rec.Time.UnixNano(), id))
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

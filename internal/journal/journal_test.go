// internal/journal/journal_test.go
package journal

import (
	"testing"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func TestJournal_AppendAndList(t *testing.T) {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	j := New(dbm.NewMemDB(), WithClock(fixedClock(start)))

	require.NoError(t, j.Append(Record{TxType: "staking/delegate", Success: true, TxHash: "AAA"}))
	require.NoError(t, j.Append(Record{TxType: "staking/unbond", Success: false, Error: "rejected"}))
	require.NoError(t, j.Append(Record{TxType: "distribution/claim", Success: true, TxHash: "CCC"}))

	records, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "CCC", records[0].TxHash)
	require.Equal(t, "staking/unbond", records[1].TxType)
	require.Equal(t, "rejected", records[1].Error)
	require.Equal(t, "AAA", records[2].TxHash)
	require.True(t, records[2].Time.Equal(start))
}

func TestJournal_ListLimit(t *testing.T) {
	j := New(dbm.NewMemDB(), WithClock(fixedClock(time.Unix(1_700_000_000, 0))))
	for _, hash := range []string{"A", "B", "C", "D"} {
		require.NoError(t, j.Append(Record{TxHash: hash, Success: true}))
	}

	records, err := j.List(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "D", records[0].TxHash)
	require.Equal(t, "C", records[1].TxHash)
}

func TestJournal_KeepsExplicitTime(t *testing.T) {
	j := New(dbm.NewMemDB())
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, j.Append(Record{Time: at, TxHash: "X"}))

	records, err := j.List(0)
	require.NoError(t, err)
	require.True(t, records[0].Time.Equal(at))
}

func TestJournal_FailedAttemptsDoNotCollide(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	j := New(dbm.NewMemDB())

	require.NoError(t, j.Append(Record{Time: at, Error: "one"}))
	require.NoError(t, j.Append(Record{Time: at, Error: "two"}))

	records, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestJournal_IgnoresForeignKeys(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("meta/version"), []byte("1")))
	require.NoError(t, db.Set([]byte("tz"), []byte("not json")))
	j := New(db)

	require.NoError(t, j.Append(Record{TxHash: "A"}))

	records, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestJournal_OpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, j.Append(Record{TxHash: "DISK", Success: true}))
	require.NoError(t, j.Close())

	j, err = Open(dir)
	require.NoError(t, err)
	defer j.Close()

	records, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "DISK", records[0].TxHash)
}

func TestPrefixEnd(t *testing.T) {
	require.Equal(t, []byte("tx0"), prefixEnd([]byte("tx/")))
	require.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	require.Nil(t, prefixEnd([]byte{0xff}))
}

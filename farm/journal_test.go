// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"testing"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"
)

func TestJournalAppendAndRead(t *testing.T) {
	j := NewJournal(memdb.New())

	require.NoError(t, j.Append(100, "addLiquidity", testUser1, map[string]string{"shares": "100000"}))
	require.NoError(t, j.Append(200, "swap", testUser2, map[string]string{"amountIn": "10000"}))
	require.NoError(t, j.Append(300, "claimRewards", testUser1, nil))

	n, err := j.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	entry, err := j.Entry(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), entry.Seq)
	require.Equal(t, uint64(100), entry.Time)
	require.Equal(t, "addLiquidity", entry.Op)
	require.Equal(t, testUser1.Hex(), entry.Caller)
	require.Equal(t, "100000", entry.Fields["shares"])

	entries, err := j.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		require.Equal(t, uint64(i), e.Seq)
	}

	entries, err = j.List(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestJournalResumesFromStoredHead(t *testing.T) {
	db := memdb.New()

	j1 := NewJournal(db)
	require.NoError(t, j1.Append(100, "fundRewards", testFunder, nil))
	require.NoError(t, j1.Append(200, "setRewardRate", testOwner, nil))

	// A fresh journal over the same database picks up where the old
	// one stopped.
	j2 := NewJournal(db)
	require.NoError(t, j2.Append(300, "swap", testUser1, nil))

	n, err := j2.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	entry, err := j2.Entry(2)
	require.NoError(t, err)
	require.Equal(t, "swap", entry.Op)
	require.Equal(t, uint64(300), entry.Time)
}

func TestJournalNilDatabase(t *testing.T) {
	j := NewJournal(nil)

	require.NoError(t, j.Append(100, "swap", testUser1, nil))

	n, err := j.Len()
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = j.Entry(0)
	require.ErrorIs(t, err, database.ErrNotFound)

	entries, err := j.List(10)
	require.NoError(t, err)
	require.Nil(t, entries)
}

func TestFarmRecordsOperations(t *testing.T) {
	ledger := NewStateLedger(FarmAddr)
	control := NewStateControl()
	journal := NewJournal(memdb.New())
	f := NewFarmWith(ledger, control, control, journal)
	db := newMockStateDB()

	require.NoError(t, f.Initialize(db, testFarmParams()))
	require.NoError(t, f.SetOperationsEnabled(db, testOwner, true))
	ledger.Credit(db, testAssetA, testUser1, bigInt("1000000"))
	ledger.Credit(db, testAssetB, testUser1, bigInt("1000000"))

	_, err := f.AddLiquidity(db, testUser1, bigInt("100000"), bigInt("100000"))
	require.NoError(t, err)
	_, err = f.Swap(db, testUser1, testAssetA, bigInt("10000"), nil)
	require.NoError(t, err)

	entries, err := journal.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "setOperationsEnabled", entries[0].Op)
	require.Equal(t, "addLiquidity", entries[1].Op)
	require.Equal(t, "swap", entries[2].Op)
	require.Equal(t, testUser1.Hex(), entries[1].Caller)
	require.Equal(t, "100000", entries[1].Fields["shares"])
	require.Equal(t, db.GetTimestamp(), entries[2].Time)
}

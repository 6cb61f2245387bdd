// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package farm

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

// JournalEntry is one committed operation, recorded for off-chain
// indexers. Amounts are decimal strings to survive JSON round-trips.
type JournalEntry struct {
	Seq    uint64            `json:"seq"`
	Time   uint64            `json:"time"`
	Op     string            `json:"op"`
	Caller string            `json:"caller"`
	Fields map[string]string `json:"fields,omitempty"`
}

var (
	journalHeadKey     = []byte("journal/head")
	journalEntryPrefix = []byte("journal/entry/")
)

func journalEntryKey(seq uint64) []byte {
	key := make([]byte, len(journalEntryPrefix)+8)
	copy(key, journalEntryPrefix)
	binary.BigEndian.PutUint64(key[len(journalEntryPrefix):], seq)
	return key
}

// Journal appends operation records to a database. A Journal over a nil
// database records nothing and never errors, so wiring one is optional.
type Journal struct {
	db database.Database

	mu     sync.Mutex
	seq    uint64
	loaded bool
}

// NewJournal returns a journal writing to db. Pass nil to disable.
func NewJournal(db database.Database) *Journal {
	return &Journal{db: db}
}

func (j *Journal) loadHead() error {
	if j.loaded {
		return nil
	}
	raw, err := j.db.Get(journalHeadKey)
	switch {
	case err == nil:
		j.seq = binary.BigEndian.Uint64(raw)
	case errors.Is(err, database.ErrNotFound):
		j.seq = 0
	default:
		return err
	}
	j.loaded = true
	return nil
}

// Append records one committed operation.
func (j *Journal) Append(now uint64, op string, caller common.Address, fields map[string]string) error {
	if j == nil || j.db == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.loadHead(); err != nil {
		return err
	}
	entry := JournalEntry{
		Seq:    j.seq,
		Time:   now,
		Op:     op,
		Caller: caller.Hex(),
		Fields: fields,
	}
	blob, err := json.Marshal(&entry)
	if err != nil {
		return err
	}
	if err := j.db.Put(journalEntryKey(j.seq), blob); err != nil {
		return err
	}
	next := j.seq + 1
	head := make([]byte, 8)
	binary.BigEndian.PutUint64(head, next)
	if err := j.db.Put(journalHeadKey, head); err != nil {
		return err
	}
	j.seq = next
	return nil
}

// Len returns the number of recorded entries.
func (j *Journal) Len() (uint64, error) {
	if j == nil || j.db == nil {
		return 0, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.loadHead(); err != nil {
		return 0, err
	}
	return j.seq, nil
}

// Entry returns the record at seq.
func (j *Journal) Entry(seq uint64) (JournalEntry, error) {
	var entry JournalEntry
	if j == nil || j.db == nil {
		return entry, database.ErrNotFound
	}
	raw, err := j.db.Get(journalEntryKey(seq))
	if err != nil {
		return entry, err
	}
	err = json.Unmarshal(raw, &entry)
	return entry, err
}

// List returns up to max entries in sequence order.
func (j *Journal) List(max int) ([]JournalEntry, error) {
	if j == nil || j.db == nil || max <= 0 {
		return nil, nil
	}
	iter := j.db.NewIteratorWithPrefix(journalEntryPrefix)
	defer iter.Release()

	var entries []JournalEntry
	for iter.Next() && len(entries) < max {
		var entry JournalEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

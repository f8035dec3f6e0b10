// Package storage keeps an archive of finished games in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Yash182023/Chess-Mania/internal/engine"
)

const gamePrefix = "game/"

var ErrGameNotFound = errors.New("archived game not found")

// GameRecord is the archived form of a finished game.
type GameRecord struct {
	ID        string        `json:"id"`
	White     string        `json:"white"`
	Black     string        `json:"black"`
	Moves     []engine.Move `json:"moves"`
	Result    string        `json:"result"`
	Winner    *engine.Color `json:"winner"`
	FinalFEN  string        `json:"finalFen"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
}

// Replay applies the recorded moves to the starting position and returns
// the final position.
func (r GameRecord) Replay() (engine.Position, error) {
	pos := engine.NewPosition()
	for i, m := range r.Moves {
		next, err := engine.ApplyMove(pos, m)
		if err != nil {
			return pos, fmt.Errorf("move %d (%v): %w", i+1, m, err)
		}
		pos = next
	}
	return pos, nil
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the archive in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame stores rec, replacing any record with the same ID.
func (s *Storage) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// ListGames returns every archived game, most recently finished first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	records := []GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EndedAt.After(records[j].EndedAt)
	})
	return records, nil
}

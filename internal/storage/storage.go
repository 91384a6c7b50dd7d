// Package storage records finished episodes and aggregate results in a
// BadgerDB database.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessgym/internal/board"
)

// Storage keys
var (
	prefixEpisode = []byte("episode/")
	keyStats      = []byte("stats")
	keySequence   = []byte("seq/episode")
)

// ErrNotFound is returned when a requested episode does not exist.
var ErrNotFound = errors.New("storage: not found")

// maxConflictRetries bounds retries of read-modify-write transactions that
// collide with a concurrent writer.
const maxConflictRetries = 16

// Episode is one finished (or abandoned) game played through the environment.
type Episode struct {
	ID        uint64    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	FinalFEN  string    `json:"final_fen"`
	AgentSide string    `json:"agent_side"`
	Depth     int       `json:"depth"`
	Actions   []int     `json:"actions"`
	Moves     []string  `json:"moves"`
	SAN       []string  `json:"san"`
	Outcome   string    `json:"outcome"`
	Reward    float64   `json:"reward"`
	Plies     int       `json:"plies"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

// Stats aggregates results over all recorded episodes. Wins and losses are
// counted from the agent's side.
type Stats struct {
	Episodes         int            `json:"episodes"`
	Wins             int            `json:"wins"`
	Losses           int            `json:"losses"`
	Draws            int            `json:"draws"`
	Outcomes         map[string]int `json:"outcomes"`
	TotalPlies       int            `json:"total_plies"`
	CurrentStreak    int            `json:"current_streak"`
	LongestWinStreak int            `json:"longest_win_streak"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{Outcomes: make(map[string]int)}
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Episodes) * 100
}

// Storage wraps BadgerDB for persistent storage. It is safe for concurrent
// use.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence

	statsMu sync.Mutex
}

// Open opens the database in dir. An empty dir opens an in-memory database.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence(keySequence, 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("episode sequence: %w", err)
	}
	return &Storage{db: db, seq: seq}, nil
}

// OpenDefault opens the database in DatabaseDir.
func OpenDefault() (*Storage, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	seqErr := s.seq.Release()
	if err := s.db.Close(); err != nil {
		return err
	}
	return seqErr
}

func episodeKey(id uint64) []byte {
	key := make([]byte, len(prefixEpisode)+8)
	copy(key, prefixEpisode)
	binary.BigEndian.PutUint64(key[len(prefixEpisode):], id)
	return key
}

// SaveEpisode stores ep, assigning it the next ID when ep.ID is zero.
func (s *Storage) SaveEpisode(ep *Episode) error {
	if ep.ID == 0 {
		n, err := s.seq.Next()
		if err != nil {
			return fmt.Errorf("next episode id: %w", err)
		}
		ep.ID = n + 1
	}

	data, err := json.Marshal(ep)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(episodeKey(ep.ID), data)
	})
}

// LoadEpisode returns the episode with the given ID.
func (s *Storage) LoadEpisode(id uint64) (*Episode, error) {
	ep := &Episode{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(episodeKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("episode %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, ep)
		})
	})
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// ListEpisodes returns up to limit episodes, newest first. A limit of zero
// or less returns all of them.
func (s *Storage) ListEpisodes(limit int) ([]*Episode, error) {
	var out []*Episode
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefixEpisode
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the largest key not above the seek key.
		seek := append(append([]byte(nil), prefixEpisode...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefixEpisode); it.Next() {
			ep := &Episode{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, ep)
			}); err != nil {
				return err
			}
			out = append(out, ep)
			if limit > 0 && len(out) == limit {
				return nil
			}
		}
		return nil
	})
	return out, err
}

// LoadStats loads aggregate statistics, returning empty stats if none exist.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return readStats(txn, stats)
	})
	return stats, err
}

func readStats(txn *badger.Txn, stats *Stats) error {
	item, err := txn.Get(keyStats)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, stats); err != nil {
			return err
		}
		if stats.Outcomes == nil {
			stats.Outcomes = make(map[string]int)
		}
		return nil
	})
}

// RecordOutcome folds one finished episode into the aggregate statistics.
// agentReward is the episode's final reward from the agent's side.
func (s *Storage) RecordOutcome(outcome board.Outcome, agentReward float64, plies int) error {
	update := func(txn *badger.Txn) error {
		stats := NewStats()
		if err := readStats(txn, stats); err != nil {
			return err
		}

		stats.Episodes++
		stats.TotalPlies += plies
		stats.Outcomes[outcome.String()]++
		switch {
		case agentReward > 0:
			stats.Wins++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestWinStreak {
				stats.LongestWinStreak = stats.CurrentStreak
			}
		case agentReward < 0:
			stats.Losses++
			stats.CurrentStreak = 0
		default:
			stats.Draws++
			stats.CurrentStreak = 0
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set(keyStats, data)
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	var err error
	for i := 0; i < maxConflictRetries; i++ {
		if err = s.db.Update(update); !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("record outcome: %w", err)
}

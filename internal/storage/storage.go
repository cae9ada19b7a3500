package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores the user's settings.
type Preferences struct {
	Username     string    `json:"username"`
	SoundEnabled bool      `json:"sound_enabled"`
	ShowTargets  bool      `json:"show_targets"`
	LastPlayed   time.Time `json:"last_played"`
}

// DefaultPreferences returns the settings used before the user changes
// anything.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:     "Player",
		SoundEnabled: true,
		ShowTargets:  true,
		LastPlayed:   time.Now(),
	}
}

// Stats accumulates lifetime results, from the human's point of view.
type Stats struct {
	GamesPlayed    int `json:"games_played"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	Draws          int `json:"draws"`
	CurrentStreak  int `json:"current_streak"`
	LongestWinStrk int `json:"longest_win_streak"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{}
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Result is the outcome of one finished game, from the human's point of
// view. Exactly one of Won and Draw may be set; neither means a loss.
type Result struct {
	Won  bool
	Draw bool
}

// Storage wraps BadgerDB for persistent settings and stats.
type Storage struct {
	db *badger.DB
}

// New opens the storage under the per-user data directory.
func New() (*Storage, error) {
	dbDir, err := databaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the storage at an explicit directory. Tests use this with a
// temp dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences writes the preferences, stamping LastPlayed.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences reads the preferences, returning defaults when none have
// been saved yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats writes the statistics.
func (s *Storage) SaveStats(stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats reads the statistics, returning empty stats when none have been
// saved yet.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult folds one finished game into the statistics.
func (s *Storage) RecordResult(result Result) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

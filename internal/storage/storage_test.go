package storage

import (
	"os"
	"testing"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaults(t *testing.T) {
	t.Run("Preferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("expected username 'Player', got %q", prefs.Username)
		}
		if !prefs.SoundEnabled {
			t.Error("expected sound enabled by default")
		}
		if !prefs.ShowTargets {
			t.Error("expected move targets shown by default")
		}
	})

	t.Run("Stats", func(t *testing.T) {
		stats := NewStats()
		if stats.GamesPlayed != 0 {
			t.Error("expected 0 games played")
		}
		if stats.WinRate() != 0 {
			t.Error("expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &Stats{GamesPlayed: 10, Wins: 5, Losses: 3, Draws: 2}
		if rate := stats.WinRate(); rate != 50 {
			t.Errorf("expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	// Missing key falls back to defaults.
	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs.Username != "Player" {
		t.Errorf("expected defaults on empty DB, got %q", prefs.Username)
	}

	prefs.Username = "Magnus"
	prefs.SoundEnabled = false
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if loaded.Username != "Magnus" || loaded.SoundEnabled {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.LastPlayed.IsZero() {
		t.Error("LastPlayed was not stamped on save")
	}
}

func TestRecordResult(t *testing.T) {
	s := openTestStorage(t)

	results := []Result{
		{Won: true},
		{Won: true},
		{Draw: true},
		{},
		{Won: true},
	}
	for _, r := range results {
		if err := s.RecordResult(r); err != nil {
			t.Fatalf("RecordResult failed: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.GamesPlayed != 5 || stats.Wins != 3 || stats.Losses != 1 || stats.Draws != 1 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if stats.LongestWinStrk != 2 {
		t.Errorf("longest streak = %d, want 2", stats.LongestWinStrk)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", stats.CurrentStreak)
	}
}

func TestDataDir(t *testing.T) {
	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Fatal("DataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
	t.Logf("data directory: %s", dataDir)
}

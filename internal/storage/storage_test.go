package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hailam/chessgym/internal/board"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEpisodeRoundTrip(t *testing.T) {
	s := openTest(t)
	ep := &Episode{
		StartFEN:  board.StartFEN,
		AgentSide: "white",
		Depth:     2,
		Actions:   []int{3155, 796},
		Moves:     []string{"d2d4", "d7d5"},
		Outcome:   board.Ongoing.String(),
		Plies:     2,
		Started:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Finished:  time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
	}
	if err := s.SaveEpisode(ep); err != nil {
		t.Fatal(err)
	}
	if ep.ID == 0 {
		t.Fatal("SaveEpisode did not assign an ID")
	}

	got, err := s.LoadEpisode(ep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.StartFEN != ep.StartFEN || got.Depth != 2 || len(got.Actions) != 2 || got.Actions[0] != 3155 {
		t.Errorf("loaded %+v", got)
	}
	if !got.Started.Equal(ep.Started) || !got.Finished.Equal(ep.Finished) {
		t.Errorf("timestamps changed: %v %v", got.Started, got.Finished)
	}
}

func TestLoadMissingEpisode(t *testing.T) {
	s := openTest(t)
	if _, err := s.LoadEpisode(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListEpisodesNewestFirst(t *testing.T) {
	s := openTest(t)
	for i := 0; i < 5; i++ {
		if err := s.SaveEpisode(&Episode{Plies: i}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListEpisodes(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d episodes, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID >= all[i-1].ID {
			t.Errorf("episodes not newest first: %d after %d", all[i].ID, all[i-1].ID)
		}
	}
	if all[0].Plies != 4 {
		t.Errorf("newest episode has %d plies, want 4", all[0].Plies)
	}

	some, err := s.ListEpisodes(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(some) != 2 || some[0].ID != all[0].ID {
		t.Errorf("limited list = %d episodes", len(some))
	}
}

func TestRecordOutcome(t *testing.T) {
	s := openTest(t)
	results := []struct {
		outcome board.Outcome
		reward  float64
	}{
		{board.Checkmate, 1},
		{board.Checkmate, 1},
		{board.Stalemate, 0},
		{board.Checkmate, 1},
		{board.Checkmate, -1},
	}
	for _, r := range results {
		if err := s.RecordOutcome(r.outcome, r.reward, 10); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Episodes != 5 || stats.Wins != 3 || stats.Losses != 1 || stats.Draws != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LongestWinStreak != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks = %d/%d, want 2/0", stats.LongestWinStreak, stats.CurrentStreak)
	}
	if stats.Outcomes["checkmate"] != 4 || stats.TotalPlies != 50 {
		t.Errorf("outcomes = %v, plies = %d", stats.Outcomes, stats.TotalPlies)
	}
	if stats.WinRate() != 60 {
		t.Errorf("win rate = %.1f, want 60", stats.WinRate())
	}
}

func TestConcurrentWriters(t *testing.T) {
	s := openTest(t)
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.SaveEpisode(&Episode{Plies: i})
			errs <- s.RecordOutcome(board.Stalemate, 0, 1)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	eps, err := s.ListEpisodes(0)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[uint64]bool{}
	for _, ep := range eps {
		if seen[ep.ID] {
			t.Errorf("duplicate episode id %d", ep.ID)
		}
		seen[ep.ID] = true
	}
	if len(eps) != n {
		t.Errorf("got %d episodes, want %d", len(eps), n)
	}
	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Episodes != n {
		t.Errorf("stats counted %d episodes, want %d", stats.Episodes, n)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	ep := &Episode{Outcome: "checkmate"}
	if err := s.SaveEpisode(ep); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.LoadEpisode(ep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != "checkmate" {
		t.Errorf("outcome = %q", got.Outcome)
	}
	next := &Episode{}
	if err := s.SaveEpisode(next); err != nil {
		t.Fatal(err)
	}
	if next.ID <= ep.ID {
		t.Errorf("id %d reused after reopen (previous %d)", next.ID, ep.ID)
	}
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)
	got, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("DataDir = %q, want %q", got, dir)
	}
	db, err := DatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if db == dir {
		t.Error("DatabaseDir should be below DataDir")
	}
}

package runindex

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_RecordAndList(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "idx", "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "r1", Scenario: "flood", StartedAt: base, FinishedAt: base.Add(time.Second),
			Seed: 7, Turns: 400, Helpers: 4, Species: 3, Delivered: 5, Pairs: 2, Score: 2, Digest: "d1"},
		{ID: "r2", Scenario: "flood", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(2 * time.Minute),
			Seed: 8, Turns: 120, Helpers: 4, Species: 3, Digest: "d2", Fatal: "E_ILLEGAL_ACTION: helper 2 released N0003"},
	}
	for _, r := range runs {
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("record %s: %v", r.ID, err)
		}
	}

	got, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d runs, want 2", len(got))
	}
	if got[0].ID != "r2" || got[1].ID != "r1" {
		t.Fatalf("order not most-recent-first: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Score != 2 || got[1].Pairs != 2 || got[1].Fatal != "" {
		t.Fatalf("clean run mangled: %+v", got[1])
	}
	if got[0].Fatal == "" {
		t.Fatalf("fatal run lost its fatal: %+v", got[0])
	}
	if !got[1].StartedAt.Equal(base) {
		t.Fatalf("started_at round trip: %v != %v", got[1].StartedAt, base)
	}
}

func TestStore_RecordRunUpserts(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	r := Run{ID: "r1", Scenario: "flood", StartedAt: time.Now(), FinishedAt: time.Now(), Digest: "a"}
	if err := s.RecordRun(r); err != nil {
		t.Fatal(err)
	}
	r.Digest = "b"
	if err := s.RecordRun(r); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := s.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Digest != "b" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("empty path accepted")
	}
}

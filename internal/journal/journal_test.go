package journal_test

import (
	"context"
	"os"
	"testing"

	"mediakit/internal/journal"
	"mediakit/internal/testsupport"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	if store == nil {
		t.Fatal("expected a store when the journal is enabled")
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := store.Begin("plex music")
	if run.ID() == "" {
		t.Fatal("expected run id")
	}
	entries := []journal.Entry{
		{Action: journal.ActionCopy, Source: "/in/a.flac", Target: "/out/A/B/01 - a.flac"},
		{Action: journal.ActionWriteTag, Source: "/out/A/B/01 - a.flac", Detail: "album=B"},
	}
	for _, e := range entries {
		if err := run.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	other := store.Begin("gps update")
	if err := other.Record(ctx, journal.Entry{Action: journal.ActionWriteGPS, Source: "/p/x.jpg", Detail: "1,2"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].Action != journal.ActionWriteGPS || recent[0].Command != "gps update" {
		t.Fatalf("newest entry first expected, got %+v", recent[0])
	}
	if recent[1].Action != journal.ActionWriteTag || recent[1].Detail != "album=B" {
		t.Fatalf("unexpected second entry %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("timestamp not stored")
	}

	byRun, err := store.ForRun(ctx, run.ID())
	if err != nil {
		t.Fatalf("ForRun: %v", err)
	}
	if len(byRun) != 2 || byRun[0].Target != "/out/A/B/01 - a.flac" || byRun[0].RunID != run.ID() {
		t.Fatalf("unexpected run entries %+v", byRun)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Begin("rename").Record(context.Background(), journal.Entry{Action: journal.ActionCopy, Source: "a", Target: "b"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	recent, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d entries after reopen, want 1", len(recent))
	}
	if _, err := os.Stat(cfg.JournalPath()); err != nil {
		t.Fatalf("journal file missing: %v", err)
	}
}

func TestDisabledJournalIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal(false))
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store != nil {
		t.Fatal("expected nil store for disabled journal")
	}
	run := store.Begin("rename")
	if err := run.Record(context.Background(), journal.Entry{Action: journal.ActionCopy}); err != nil {
		t.Fatalf("Record on disabled journal: %v", err)
	}
	entries, err := store.Recent(context.Background(), 5)
	if err != nil || entries != nil {
		t.Fatalf("Recent on nil store = %v, %v", entries, err)
	}
	if _, err := os.Stat(cfg.JournalPath()); !os.IsNotExist(err) {
		t.Fatalf("journal should not be created, stat err=%v", err)
	}
	if err := journal.Nop().Record(context.Background(), journal.Entry{}); err != nil {
		t.Fatalf("Nop.Record: %v", err)
	}
}

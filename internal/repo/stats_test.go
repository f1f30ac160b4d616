package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMessagesStats_MissingDir(t *testing.T) {
	s := NewMessageStore(filepath.Join(t.TempDir(), "absent"))
	count, latest, err := MessagesStats(context.Background(), s)
	if err != nil || count != 0 || latest != nil {
		t.Fatalf("MessagesStats(missing) = (%d, %v, %v); want (0, nil, nil)", count, latest, err)
	}
}

func TestMessagesStats_CountsJSONAndTracksLatest(t *testing.T) {
	dir := t.TempDir()
	s := NewMessageStore(dir)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	write := func(name string, mt time.Time) {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	write("a.json", old)
	write("b.json", recent)
	write("c.txt", recent.Add(time.Hour)) // ignored

	count, latest, err := MessagesStats(context.Background(), s)
	if err != nil {
		t.Fatalf("MessagesStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d; want 2", count)
	}
	if latest == nil || !latest.Equal(recent) {
		t.Fatalf("latest = %v; want %v", latest, recent)
	}
}

func TestMessagesStats_EmptyDir(t *testing.T) {
	s := NewMessageStore(t.TempDir())
	count, latest, err := MessagesStats(context.Background(), s)
	if err != nil || count != 0 || latest != nil {
		t.Fatalf("MessagesStats(empty) = (%d, %v, %v)", count, latest, err)
	}
}

func TestMessageStore_StatsMethod(t *testing.T) {
	s := NewMessageStore(t.TempDir())
	if _, err := s.Save(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	count, latest, err := s.Stats(context.Background())
	if err != nil || count != 1 || latest == nil {
		t.Fatalf("Stats = (%d, %v, %v); want one record", count, latest, err)
	}
}

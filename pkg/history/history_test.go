package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/clock"
)

func success(url string) *analyzer.AnalysisResponse {
	return &analyzer.AnalysisResponse{URL: url, Status: analyzer.StatusSuccess}
}

func TestStore_AddAndList(t *testing.T) {
	s := NewStore(10, nil)

	s.Add("sess-1", "https://a.example.com", success("https://a.example.com"))
	s.Add("sess-1", "https://b.example.com", success("https://b.example.com"))

	entries := s.List("sess-1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].URL != "https://b.example.com" {
		t.Errorf("expected newest entry first, got %q", entries[0].URL)
	}
}

func TestStore_RecordedAtUsesClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	s := NewStore(10, clk)

	s.Add("sess-1", "https://a.example.com", success("https://a.example.com"))
	clk.Advance(time.Hour)
	s.Add("sess-1", "https://b.example.com", success("https://b.example.com"))

	entries := s.List("sess-1")
	if !entries[1].RecordedAt.Equal(start) {
		t.Errorf("first entry RecordedAt = %v, want %v", entries[1].RecordedAt, start)
	}
	if !entries[0].RecordedAt.Equal(start.Add(time.Hour)) {
		t.Errorf("second entry RecordedAt = %v, want %v", entries[0].RecordedAt, start.Add(time.Hour))
	}
}

func TestStore_SessionsIsolated(t *testing.T) {
	s := NewStore(10, nil)

	s.Add("sess-1", "https://a.example.com", success("https://a.example.com"))

	if got := s.List("sess-2"); len(got) != 0 {
		t.Errorf("expected no entries for another session, got %d", len(got))
	}
}

func TestStore_Cap(t *testing.T) {
	s := NewStore(3, nil)

	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://site%d.example.com", i)
		s.Add("sess-1", url, success(url))
	}

	entries := s.List("sess-1")
	if len(entries) != 3 {
		t.Fatalf("expected cap of 3 entries, got %d", len(entries))
	}
	if entries[0].URL != "https://site4.example.com" {
		t.Errorf("expected the newest entry to survive, got %q", entries[0].URL)
	}
	if entries[2].URL != "https://site2.example.com" {
		t.Errorf("expected the oldest entries dropped, got %q", entries[2].URL)
	}
}

func TestStore_Get(t *testing.T) {
	s := NewStore(10, nil)

	id := s.Add("sess-1", "https://a.example.com", success("https://a.example.com"))

	entry, ok := s.Get("sess-1", id)
	if !ok {
		t.Fatal("expected to find the entry")
	}
	if entry.URL != "https://a.example.com" {
		t.Errorf("entry URL = %q", entry.URL)
	}

	if _, ok := s.Get("sess-2", id); ok {
		t.Error("entry IDs must not resolve across sessions")
	}
	if _, ok := s.Get("sess-1", "unknown"); ok {
		t.Error("unknown IDs must not resolve")
	}
}

func TestStore_Transfer(t *testing.T) {
	s := NewStore(10, nil)

	id := s.Add("old-token", "https://a.example.com", success("https://a.example.com"))
	s.Transfer("old-token", "new-token")

	if s.Len("old-token") != 0 {
		t.Error("expected the source session to be drained")
	}
	entries := s.List("new-token")
	if len(entries) != 1 || entries[0].URL != "https://a.example.com" {
		t.Fatalf("expected the entry under the new token, got %v", entries)
	}
	if _, ok := s.Get("new-token", id); !ok {
		t.Error("entry IDs must survive the transfer")
	}
}

func TestStore_TransferKeepsCap(t *testing.T) {
	s := NewStore(3, nil)

	for i := 0; i < 3; i++ {
		url := fmt.Sprintf("https://old%d.example.com", i)
		s.Add("old-token", url, success(url))
	}
	s.Add("new-token", "https://new.example.com", success("https://new.example.com"))

	s.Transfer("old-token", "new-token")

	if got := s.Len("new-token"); got != 3 {
		t.Errorf("expected the merged history to respect the cap, got %d", got)
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(10, nil)

	s.Add("sess-1", "https://a.example.com", success("https://a.example.com"))
	s.Clear("sess-1")

	if s.Len("sess-1") != 0 {
		t.Error("expected no entries after clear")
	}
}

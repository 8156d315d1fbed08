package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/crawlstats/internal/config"
	"github.com/samvad-hq/crawlstats/pkg/publishers"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/samvad-hq/crawlstats/pkg/statistics/statisticstest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReporterPublishesInitialPass(t *testing.T) {
	backend := statisticstest.NewServer()
	defer backend.Close()
	backend.AddWebsite("w1", "Example")
	backend.AddTasks(statistics.Task{WebsiteID: "w1", Status: statistics.TaskCompleted, TotalLinks: 7})

	var (
		mu     sync.Mutex
		events []publishers.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer sink.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:        backend.URL,
		APITimeout:        2 * time.Second,
		WebsitesFile:      writeFile(t, dir, "websites.yaml", "websites:\n  - id: w1\n    name: Example\n"),
		PublishersFile:    writeFile(t, dir, "publishers.yaml", "publishers:\n  - id: sink\n    type: http\n    http:\n      url: "+sink.URL+"\n"),
		ReportInterval:    time.Hour,
		ReportConcurrency: 2,
		StorageType:       "bbolt",
		BBoltPath:         filepath.Join(dir, "snapshots.db"),
		StorageTTL:        time.Hour,
	}

	rep, err := NewReporter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewReporter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rep.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(events)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for events, got %d", n)
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	var sawWebsite bool
	for _, evt := range events {
		if evt.WebsiteID == "w1" {
			sawWebsite = true
			if evt.Summary.TotalLinksCrawled != 7 {
				t.Fatalf("unexpected summary %+v", evt.Summary)
			}
		}
	}
	if !sawWebsite {
		t.Fatalf("expected website event among %+v", events)
	}
}

func TestNewReporterRequiresPublishers(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:     "http://localhost",
		WebsitesFile:   writeFile(t, dir, "websites.yaml", "websites:\n  - id: w1\n"),
		PublishersFile: writeFile(t, dir, "publishers.yaml", "publishers:\n  - id: off\n    type: http\n    enabled: false\n    http:\n      url: http://localhost\n"),
	}
	if _, err := NewReporter(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when no publishers are enabled")
	}
}

package statistics

import (
	"testing"
	"time"
)

func TestSummarizeAveragesCompletedTasksOnly(t *testing.T) {
	tasks := []Task{
		{Status: TaskCompleted, TotalLinks: 10, NewLinks: 2, ValidRate: 0.5, PrecisionRate: 0.25},
		{Status: TaskCompleted, TotalLinks: 30, NewLinks: 1, ValidRate: 1.0 / 3.0, PrecisionRate: 1},
		{Status: TaskFailed, TotalLinks: 5},
		{Status: TaskRunning, TotalLinks: 1, ValidRate: 1, PrecisionRate: 1},
	}

	got, err := Summarize(tasks, "", "")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := Summary{
		TotalTasks:        4,
		CompletedTasks:    2,
		FailedTasks:       1,
		TotalLinksCrawled: 46,
		NewLinksFound:     3,
		AvgValidRate:      0.4167,
		AvgPrecisionRate:  0.625,
	}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got, err := Summarize(nil, "", "")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestSummarizeDateRange(t *testing.T) {
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		return ts
	}
	tasks := []Task{
		{Status: TaskCompleted, StartedAt: at("2024-01-01T00:00:00Z")},
		{Status: TaskCompleted, StartedAt: at("2024-01-15T08:00:00Z")},
		{Status: TaskCompleted, StartedAt: at("2024-01-31T00:00:00Z")},
		{Status: TaskCompleted, StartedAt: at("2024-01-31T00:00:01Z")},
		{Status: TaskPending},
	}

	got, err := Summarize(tasks, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.TotalTasks != 3 {
		t.Fatalf("expected 3 tasks in range, got %d", got.TotalTasks)
	}

	// One bound alone does not filter.
	got, err = Summarize(tasks, "2024-01-20", "")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.TotalTasks != 5 {
		t.Fatalf("expected unfiltered count 5, got %d", got.TotalTasks)
	}
}

func TestSummarizeRejectsBadDates(t *testing.T) {
	if _, err := Summarize(nil, "yesterday", "2024-01-31"); err == nil {
		t.Fatalf("expected error for invalid date_from")
	}
	if _, err := Summarize(nil, "2024-01-01", "31/01/2024"); err == nil {
		t.Fatalf("expected error for invalid date_to")
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, in := range []string{"2024-01-31", "2024-01-31T10:00:00", "2024-01-31T10:00:00.123456", "2024-01-31T10:00:00+05:30"} {
		if _, err := ParseDate(in); err != nil {
			t.Fatalf("ParseDate(%q): %v", in, err)
		}
	}
}

func TestQueryOmitsEmptyFields(t *testing.T) {
	var nilParams *GetAllStatisticsParams
	if q := nilParams.Query(); len(q) != 0 {
		t.Fatalf("nil params query = %v", q)
	}
	q := (&GetAllStatisticsParams{DateTo: "2024-02-01"}).Query()
	if len(q) != 1 || q[ParamDateTo] != "2024-02-01" {
		t.Fatalf("unexpected query %v", q)
	}
}

package statistics

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a crawl task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// Task is the per-crawl record a Summary is computed from.
type Task struct {
	WebsiteID     string
	Status        TaskStatus
	StartedAt     time.Time
	TotalLinks    int64
	NewLinks      int64
	ValidRate     float64
	PrecisionRate float64
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", s)
}

// Summarize aggregates tasks the way the backend does. The date range applies
// only when both bounds are set and is inclusive on StartedAt; tasks that never
// started fall outside any range. Rates are averaged over completed tasks and
// rounded to four decimals.
func Summarize(tasks []Task, from, to string) (Summary, error) {
	filter := from != "" && to != ""
	var lo, hi time.Time
	if filter {
		var err error
		if lo, err = ParseDate(from); err != nil {
			return Summary{}, fmt.Errorf("date_from: %w", err)
		}
		if hi, err = ParseDate(to); err != nil {
			return Summary{}, fmt.Errorf("date_to: %w", err)
		}
	}

	var (
		s                 Summary
		validSum, precSum float64
	)
	for _, t := range tasks {
		if filter && (t.StartedAt.IsZero() || t.StartedAt.Before(lo) || t.StartedAt.After(hi)) {
			continue
		}
		s.TotalTasks++
		s.TotalLinksCrawled += t.TotalLinks
		s.NewLinksFound += t.NewLinks
		switch t.Status {
		case TaskCompleted:
			s.CompletedTasks++
			validSum += t.ValidRate
			precSum += t.PrecisionRate
		case TaskFailed:
			s.FailedTasks++
		}
	}

	if s.CompletedTasks > 0 {
		s.AvgValidRate = round4(validSum / float64(s.CompletedTasks))
		s.AvgPrecisionRate = round4(precSum / float64(s.CompletedTasks))
	}
	return s, nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

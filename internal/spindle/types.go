package spindle

import (
	"sort"
	"strings"
	"time"
)

const spindleTimestampLayout = "2006-01-02 15:04:05"

// StatusResponse mirrors the subset of /api/status rewake shows.
type StatusResponse struct {
	Running  bool           `json:"running"`
	PID      int            `json:"pid"`
	Workflow WorkflowStatus `json:"workflow"`
}

// WorkflowStatus aggregates queue stats and the last workflow error.
type WorkflowStatus struct {
	Running    bool           `json:"running"`
	QueueStats map[string]int `json:"queueStats"`
	LastError  string         `json:"lastError"`
}

// QueueListResponse mirrors /api/queue.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItem describes a queue entry.
type QueueItem struct {
	ID           int64         `json:"id"`
	DiscTitle    string        `json:"discTitle"`
	Status       string        `json:"status"`
	Progress     QueueProgress `json:"progress"`
	ErrorMessage string        `json:"errorMessage"`
	NeedsReview  bool          `json:"needsReview"`
	UpdatedAt    string        `json:"updatedAt"`
}

// QueueProgress tracks stage progress for an item.
type QueueProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// StatusCount is the number of queue items sharing a status.
type StatusCount struct {
	Status string
	Count  int
}

// CountByStatus tallies items by lower-cased status, most frequent first.
func CountByStatus(items []QueueItem) []StatusCount {
	counts := make(map[string]int)
	for _, item := range items {
		status := strings.ToLower(strings.TrimSpace(item.Status))
		if status == "" {
			status = "unknown"
		}
		counts[status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (q QueueItem) ParsedUpdatedAt() time.Time {
	return parseTime(q.UpdatedAt)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(spindleTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

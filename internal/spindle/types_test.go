package spindle

import (
	"reflect"
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	rfc := "2025-12-13T10:11:12Z"
	if parseTime(rfc).IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	custom := "2025-12-13 10:11:12"
	got := parseTime(custom)
	if got.IsZero() {
		t.Fatalf("parseTime should parse spindle timestamp")
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 13 {
		t.Fatalf("parseTime = %v, want 2025-12-13", got)
	}
	if !parseTime("yesterday").IsZero() || !parseTime("").IsZero() {
		t.Fatalf("parseTime should return zero for unparseable input")
	}
	if (QueueItem{UpdatedAt: rfc}).ParsedUpdatedAt().IsZero() {
		t.Fatalf("ParsedUpdatedAt should parse RFC3339")
	}
}

func TestCountByStatus(t *testing.T) {
	items := []QueueItem{
		{Status: "encoding"},
		{Status: "Failed"},
		{Status: "failed"},
		{Status: ""},
		{Status: "completed"},
	}
	got := CountByStatus(items)
	want := []StatusCount{
		{Status: "failed", Count: 2},
		{Status: "completed", Count: 1},
		{Status: "encoding", Count: 1},
		{Status: "unknown", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountByStatus = %#v, want %#v", got, want)
	}
	if len(CountByStatus(nil)) != 0 {
		t.Fatalf("CountByStatus(nil) should be empty")
	}
}

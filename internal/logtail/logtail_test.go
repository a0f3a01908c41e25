package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "bear.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		line string
		want slog.Level
		ok   bool
	}{
		{`time=2026-10-18T10:00:00Z level=WARN msg="api error" code=1004`, slog.LevelWarn, true},
		{`time=2026-10-18T10:00:00Z level=DEBUG msg="api request"`, slog.LevelDebug, true},
		{`level=INFO+2 msg=x`, slog.LevelInfo + 2, true},
		{`level=LOUD msg=x`, 0, false},
		{`plain line`, 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelOf(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("LevelOf(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`level=DEBUG msg="api request"`,
		`level=INFO msg="sdk started"`,
		`level=WARN msg="api error"`,
		`  continuation`,
		`level=ERROR msg="error reaction failed"`,
	}
	got := Filter(lines, slog.LevelWarn)
	want := []string{lines[2], lines[3], lines[4]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
}

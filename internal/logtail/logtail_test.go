package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

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
		{"zero reads nothing", 0, nil},
		{"negative reads nothing", -1, nil},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantText  string
		wantLevel Level
		wantTime  bool
	}{
		{
			name:      "info with timestamp",
			line:      "shelf 2026/03/01 12:00:05 startup: 5 categories, 6 products",
			wantText:  "startup: 5 categories, 6 products",
			wantLevel: LevelInfo,
			wantTime:  true,
		},
		{
			name:      "fallback is a warning",
			line:      "shelf 2026/03/01 12:00:05 products: serving cached data",
			wantText:  "products: serving cached data",
			wantLevel: LevelWarn,
			wantTime:  true,
		},
		{
			name:      "failure is an error",
			line:      "shelf 2026/03/01 12:00:05 persist products: write failed",
			wantText:  "persist products: write failed",
			wantLevel: LevelError,
			wantTime:  true,
		},
		{
			name:      "no timestamp",
			line:      "panic: runtime error",
			wantText:  "panic: runtime error",
			wantLevel: LevelError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line, "shelf")
			if got.Text != tt.wantText || got.Level != tt.wantLevel {
				t.Fatalf("Parse = %+v, want text %q level %s", got, tt.wantText, tt.wantLevel)
			}
			if got.Time.IsZero() == tt.wantTime {
				t.Fatalf("Parse time = %v, want parsed=%v", got.Time, tt.wantTime)
			}
			if tt.wantTime {
				want := time.Date(2026, 3, 1, 12, 0, 5, 0, time.Local)
				if !got.Time.Equal(want) {
					t.Fatalf("Parse time = %v, want %v", got.Time, want)
				}
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	got := ParseLines([]string{"a", "b failed"}, "shelf")
	if len(got) != 2 || got[0].Level != LevelInfo || got[1].Level != LevelError {
		t.Fatalf("ParseLines = %+v", got)
	}
}

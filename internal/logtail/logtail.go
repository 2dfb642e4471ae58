package logtail

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open log")
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read log")
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity inferred from a log message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is one parsed line of the application log.
type Entry struct {
	Time  time.Time // zero when the line carries no standard timestamp
	Text  string
	Level Level
}

const stdTimestamp = "2006/01/02 15:04:05"

var (
	errorMarkers = []string{"failed", "error", "corrupt", "could not", "panic"}
	warnMarkers  = []string{"cached", "offline", "fallback", "unreachable", "retry"}
)

// Parse splits a line written by the standard logger with the given prefix
// into timestamp and message, and classifies its level. Lines that do not
// match the layout are kept whole as Text.
func Parse(line, prefix string) Entry {
	rest := strings.TrimPrefix(line, prefix)
	rest = strings.TrimLeft(rest, " ")

	entry := Entry{Text: rest}
	if len(rest) >= len(stdTimestamp) {
		if ts, err := time.ParseInLocation(stdTimestamp, rest[:len(stdTimestamp)], time.Local); err == nil {
			entry.Time = ts
			entry.Text = strings.TrimSpace(rest[len(stdTimestamp):])
		}
	}
	entry.Level = classify(entry.Text)
	return entry
}

// ParseLines parses every line with Parse.
func ParseLines(lines []string, prefix string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line, prefix))
	}
	return out
}

func classify(text string) Level {
	lower := strings.ToLower(text)
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			return LevelError
		}
	}
	for _, m := range warnMarkers {
		if strings.Contains(lower, m) {
			return LevelWarn
		}
	}
	return LevelInfo
}

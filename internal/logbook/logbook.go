package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Entry is one journal line. Field and Origin are empty for session-level
// entries and render as "-".
type Entry struct {
	Level   Level
	Field   string
	Origin  string
	Message string
}

func (e Entry) format(now time.Time) string {
	return fmt.Sprintf("%s %-5s %-16s %-6s %s\n",
		now.UTC().Format(time.RFC3339),
		string(e.Level),
		orDash(e.Field),
		orDash(e.Origin),
		strings.TrimSpace(e.Message),
	)
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}

// Logbook persists commit history to a text file, one column-aligned entry
// per line: time, level, field, origin, message.
type Logbook struct {
	path  string
	clock func() time.Time
	mu    sync.Mutex
}

// New creates the logbook file at path, so an unwritable location fails here
// rather than on the first commit.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("logbook: close %s: %w", path, err)
	}
	return &Logbook{path: path, clock: time.Now}, nil
}

// Record writes a single entry. Write failures are dropped; the journal is
// advisory.
func (l *Logbook) Record(e Entry) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(e.format(l.clock()))
}

// Tail returns up to maxLines of the most recent entries and the total
// number of entries in the file.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	total := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		total++
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}
	return lines, total
}

// Info records a session-level informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Record(Entry{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

// Error records a session-level error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Record(Entry{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

package service

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Origin identifies where a request came from, for audit entries.
type Origin struct {
	IP        string
	UserAgent string
}

// ActivityEntry is one line of the append-only activity log.
type ActivityEntry struct {
	Timestamp   string `json:"timestamp"`
	Action      string `json:"action"`
	Description string `json:"description"`
	OriginIP    string `json:"origin_ip"`
	UserAgent   string `json:"user_agent"`
}

// ActivityLogger appends JSON entries, one object per line. Writes are
// best-effort: failures are logged and swallowed, never surfaced to the
// operation that triggered them.
type ActivityLogger struct {
	path   string
	logger *log.Logger
	nowFn  func() time.Time

	mu sync.Mutex
}

func NewActivityLogger(path string, logger *log.Logger) *ActivityLogger {
	return &ActivityLogger{path: path, logger: logger, nowFn: time.Now}
}

// Record appends one entry. Missing parent directories are created on
// demand, matching the log file's lifecycle in the rest of the system.
func (l *ActivityLogger) Record(action, description string, origin Origin) {
	entry := ActivityEntry{
		Timestamp:   l.nowFn().Format("2006-01-02 15:04:05"),
		Action:      action,
		Description: description,
		OriginIP:    orUnknown(origin.IP),
		UserAgent:   orUnknown(origin.UserAgent),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("activity log: marshal entry: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			l.logger.Printf("activity log: create dir %q: %v", dir, err)
			return
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.logger.Printf("activity log: open %q: %v", l.path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Printf("activity log: write %q: %v", l.path, err)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

package service

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActivityLogger(t *testing.T) (*ActivityLogger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "activity.log")
	logger := NewActivityLogger(path, log.New(io.Discard, "", 0))
	logger.nowFn = func() time.Time {
		return time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	}
	return logger, path
}

func readEntries(t *testing.T, path string) []ActivityEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []ActivityEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry ActivityEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestActivityLogger_AppendsOneJSONObjectPerLine(t *testing.T) {
	logger, path := newTestActivityLogger(t)

	logger.Record("CREATE", `task "Report" created`, Origin{IP: "10.0.0.1", UserAgent: "curl/8.0"})
	logger.Record("DELETE", `task "Report" (status: pending) deleted`, Origin{IP: "10.0.0.1", UserAgent: "curl/8.0"})

	entries := readEntries(t, path)
	require.Len(t, entries, 2)

	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, `task "Report" created`, entries[0].Description)
	assert.Equal(t, "10.0.0.1", entries[0].OriginIP)
	assert.Equal(t, "curl/8.0", entries[0].UserAgent)
	assert.Equal(t, "2024-06-15 09:30:00", entries[0].Timestamp)
	assert.Equal(t, "DELETE", entries[1].Action)
}

func TestActivityLogger_UnknownOrigin(t *testing.T) {
	logger, path := newTestActivityLogger(t)
	logger.Record("UPDATE", "desc", Origin{})

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "unknown", entries[0].OriginIP)
	assert.Equal(t, "unknown", entries[0].UserAgent)
}

func TestActivityLogger_WriteFailureIsSwallowed(t *testing.T) {
	// Point the log at an unwritable path: Record must not panic or error.
	logger := NewActivityLogger(string([]byte{0}), log.New(io.Discard, "", 0))
	logger.Record("CREATE", "desc", Origin{})
}

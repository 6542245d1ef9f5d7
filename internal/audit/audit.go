package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/devforge/devforge/internal/utils"
)

// TimeFormat is the timestamp layout of every entry.
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. Entries carry secret names and
// counts only, never values.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local user performing the action.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Names   []string `json:"names,omitempty"`    // For set/remove/sync.
	Count   int      `json:"count,omitempty"`    // For inject/sync.
	Failed  []string `json:"failed,omitempty"`   // For sync.
	Target  string   `json:"target,omitempty"`   // For inject.
	Repo    string   `json:"repo,omitempty"`     // For sync.
	StoreID string   `json:"store_id,omitempty"` // For init.
}

// Log appends entries to the JSON Lines file at path. It is best effort:
// an unwritable log never fails the operation being recorded, so the
// error is returned only for the caller to report.
type Log struct {
	path string
	now  func() time.Time
}

// NewLog returns a log writing to path. An empty path disables logging.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// NewEntry returns an entry for op with the local user filled in.
func NewEntry(op string) Entry {
	return Entry{Operation: op, User: utils.GetUsername()}
}

// Append writes one entry, setting its timestamp if unset.
func (l *Log) Append(entry Entry) error {
	if l == nil || l.path == "" {
		return nil
	}

	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format(TimeFormat)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	// #nosec G306 -- the audit log holds names only and is meant to be shared.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadEntries reads all entries from the log.
// Returns an empty slice if the log doesn't exist.
func (l *Log) ReadEntries() ([]Entry, error) {
	if l == nil || l.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial writes from an interrupted append.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries
}

// Filter keeps entries matching op (when non-empty) and returns at most the
// last n of them (all when n <= 0).
func Filter(entries []Entry, op string, n int) []Entry {
	var out []Entry
	for _, e := range entries {
		if op == "" || e.Operation == op {
			out = append(out, e)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

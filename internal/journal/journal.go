// Package journal persists one record per invocation in a daily JSON file.
//
// The file holds a single JSON array and is rewritten in full on every
// append. There is no locking: two processes appending to the same file
// at the same moment can lose an entry.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
	"github.com/ziadkadry99/gpt-bridge/internal/reply"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Entry is one persisted invocation.
type Entry struct {
	Timestamp string        `json:"timestamp"`
	Input     string        `json:"input"`
	Output    reply.Payload `json:"output"`
}

// Journal appends entries to the log file for the current UTC day.
type Journal struct {
	dir    string
	prefix string
	file   string
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Journal from the log settings.
func New(cfg config.LogConfig, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		dir:    cfg.Dir,
		prefix: cfg.Prefix,
		file:   cfg.File,
		now:    time.Now,
		logger: logger,
	}
}

// Path returns the log file used for entries written at t.
func (j *Journal) Path(t time.Time) string {
	if j.file != "" {
		return filepath.Join(j.dir, j.file)
	}
	return filepath.Join(j.dir, fmt.Sprintf("%s_%s.json", j.prefix, t.UTC().Format("2006-01-02")))
}

// Append records input and output with the current timestamp.
func (j *Journal) Append(input string, output reply.Payload) error {
	now := j.now().UTC()
	path := j.Path(now)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	entries, err := j.read(path)
	if err != nil {
		return err
	}

	if output.Annotations == nil {
		output.Annotations = []reply.Annotation{}
	}
	entry, err := json.Marshal(Entry{
		Timestamp: now.Format(TimestampFormat),
		Input:     input,
		Output:    output,
	})
	if err != nil {
		return fmt.Errorf("marshalling log entry: %w", err)
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing log %s: %w", path, err)
	}
	return nil
}

// read loads the existing entries. Entries are kept as raw JSON so records
// written by other versions survive a rewrite untouched. Anything that is
// not a JSON array starts a fresh log.
func (j *Journal) read(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log %s: %w", path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		j.logger.Warn("Failed to parse existing log, starting fresh",
			zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	return entries, nil
}

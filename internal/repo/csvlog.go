// Package repo implements the data persistence layer for domain entities.
// This file provides CSVLog, the append-only flat-file table used by the
// credential store and the feedback/analytics logs.
//
// File layout:
//   - The first record is the header, written exactly once when the file is
//     missing or empty.
//   - Every Append writes one record; prior records are never rewritten.
//   - Fields are encoded with encoding/csv, so commas, quotes and newlines
//     inside a field are escaped.
//
// Concurrency: each CSVLog serializes its own appends and reads with a
// mutex. Two CSVLog values pointing at the same path do not coordinate, so
// the application builds exactly one per file.
package repo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// CSVLog is an append-only CSV table with a fixed header.
type CSVLog struct {
	path   string
	header []string
	mu     sync.Mutex
}

// NewCSVLog returns a log for path with the given header. The file is not
// touched until the first Append.
func NewCSVLog(path string, header ...string) *CSVLog {
	return &CSVLog{path: path, header: header}
}

// Path returns the file path backing the log.
func (l *CSVLog) Path() string { return l.path }

// Append writes one record, writing the header first if the file is new.
func (l *CSVLog) Append(record []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(record)
}

// Count returns the number of data records (header excluded) and whether
// the file exists at all.
func (l *CSVLog) Count() (n int, exists bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exists, err = l.scanLocked(func([]string) bool {
		n++
		return true
	})
	return n, exists, err
}

// Scan calls fn for every data record in file order until fn returns
// false. Records whose field count differs from the header are skipped and
// logged. A missing file yields exists=false and no error.
func (l *CSVLog) Scan(fn func(record []string) bool) (exists bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scanLocked(fn)
}

func (l *CSVLog) appendLocked(record []string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", l.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(l.header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", l.path, err)
	}
	return nil
}

func (l *CSVLog) scanLocked(fn func([]string) bool) (bool, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		line++
		var perr *csv.ParseError
		switch {
		case errors.As(err, &perr):
			log.Warn().Str("file", l.path).Int("record", line).Err(err).Msg("skipping unreadable csv record")
			continue
		case err != nil:
			return true, fmt.Errorf("read %s: %w", l.path, err)
		case line == 1:
			continue
		}
		if len(rec) != len(l.header) {
			log.Warn().Str("file", l.path).Int("record", line).Int("fields", len(rec)).Msg("skipping malformed csv record")
			continue
		}
		if !fn(rec) {
			return true, nil
		}
	}
}

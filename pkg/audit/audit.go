// Package audit records gate decisions. Appends are best-effort: a
// failed write is reported on the diagnostic stream and otherwise
// ignored, so auditing can never change or delay a Decision.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/danjamk/toolgate/pkg/api"
)

// Record is one audit entry: what was asked, and what the gate said.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Verdict   string    `json:"verdict"`
	Reason    string    `json:"reason,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// NewRecord stamps a record with an ID and the current time.
func NewRecord(kind, content, verdict, reason string, warnings []string) Record {
	return Record{
		ID:        "rec-" + uuid.New().String()[:8],
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Content:   content,
		Verdict:   verdict,
		Reason:    reason,
		Warnings:  warnings,
	}
}

// Logger appends records to a JSONL file and, when a history store is
// attached, mirrors them there.
type Logger struct {
	path  string
	store *Store
	diag  io.Writer
}

// NewLogger builds a Logger from the audit config. A disabled config
// yields a Logger that drops everything. The history store is opened
// lazily on first append so the common block/approve path never pays
// for it when history is unset.
func NewLogger(cfg *api.AuditConfig, diag io.Writer) *Logger {
	if diag == nil {
		diag = io.Discard
	}
	if cfg == nil || cfg.Disabled {
		return &Logger{diag: diag}
	}
	l := &Logger{path: cfg.LogPath, diag: diag}
	if cfg.HistoryPath != "" {
		store, err := OpenStore(cfg.HistoryPath)
		if err != nil {
			fmt.Fprintf(diag, "toolgate: audit history unavailable: %v\n", err)
		} else {
			l.store = store
		}
	}
	return l
}

// Append writes one record. Each write is a single O_APPEND write of a
// complete line, so concurrent invocations interleave whole records.
func (l *Logger) Append(rec Record) {
	if l.path != "" {
		if err := l.appendLine(rec); err != nil {
			fmt.Fprintf(l.diag, "toolgate: audit append failed: %v\n", err)
		}
	}
	if l.store != nil {
		if err := l.store.Append(rec); err != nil {
			fmt.Fprintf(l.diag, "toolgate: audit history append failed: %v\n", err)
		}
	}
}

// Close releases the history store, if any.
func (l *Logger) Close() {
	if l.store != nil {
		_ = l.store.Close()
	}
}

func (l *Logger) appendLine(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}

package audit

import (
	"database/sql"
	"strings"
	"time"

	"github.com/danjamk/toolgate/internal/errx"
	"github.com/danjamk/toolgate/pkg/storedb"
)

const storeModule = "audit"

// Store is the queryable decision history behind "toolgate log".
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the history database at path.
func OpenStore(path string) (*Store, error) {
	db, err := storedb.Open(storedb.OpenOptions{
		Path:       path,
		Module:     storeModule,
		Migrations: storeMigrations(),
	})
	if err != nil {
		return nil, errx.Wrap(ErrOpenStore, err)
	}
	return &Store{db: db}, nil
}

func storeMigrations() []storedb.Migration {
	return []storedb.Migration{
		{
			Version: 1,
			Name:    "create_records",
			SQL: `
CREATE TABLE IF NOT EXISTS records (
  id TEXT PRIMARY KEY,
  recorded_at TEXT NOT NULL,
  kind TEXT NOT NULL,
  content TEXT NOT NULL,
  verdict TEXT NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  warnings TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_recorded_at ON records(recorded_at);
CREATE INDEX IF NOT EXISTS idx_records_verdict ON records(verdict);
`,
		},
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts one record.
func (s *Store) Append(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO records(id, recorded_at, kind, content, verdict, reason, warnings) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.Kind,
		rec.Content,
		rec.Verdict,
		rec.Reason,
		strings.Join(rec.Warnings, "; "),
	)
	if err != nil {
		return errx.Wrap(ErrAppendRecord, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, recorded_at, kind, content, verdict, reason, warnings FROM records ORDER BY recorded_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errx.Wrap(ErrListRecords, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var recordedAt, warnings string
		if err := rows.Scan(&rec.ID, &recordedAt, &rec.Kind, &rec.Content, &rec.Verdict, &rec.Reason, &warnings); err != nil {
			return nil, errx.Wrap(ErrListRecords, err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			rec.Timestamp = ts
		}
		if warnings != "" {
			rec.Warnings = strings.Split(warnings, "; ")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Wrap(ErrListRecords, err)
	}
	return records, nil
}

// Prune deletes records older than keep and reports how many went.
func (s *Store) Prune(keep time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-keep).Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM records WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, errx.Wrap(ErrPruneRecords, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(ErrPruneRecords, err)
	}
	return int(n), nil
}

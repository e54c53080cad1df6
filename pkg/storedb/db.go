// Package storedb opens per-module SQLite databases with versioned
// migrations. Initialization is guarded by a file lock so concurrent
// gate invocations racing to create the same database stay safe.
package storedb

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/danjamk/toolgate/internal/errx"
	_ "modernc.org/sqlite"
)

type Migration struct {
	Version int
	Name    string
	SQL     string
}

type OpenOptions struct {
	Path       string
	Module     string
	Migrations []Migration
}

func Open(opts OpenOptions) (*sql.DB, error) {
	if opts.Path == "" {
		return nil, ErrDBPathRequired
	}
	if opts.Module == "" {
		return nil, ErrModuleRequired
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, errx.Wrap(ErrOpenDB, err)
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, errx.Wrap(ErrOpenDB, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := withInitLock(opts.Path, func() error {
		if err := configure(db); err != nil {
			return err
		}
		return migrate(db, opts.Module, opts.Migrations)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 15000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errx.With(ErrConfigureDB, ": %s: %w", pragma, err)
		}
	}
	return nil
}

func migrate(db *sql.DB, module string, migrations []Migration) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  module TEXT NOT NULL,
  version INTEGER NOT NULL,
  name TEXT NOT NULL,
  applied_at TEXT NOT NULL,
  PRIMARY KEY (module, version)
)`); err != nil {
		return errx.Wrap(ErrCreateMigrationTbl, err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	seen := make(map[int]bool, len(migrations))
	for _, m := range migrations {
		if seen[m.Version] {
			return errx.With(ErrDuplicateMigration, ": module=%s version=%d", module, m.Version)
		}
		seen[m.Version] = true
	}

	applied, err := appliedVersions(db, module)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return errx.With(ErrApplyMigration, ": begin %s/%d %s: %w", module, m.Version, m.Name, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return errx.With(ErrApplyMigration, ": %s/%d %s: %w", module, m.Version, m.Name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations(module, version, name, applied_at) VALUES (?, ?, ?, ?)`,
			module,
			m.Version,
			m.Name,
			time.Now().UTC().Format(time.RFC3339Nano),
		); err != nil {
			_ = tx.Rollback()
			return errx.With(ErrRecordMigration, ": %s/%d %s: %w", module, m.Version, m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return errx.With(ErrCommitMigration, ": %s/%d %s: %w", module, m.Version, m.Name, err)
		}
	}

	return nil
}

func appliedVersions(db *sql.DB, module string) (map[int]bool, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations WHERE module = ?`, module)
	if err != nil {
		return nil, errx.Wrap(ErrReadMigrations, err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, errx.Wrap(ErrReadMigrations, err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Wrap(ErrReadMigrations, err)
	}
	return applied, nil
}

func withInitLock(dbPath string, fn func() error) error {
	lockPath := dbPath + ".init.lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errx.Wrap(ErrOpenInitLock, err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return errx.Wrap(ErrAcquireInitLock, err)
	}

	fnErr := fn()

	if unlockErr := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN); unlockErr != nil {
		unlockWrapped := errx.Wrap(ErrReleaseInitLock, unlockErr)
		if fnErr != nil {
			return errors.Join(fnErr, unlockWrapped)
		}
		return unlockWrapped
	}

	return fnErr
}

package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/okian/architect/pkg/logger"
	"github.com/okian/architect/pkg/metrics"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 2

var schema = []string{
	`CREATE TABLE IF NOT EXISTS teachers (
		id  INTEGER PRIMARY KEY AUTOINCREMENT,
		doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS observations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		teacher_id INTEGER NOT NULL,
		date       TEXT NOT NULL DEFAULT '',
		doc        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS observations_teacher_id ON observations (teacher_id)`,
	`CREATE INDEX IF NOT EXISTS observations_date ON observations (date)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		teacher_id INTEGER NOT NULL,
		date       TEXT NOT NULL DEFAULT '',
		doc        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS meetings_teacher_id ON meetings (teacher_id)`,
}

const (
	teachersTable     = "teachers"
	observationsTable = "observations"
	meetingsTable     = "meetings"
)

// row is the stored shape of every record: identity plus a JSON document.
type row struct {
	ID  int64  `db:"id"`
	Doc string `db:"doc"`
}

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db          *sqlx.DB
	log         logger.Logger
	busyTimeout time.Duration
	closed      atomic.Bool
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// Use MemoryPath for a throwaway store.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		log:         logger.Nop(),
		busyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sqlx.Open("sqlite", s.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageUnavailable, path, err)
	}
	// SQLite has a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStorageUnavailable, path, err)
	}
	s.db = db

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.refreshCounts(ctx)
	s.log.Info(ctx, "store opened", logger.String("path", path))
	return s, nil
}

func (s *SQLiteStore) dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", s.busyTimeout.Milliseconds()))
	if path == MemoryPath {
		return "file::memory:?" + q.Encode()
	}
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var version int
	if err := s.db.GetContext(ctx, &version, `PRAGMA user_version`); err != nil {
		return fmt.Errorf("%w: read schema version: %w", ErrStorageUnavailable, err)
	}
	if version > schemaVersion {
		return fmt.Errorf("%w: schema version %d is newer than %d", ErrStorageUnavailable, version, schemaVersion)
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: apply schema: %w", ErrStorageUnavailable, err)
		}
	}
	if version < schemaVersion {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
			return fmt.Errorf("%w: write schema version: %w", ErrStorageUnavailable, err)
		}
	}
	return nil
}

// Close releases the database. Later calls fail with ErrStorageUnavailable.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// begin fails once the store has been closed.
func (s *SQLiteStore) begin() error {
	if s.closed.Load() {
		return fmt.Errorf("%w: store is closed", ErrStorageUnavailable)
	}
	return nil
}

func (s *SQLiteStore) track(ctx context.Context, collection, op string, start time.Time, err *error) {
	kind := errorKind(*err)
	metrics.RecordStoreOperation(collection, op, kind, float64(time.Since(start).Microseconds())/1000)
	switch kind {
	case "ok", "not_found":
	default:
		metrics.RecordStoreFailure(kind)
		metrics.RecordErrorByComponent("store", kind)
		s.log.Error(ctx, "store operation failed",
			logger.String("collection", collection),
			logger.String("op", op),
			logger.Error(*err))
	}
}

func (s *SQLiteStore) refreshCounts(ctx context.Context) {
	for _, table := range []string{teachersTable, observationsTable, meetingsTable} {
		var n int
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table); err != nil {
			s.log.Warn(ctx, "count records", logger.String("collection", table), logger.Error(err))
			continue
		}
		metrics.UpdateStoreRecords(table, n)
	}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY:
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
	}
	return err
}

// Low-level document helpers shared by the three collections. They take an
// sqlx.ExtContext so they run the same on the database and inside a transaction.

func insertDoc(ctx context.Context, q sqlx.ExtContext, table string, id int64, doc any, teacherID int64, date string) (int64, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode %s record: %w", table, err)
	}

	var (
		res  sql.Result
		cols = "doc"
		args = []any{string(b)}
		mark = "?"
	)
	if table != teachersTable {
		cols += ", teacher_id, date"
		args = append(args, teacherID, date)
		mark += ", ?, ?"
	}
	if id != 0 {
		cols = "id, " + cols
		args = append([]any{id}, args...)
		mark = "?, " + mark
	}
	res, err = q.ExecContext(ctx, `INSERT INTO `+table+` (`+cols+`) VALUES (`+mark+`)`, args...)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

func updateDoc(ctx context.Context, q sqlx.ExtContext, table string, id int64, doc any, teacherID int64, date string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}

	var res sql.Result
	if table == teachersTable {
		res, err = q.ExecContext(ctx, `UPDATE teachers SET doc = ? WHERE id = ?`, string(b), id)
	} else {
		res, err = q.ExecContext(ctx, `UPDATE `+table+` SET doc = ?, teacher_id = ?, date = ? WHERE id = ?`,
			string(b), teacherID, date, id)
	}
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, table, id)
	}
	return nil
}

func deleteDoc(ctx context.Context, q sqlx.ExtContext, table string, id int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	return translate(err)
}

func getDoc[T any](ctx context.Context, q sqlx.QueryerContext, table string, id int64, setID func(*T, int64)) (T, error) {
	var (
		r   row
		out T
	)
	if err := sqlx.GetContext(ctx, q, &r, `SELECT id, doc FROM `+table+` WHERE id = ?`, id); err != nil {
		err = translate(err)
		if errors.Is(err, ErrNotFound) {
			return out, fmt.Errorf("%w: %s %d", ErrNotFound, table, id)
		}
		return out, err
	}
	return decode(r, setID)
}

func selectDocs[T any](ctx context.Context, q sqlx.QueryerContext, table, where string, setID func(*T, int64), args ...any) ([]T, error) {
	query := `SELECT id, doc FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id`

	var rows []row
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, translate(err)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r, setID)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decode[T any](r row, setID func(*T, int64)) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(r.Doc), &v); err != nil {
		return v, fmt.Errorf("decode record %d: %w", r.ID, err)
	}
	setID(&v, r.ID)
	return v, nil
}

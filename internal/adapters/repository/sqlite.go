package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// SQLiteTable is a Table stored in one SQLite table with a TEXT column per
// header entry. Rows come back in rowid order.
type SQLiteTable struct {
	db     *sql.DB
	name   string
	header []string

	insertSQL string
	selectSQL string
}

// OpenSQLite opens the database file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteTable creates the table if needed and binds it.
func NewSQLiteTable(ctx context.Context, db *sql.DB, name string, header []string) (*SQLiteTable, error) {
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h)
		marks[i] = "?"
	}
	table := quoteIdent(name)

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT NOT NULL DEFAULT '')",
		table, strings.Join(cols, " TEXT NOT NULL DEFAULT '', "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}

	return &SQLiteTable{
		db:        db,
		name:      name,
		header:    append([]string(nil), header...),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(marks, ", ")),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), table),
	}, nil
}

// Append inserts row, padding or truncating it to the header width.
func (s *SQLiteTable) Append(ctx context.Context, row []string) error {
	args := make([]interface{}, len(s.header))
	for i := range args {
		if i < len(row) {
			args[i] = row[i]
		} else {
			args[i] = ""
		}
	}
	if _, err := s.db.ExecContext(ctx, s.insertSQL, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", s.name, err)
	}
	return nil
}

// Rows returns the header followed by every stored row.
func (s *SQLiteTable) Rows(ctx context.Context) ([][]string, error) {
	rs, err := s.db.QueryContext(ctx, s.selectSQL)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.name, err)
	}
	defer func() { _ = rs.Close() }()

	var rows [][]string
	for rs.Next() {
		row := make([]string, len(s.header))
		dest := make([]interface{}, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.name, err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.name, err)
	}
	return withHeader(s.header, rows), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

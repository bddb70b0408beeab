package repository

import (
	"context"
	"sync"
)

// MemoryTable is an in-process Table. It is used by tests and the smoke
// runner; rows do not survive a restart.
type MemoryTable struct {
	mu     sync.RWMutex
	header []string
	rows   [][]string
}

// NewMemoryTable creates an empty table that reports header once it holds data.
func NewMemoryTable(header []string) *MemoryTable {
	return &MemoryTable{header: append([]string(nil), header...)}
}

// Append stores a copy of row.
func (m *MemoryTable) Append(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.rows = append(m.rows, append([]string(nil), row...))
	m.mu.Unlock()
	return nil
}

// Rows returns the header followed by copies of the stored rows.
func (m *MemoryTable) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return withHeader(m.header, m.rows), nil
}

// Len returns the number of data rows.
func (m *MemoryTable) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// withHeader copies rows behind header. No rows means an empty result.
func withHeader(header []string, rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]string, 0, len(rows)+1)
	out = append(out, append([]string(nil), header...))
	for _, r := range rows {
		out = append(out, append([]string(nil), r...))
	}
	return out
}

package repository

import (
	"context"
	"fmt"
	"sort"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// tablesRoot is the database path under which every table lives.
const tablesRoot = "tables"

// FirebaseTable is a Table stored as pushed children of one Realtime
// Database path. Push keys sort in creation order.
type FirebaseTable struct {
	ref    *db.Ref
	header []string
}

// NewFirebaseClient connects to the Realtime Database at databaseURL.
func NewFirebaseClient(ctx context.Context, databaseURL string, opts ...option.ClientOption) (*db.Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase database: %w", err)
	}
	return client, nil
}

// NewFirebaseTable binds a table named name, reporting header on reads.
func NewFirebaseTable(client *db.Client, name string, header []string) *FirebaseTable {
	return &FirebaseTable{
		ref:    client.NewRef(tablesRoot).Child(name),
		header: append([]string(nil), header...),
	}
}

// Append pushes row as a new child.
func (f *FirebaseTable) Append(ctx context.Context, row []string) error {
	_, err := f.ref.Push(ctx, row)
	return err
}

// Rows reads all children ordered by push key.
func (f *FirebaseTable) Rows(ctx context.Context) ([][]string, error) {
	var children map[string][]string
	if err := f.ref.Get(ctx, &children); err != nil {
		return nil, err
	}
	return orderedRows(f.header, children), nil
}

// orderedRows sorts children by key and puts header in front.
func orderedRows(header []string, children map[string][]string) [][]string {
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, children[k])
	}
	return withHeader(header, rows)
}

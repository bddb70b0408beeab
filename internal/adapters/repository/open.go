package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/oducru/runclub/internal/config"
	"github.com/oducru/runclub/internal/domain/record"
	"github.com/oducru/runclub/pkg/logger"
	"google.golang.org/api/option"
)

// Table names used by the firebase and sqlite backends.
const (
	EventsTable = "events"
	RSVPTable   = "rsvps"
)

// Open builds the Store for the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts = append([]Option{WithLogger(log)}, opts...)

	switch cfg.StorageBackend {
	case config.BackendSheets:
		return openSheets(ctx, cfg, log, opts)
	case config.BackendFirebase:
		return openFirebase(ctx, cfg, log, opts)
	case config.BackendSQLite:
		return openSQLite(ctx, cfg, log, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}
}

func openSheets(ctx context.Context, cfg *config.Config, log logger.Logger, opts []Option) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet_id", ErrMissingSetting)
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, fmt.Errorf("%w: google_service_account", ErrMissingSetting)
	}
	svc, err := NewSheetsService(ctx, creds)
	if err != nil {
		return nil, err
	}
	events := Instrument(NewSheetsTable(svc, cfg.SpreadsheetID, cfg.EventsRange), "sheets", log)
	rsvps := Instrument(NewSheetsTable(svc, cfg.SpreadsheetID, cfg.RSVPRange), "sheets", log)
	return NewStore(events, rsvps, opts...), nil
}

func openFirebase(ctx context.Context, cfg *config.Config, log logger.Logger, opts []Option) (*Store, error) {
	if cfg.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("%w: firebase_database_url", ErrMissingSetting)
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	var clientOpts []option.ClientOption
	if len(creds) > 0 {
		clientOpts = append(clientOpts, option.WithCredentialsJSON(creds))
	}
	client, err := NewFirebaseClient(ctx, cfg.FirebaseDatabaseURL, clientOpts...)
	if err != nil {
		return nil, err
	}
	events := Instrument(NewFirebaseTable(client, EventsTable, record.EventHeader), "firebase", log)
	rsvps := Instrument(NewFirebaseTable(client, RSVPTable, record.RSVPHeader), "firebase", log)
	return NewStore(events, rsvps, opts...), nil
}

func openSQLite(ctx context.Context, cfg *config.Config, log logger.Logger, opts []Option) (*Store, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("%w: sqlite_path", ErrMissingSetting)
	}
	db, err := OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	events, err := NewSQLiteTable(ctx, db, EventsTable, record.EventHeader)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rsvps, err := NewSQLiteTable(ctx, db, RSVPTable, record.RSVPHeader)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	opts = append(opts, WithCloser(db.Close))
	return NewStore(Instrument(events, "sqlite", log), Instrument(rsvps, "sqlite", log), opts...), nil
}

// credentials returns the inline service account JSON, or the contents of
// the configured file when no inline value is set.
func credentials(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleServiceAccount != "" {
		return []byte(cfg.GoogleServiceAccount), nil
	}
	if cfg.GoogleServiceAccountFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(cfg.GoogleServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account %s: %w", cfg.GoogleServiceAccountFile, err)
	}
	return b, nil
}

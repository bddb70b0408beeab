package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/oducru/runclub/internal/adapters/repository"
	"github.com/oducru/runclub/internal/config"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestOpen(t *testing.T) {
	convey.Convey("Given configuration for each backend", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When the backend is unknown", func() {
			cfg.StorageBackend = "postgres"
			_, err := repository.Open(ctx, cfg, logger.Nop())

			convey.Convey("Then Open fails", func() {
				convey.So(errors.Is(err, repository.ErrUnknownBackend), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When sheets has no spreadsheet id", func() {
			cfg.StorageBackend = config.BackendSheets
			_, err := repository.Open(ctx, cfg, logger.Nop())

			convey.Convey("Then the missing setting is named", func() {
				convey.So(errors.Is(err, repository.ErrMissingSetting), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "spreadsheet_id")
			})
		})

		convey.Convey("When sheets has no credentials", func() {
			cfg.StorageBackend = config.BackendSheets
			cfg.SpreadsheetID = "sheet-1"
			_, err := repository.Open(ctx, cfg, logger.Nop())

			convey.Convey("Then the credentials are reported missing", func() {
				convey.So(errors.Is(err, repository.ErrMissingSetting), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the credentials file does not exist", func() {
			cfg.StorageBackend = config.BackendSheets
			cfg.SpreadsheetID = "sheet-1"
			cfg.GoogleServiceAccountFile = "/non/existent/sa.json"
			_, err := repository.Open(ctx, cfg, logger.Nop())

			convey.Convey("Then Open fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When firebase has no database url", func() {
			cfg.StorageBackend = config.BackendFirebase
			_, err := repository.Open(ctx, cfg, logger.Nop())

			convey.Convey("Then the missing setting is named", func() {
				convey.So(errors.Is(err, repository.ErrMissingSetting), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the backend is sqlite", func() {
			cfg.StorageBackend = config.BackendSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "club.db")
			store, err := repository.Open(ctx, cfg, nil)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = store.Close() }()

			convey.Convey("Then events round-trip through the file", func() {
				_, err := store.SaveEvent(ctx, model.Event{ID: "evt_a", Title: "Run"})
				convey.So(err, convey.ShouldBeNil)
				found, err := store.FindEvent(ctx, "evt_a")
				convey.So(err, convey.ShouldBeNil)
				convey.So(found.Title, convey.ShouldEqual, "Run")
				convey.So(found.Distance, convey.ShouldEqual, model.DefaultDistance)
			})
		})
	})
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/phlox/storefront/internal/adapter/storage"
	"github.com/phlox/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

const storagePathFlag = "storage-path"

func main() {
	storagePath := getFlagsValues()
	validateFlags(storagePath)
	makeMigrations(storagePath)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (storagePath string) {
	flagValue := pflag.StringP(storagePathFlag, "s", "", "")
	pflag.Parse()
	return *flagValue
}

func validateFlags(storagePath string) {
	if storagePath == "" {
		slog.Error(
			"too few args",
			"err", fmt.Errorf("--%s flag: required", storagePathFlag),
		)
		fallDown()
	}
}

func makeMigrations(storagePath string) {
	ctx, cancel := sigctx.NotifyContext()
	defer cancel()

	db, err := storage.NewSQLDB(ctx, storagePath)
	if err != nil {
		slog.Error("failed to open storage", "err", err)
		fallDown()
	}
	defer db.Close()

	m, err := storage.NewMigrator(db.DB)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied\n")
}

func fallDown() {
	os.Exit(2)
}

package migrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/meschbach/tradeingest/migrations"
)

const sourceName = "trade"

// DriverURL rewrites a postgres:// or postgresql:// URL for the golang-migrate pgx v5 driver.
func DriverURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, found := strings.CutPrefix(databaseURL, scheme); found {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// ResetExtent removes the trade extent along with any stored trades, then imports the schema again.
func ResetExtent(ctx context.Context, config Config) (problem error) {
	out := config.Output
	if out == nil {
		out = io.Discard
	}

	migrationsFS, err := iofs.New(migrations.Trade, sourceName)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance(sourceName, migrationsFS, DriverURL(config.DatabaseURL))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		sourceError, destinationError := migrator.Close()
		problem = errors.Join(problem, sourceError, destinationError)
	}()
	migrator.Log = &migratorLogger{out: out, verbose: config.Verbose}

	if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("delete extent: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("import schema: %w", err)
	}
	fmt.Fprintln(out, "Trade extent reset.")
	return nil
}

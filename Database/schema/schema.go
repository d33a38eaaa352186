package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"
)

// table holds the DDL of one table for each supported dialect.
type table struct {
	name     string
	postgres []string
	sqlite   []string
}

func (t table) statements(driver string) []string {
	if driver == "sqlite" {
		return t.sqlite
	}
	return t.postgres
}

func createTable(ctx context.Context, db *sql.DB, driver string, t table) error {
	for _, stmt := range t.statements(driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			dbErrStr := err.Error()
			// Ignore errors about existing indexes or tables
			if !strings.Contains(dbErrStr, "already exists") {
				utils.Errorf("Failed to create %s table: %v", t.name, err)
				return fmt.Errorf("failed to create %s table: %w", t.name, err)
			}
		}
	}
	utils.Debug(fmt.Sprintf("%s table ready", t.name))
	return nil
}

// Migrate creates every table in dependency order. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	tables := []table{
		streamersTable,
		gamesTable,
		streamerGamesTable,
		scheduledStreamsTable,
	}

	for _, t := range tables {
		if err := createTable(ctx, db, driver, t); err != nil {
			return err
		}
	}
	utils.Info("Database schema is up to date")
	return nil
}

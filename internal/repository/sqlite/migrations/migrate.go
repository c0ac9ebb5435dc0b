package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"tasks-api/internal/logging"
)

//go:embed *.sql
var migrationsFS embed.FS

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// RunMigrations applies every pending migration in version order
func RunMigrations(db *sql.DB) error {
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		logging.Debugf("applying migration %d (%s)\n", migration.Version, migration.Name)
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// RollbackTo reverts applied migrations newer than target, newest first.
func RollbackTo(db *sql.DB, target int) error {
	migrations, err := LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if migration.Version <= target || !applied[migration.Version] {
			continue
		}
		logging.Debugf("reverting migration %d (%s)\n", migration.Version, migration.Name)
		if err := revertMigration(db, migration); err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createMigrationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`
	_, err := db.Exec(query)
	return err
}

// LoadMigrations reads the embedded up/down pairs sorted by version.
func LoadMigrations() ([]Migration, error) {
	entries, err := migrationsFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		upFile := entry.Name()
		if !strings.HasSuffix(upFile, ".up.sql") {
			continue
		}
		version, name := parseFilename(upFile)
		if version == 0 {
			continue
		}

		migration, err := readPair(upFile, strings.TrimSuffix(upFile, ".up.sql")+".down.sql")
		if err != nil {
			return nil, err
		}
		migration.Version, migration.Name = version, name
		migrations = append(migrations, migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// readPair loads the scripts of one migration; both halves must exist
func readPair(upFile, downFile string) (Migration, error) {
	up, err := migrationsFS.ReadFile(upFile)
	if err != nil {
		return Migration{}, err
	}
	down, err := migrationsFS.ReadFile(downFile)
	if err != nil {
		return Migration{}, fmt.Errorf("migration %s has no down script: %w", upFile, err)
	}
	return Migration{Up: string(up), Down: string(down)}, nil
}

// AppliedVersions returns the set of migration versions recorded in the database.
func AppliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, migration Migration) error {
	return runStep(db, migration.Up,
		"INSERT INTO schema_migrations (version) VALUES (?)", migration.Version)
}

func revertMigration(db *sql.DB, migration Migration) error {
	return runStep(db, migration.Down,
		"DELETE FROM schema_migrations WHERE version = ?", migration.Version)
}

// runStep executes script and its schema_migrations bookkeeping atomically
func runStep(db *sql.DB, script, bookkeeping string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec(bookkeeping, version); err != nil {
		return err
	}
	return tx.Commit()
}

// parseFilename splits "000002_index_tasks_listing.up.sql" into 2 and "index_tasks_listing".
func parseFilename(filename string) (int, string) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, ""
	}
	name := strings.TrimSuffix(filename, ".up.sql")
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	return version, name
}

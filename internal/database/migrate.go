package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"learn-assist/internal/database/migrations"
	"learn-assist/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// RunMigrations applies every pending up migration for driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	switch driver {
	case DriverSQLite:
		m, err := newSQLiteMigrate(db)
		if err != nil {
			return err
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply sqlite migrations: %w", err)
		}
	case DriverOracle:
		if err := oracleUp(ctx, db); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	logger.Get().Info("Migrations completed successfully", zap.String("driver", driver))
	return nil
}

// RollbackMigrations reverts the given number of migrations, or all of them when steps <= 0.
func RollbackMigrations(ctx context.Context, db *sql.DB, driver string, steps int) error {
	switch driver {
	case DriverSQLite:
		m, err := newSQLiteMigrate(db)
		if err != nil {
			return err
		}
		if steps <= 0 {
			err = m.Down()
		} else {
			err = m.Steps(-steps)
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not roll back sqlite migrations: %w", err)
		}
		return nil
	case DriverOracle:
		return oracleDown(ctx, db, steps)
	}
	return fmt.Errorf("unsupported database driver %q", driver)
}

// newSQLiteMigrate must not be closed by callers sharing db: closing it closes db.
func newSQLiteMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, DriverSQLite)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite migration source: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, DriverSQLite, drv)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

type migrationFile struct {
	version uint64
	name    string
}

// oracleFiles lists the embedded oracle migrations with the given suffix, ordered by version.
func oracleFiles(suffix string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(migrations.FS, DriverOracle)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var files []migrationFile
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		prefix, _, _ := strings.Cut(e.Name(), "_")
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s has no numeric version: %w", e.Name(), err)
		}
		files = append(files, migrationFile{version: v, name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

func ensureOracleVersionTable(ctx context.Context, db *sql.DB) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx,
		`CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP DEFAULT SYSTIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func appliedOracleVersions(ctx context.Context, db *sql.DB) (map[uint64]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := map[uint64]bool{}
	for rows.Next() {
		var v uint64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Oracle rejects multiple statements per Exec, so each file holds exactly one
// statement without a trailing semicolon.
func oracleUp(ctx context.Context, db *sql.DB) error {
	if err := ensureOracleVersionTable(ctx, db); err != nil {
		return err
	}
	applied, err := appliedOracleVersions(ctx, db)
	if err != nil {
		return err
	}
	files, err := oracleFiles(".up.sql")
	if err != nil {
		return err
	}
	for _, f := range files {
		if applied[f.version] {
			continue
		}
		if err := execOracleFile(ctx, db, f.name); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, int64(f.version)); err != nil {
			return fmt.Errorf("could not record migration %s: %w", f.name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", f.name))
	}
	return nil
}

func oracleDown(ctx context.Context, db *sql.DB, steps int) error {
	if err := ensureOracleVersionTable(ctx, db); err != nil {
		return err
	}
	applied, err := appliedOracleVersions(ctx, db)
	if err != nil {
		return err
	}
	files, err := oracleFiles(".down.sql")
	if err != nil {
		return err
	}
	done := 0
	for i := len(files) - 1; i >= 0; i-- {
		if steps > 0 && done == steps {
			break
		}
		f := files[i]
		if !applied[f.version] {
			continue
		}
		if err := execOracleFile(ctx, db, f.name); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, int64(f.version)); err != nil {
			return fmt.Errorf("could not unrecord migration %s: %w", f.name, err)
		}
		logger.Get().Info("Rolled back migration", zap.String("file", f.name))
		done++
	}
	return nil
}

func execOracleFile(ctx context.Context, db *sql.DB, name string) error {
	content, err := fs.ReadFile(migrations.FS, DriverOracle+"/"+name)
	if err != nil {
		return fmt.Errorf("could not read migration file %s: %w", name, err)
	}
	stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("could not execute migration %s: %w", name, err)
	}
	return nil
}

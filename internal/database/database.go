package database

import (
	"fmt"
	"strings"

	"learn-assist/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverOracle = "oracle"
)

func init() {
	// go-ora binds :name placeholders; sqlx does not know the driver name.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
}

// NewSQLXDB connects to dsn with driver and pings it.
func NewSQLXDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}

package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the database named by cnf.Url and migrates the
// account table. URLs starting with sqlite:// (or the bare :memory:) use the
// SQLite driver, everything else is handed to the Postgres driver.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(dialectorFor(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)
	if isSQLite(cnf.Url) {
		// One writer at a time; in-memory databases also vanish with their last connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(time.Duration(0))
	}

	if err := connection.AutoMigrate(&account.Account{}); err != nil {
		return nil, fmt.Errorf("migrate accounts: %w", err)
	}

	return connection, nil
}

func dialectorFor(url string) gorm.Dialector {
	if isSQLite(url) {
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	}
	return postgres.Open(url)
}

func isSQLite(url string) bool {
	return url == ":memory:" || strings.HasPrefix(url, "sqlite://")
}

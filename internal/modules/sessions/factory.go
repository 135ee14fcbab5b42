package sessions

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lafelle.com/app/internal/config"
)

// FromConfig opens the configured store. The returned close func releases
// the database pool, if any.
func FromConfig(cfg config.SessionConfig) (Store, func() error, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "mysql":
		db, err := OpenMySQL(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("sessions: db handle: %w", err)
		}
		return NewGormStore(db), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("sessions: unknown driver %q", cfg.Driver)
	}
}

// OpenMySQL opens the session database with a normalized DSN.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("sessions: open mysql: %w", err)
	}
	return db, nil
}

// NormalizeDSN forces parseTime so DATETIME columns scan into time.Time.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("sessions: parse DB_DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

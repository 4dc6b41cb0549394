package config

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB     *sql.DB
	GormDB *gorm.DB
	dbMu   sync.Mutex
)

// ConnectDB initializes the shared MySQL connection (idempotent).
func ConnectDB(dsn string) (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB, nil
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	DB = db
	logrus.Info("connected to MySQL")
	return DB, nil
}

// ConnectGorm initializes the shared PostgreSQL connection (idempotent).
func ConnectGorm(dsn string) (*gorm.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if GormDB != nil {
		return GormDB, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	GormDB = db
	logrus.Info("connected to PostgreSQL")
	return GormDB, nil
}

// EnsureDB pings whichever connection is open.
func EnsureDB(ctx context.Context) error {
	dbMu.Lock()
	defer dbMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	switch {
	case DB != nil:
		return DB.PingContext(ctx)
	case GormDB != nil:
		sqlDB, err := GormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	default:
		return fmt.Errorf("database not connected")
	}
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
	if GormDB != nil {
		if sqlDB, err := GormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		GormDB = nil
	}
}

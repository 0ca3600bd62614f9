package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// ConnectDatabase establishes connection to the configured database
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	level := logger.Error
	if cfg.IsDev() {
		level = logger.Info
	}

	db, err := gorm.Open(dialector(cfg.Database), &gorm.Config{
		Logger:                 logger.Default.LogMode(level),
		SkipDefaultTransaction: true, // multi-row writes open their own transactions
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg.Database.Driver)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Printf("✅ Database connected successfully [%s]", describe(cfg.Database))

	return db, nil
}

func configurePool(sqlDB *sql.DB, driver string) {
	if driver == "sqlite" {
		// one writer at a time; more connections only produce "database is locked"
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
}

// describe names the database for logs without the credentials
func describe(d DatabaseConfig) string {
	if d.Driver == "sqlite" {
		return "sqlite:" + d.SQLitePath
	}
	return fmt.Sprintf("mysql:%s:%s/%s", d.Host, d.Port, d.DBName)
}

func dialector(d DatabaseConfig) gorm.Dialector {
	if d.Driver == "sqlite" {
		return sqlite.Open(SQLiteDSN(d.SQLitePath))
	}
	return mysql.Open(buildDSN(d))
}

// SQLiteDSN returns a sqlite DSN with foreign key enforcement enabled
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on", path)
}

// buildDSN returns the MySQL connection string
func buildDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

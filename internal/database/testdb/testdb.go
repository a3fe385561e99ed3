// Package testdb открывает изолированную SQLite-базу в памяти со схемой приложения.
package testdb

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoArmGo/Foodgram/internal/database/postgres"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
)

// Open возвращает GORM и sqlx поверх одного соединения. База живёт до конца теста.
func Open(t testing.TB) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), postgres.Config())
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// одно соединение: иначе транзакции SQLite упираются в блокировку общей памяти
	sqlDB.SetMaxOpenConns(1)

	if err := storage.AutoMigrate(db); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db, sqlx.NewDb(sqlDB, "sqlite3")
}

// Logger пишет в никуда, чтобы тесты не шумели.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

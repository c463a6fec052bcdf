package testutils

import (
	"context"
	"os"
	"strconv"
	"testing"

	"cofactor-club/internal/model"
	dbPkg "cofactor-club/pkg/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrateLockID 测试包并行执行时串行化 AutoMigrate
const migrateLockID int64 = 7302001

// SetupTestDB creates a test database connection using environment variables.
// It migrates all tables and returns a transaction that is rolled back on cleanup.
// The test is skipped when the database is unreachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t)

	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return tx
}

// SetupTestDBNoTx returns a plain connection for tests that need real commits
// (for example concurrent transactions). Rows created by such tests must be
// removed by the test itself.
func SetupTestDBNoTx(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5433"))
		dsn = dbPkg.BuildDSN(&dbPkg.PostgresConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     port,
			Username: getEnvOrDefault("POSTGRES_USER", "test"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "test"),
			Database: getEnvOrDefault("POSTGRES_DB", "cofactor_club_test"),
		})
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		t.Skipf("test database unavailable: %v", err)
	}

	if err := dbPkg.MigrateWithLock(db, migrateLockID, model.InitTable); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// SetupTestRedis creates a test Redis connection.
// The test is skipped when Redis is not available.
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	redisPort, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || redisPort == 0 {
		redisPort = 6380
	}

	redisClient, err := dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "cofactor-club-test",
		Host:        getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:        redisPort,
		DB:          1,
	})
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}

	t.Cleanup(func() {
		redisClient.FlushDB(context.Background())
		redisClient.Close()
	})
	return redisClient
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustExec 执行原始 SQL，失败时终止测试
func MustExec(t *testing.T, db *gorm.DB, sql string, args ...interface{}) {
	t.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

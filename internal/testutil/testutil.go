// Package testutil provides database, Redis and fixture helpers for tests.
// Infrastructure-backed helpers skip the test when the service is unreachable
// unless TEST_REQUIRE_DB, TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard/internal/migrate"
)

const (
	pingTimeout  = 2 * time.Second
	setupTimeout = 10 * time.Second
	// Redis DBs 1..redisDBCount are handed out to test packages; DB 0 holds the locks.
	redisDBCount = 15
)

// Env is the test infrastructure configuration. The database defaults match
// the compose test profile (port 55432); CI points TEST_DB_PORT at 5432.
type Env struct {
	DBHost     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"TEST_DB_PORT"     envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER"     envDefault:"jobboard"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"jobboard"`
	DBName     string `env:"TEST_DB_NAME"     envDefault:"jobboard"`
	DBSSLMode  string `env:"DB_SSL_MODE"      envDefault:"disable"`
	// EphemeralSchema runs each test in its own schema instead of the shared one.
	EphemeralSchema bool `env:"TEST_DB_EPHEMERAL"`

	RedisAddr string `env:"REDIS_ADDR"`
	// RedisDB pins the Redis database; -1 reserves a free one.
	RedisDB int `env:"TEST_REDIS_DB" envDefault:"-1"`

	RequireDB    bool `env:"TEST_REQUIRE_DB"`
	RequireRedis bool `env:"TEST_REQUIRE_REDIS"`
	RequireInfra bool `env:"TEST_REQUIRE_INFRA"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	return env.ParseAs[Env]()
}

func mustEnv(t testing.TB) Env {
	t.Helper()
	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("parse test env: %v", err)
	}
	return e
}

// DSN is the pgx URL for the test database, optionally scoped to schema.
func (e Env) DSN(schema string) string {
	q := url.Values{"sslmode": {e.DBSSLMode}}
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.DBUser, e.DBPassword),
		Host:     net.JoinHostPort(e.DBHost, e.DBPort),
		Path:     "/" + e.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (e Env) redisAddrs() []string {
	if e.RedisAddr != "" {
		return []string{e.RedisAddr}
	}
	return []string{"redis:6379", "localhost:6379", "localhost:56379"}
}

// unavailable skips t, or fails it when the environment demands the service.
func unavailable(t testing.TB, required bool, what string, err error) {
	t.Helper()
	if required {
		t.Fatalf("%s not available: %v", what, err)
	}
	t.Skipf("%s not available: %v", what, err)
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// SkipIfNoTestDB skips t when the test database cannot be reached.
func SkipIfNoTestDB(t testing.TB) {
	t.Helper()
	e := mustEnv(t)
	db, err := sql.Open("pgx", e.DSN(""))
	if err == nil {
		err = ping(db)
		closeQuietly(t, db)
	}
	if err != nil {
		unavailable(t, e.RequireDB || e.RequireInfra, "test database", err)
	}
}

// WithAutoDB runs fn against a migrated, empty database: a throwaway schema
// when TEST_DB_EPHEMERAL is set, otherwise the shared test database with its
// job board tables cleared before and after.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)
	e := mustEnv(t)
	if e.EphemeralSchema {
		fn(ephemeralSchemaDB(t, e))
		return
	}

	db := openMigrated(t, e.DSN(""))
	truncate(t, db)
	t.Cleanup(func() {
		truncate(t, db)
		closeQuietly(t, db)
	})
	fn(db)
}

func openMigrated(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	if _, err := migrate.Run(ctx, db); err != nil {
		closeQuietly(t, db)
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// truncate clears the job board tables, children first.
func truncate(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, "TRUNCATE applications, job_postings"); err != nil {
		t.Fatalf("truncate test tables: %v", err)
	}
}

func ephemeralSchemaDB(t testing.TB, e Env) *sql.DB {
	t.Helper()
	admin, err := sql.Open("pgx", e.DSN(""))
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	schema := "t_" + randomHex(4)
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeQuietly(t, admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db := openMigrated(t, e.DSN(schema))
	db.SetMaxOpenConns(10)
	t.Cleanup(func() {
		closeQuietly(t, db)
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if _, err := admin.ExecContext(cctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(t, admin)
	})
	return db
}

// SetupTestRedis returns a client on an empty Redis database reserved for
// this test. The client is closed on cleanup.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()
	e := mustEnv(t)
	required := e.RequireRedis || e.RequireInfra

	addr, err := reachableRedis(t, e.redisAddrs())
	if err != nil {
		unavailable(t, required, "redis", err)
		return nil
	}
	db := e.RedisDB
	if db < 0 {
		db = reserveRedisDB(t, addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		closeQuietly(t, client)
		unavailable(t, required, "redis", err)
		return nil
	}
	t.Cleanup(func() { closeQuietly(t, client) })
	return client
}

func reachableRedis(t testing.TB, addrs []string) (string, error) {
	var lastErr error
	for _, addr := range addrs {
		c := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = c.Ping(ctx).Err()
		cancel()
		closeQuietly(t, c)
		if lastErr == nil {
			return addr, nil
		}
	}
	return "", lastErr
}

var redisLockOwner = sync.OnceValue(func() string {
	return fmt.Sprintf("%d-%s", os.Getpid(), randomHex(4))
})

// reserveRedisDB claims a database through a lock key in DB 0 so packages
// running in parallel do not flush each other. It falls back to DB 1.
func reserveRedisDB(t testing.TB, addr string) int {
	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer closeQuietly(t, meta)

	for i := 1; i <= redisDBCount; i++ {
		key := fmt.Sprintf("jobboard:testutil:db_lock:%d", i)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		ok, err := meta.SetNX(ctx, key, redisLockOwner(), 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			c := redis.NewClient(&redis.Options{Addr: addr})
			defer closeQuietly(t, c)
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			if err := c.Del(ctx, key).Err(); err != nil {
				t.Logf("release %s: %v", key, err)
			}
		})
		return i
	}
	return 1
}

func closeQuietly(t testing.TB, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close: %v", err)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprint(time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// TestTime is the fixed instant fixtures are stamped with.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func StringPtr(s string) *string { return &s }
func BoolPtr(b bool) *bool       { return &b }
func Int64Ptr(i int64) *int64    { return &i }

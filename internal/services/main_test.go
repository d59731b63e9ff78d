package services_test

import (
	"context"
	"database/sql"
	"testing"

	"xpledger/internal/datastore"
	"xpledger/internal/pkg/caching"
	"xpledger/internal/services"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// newTestInjector wires the services against an in-memory SQLite store and a
// process-local cache. The redis clients point nowhere: the live leaderboard
// and snapshot writes are fire-and-forget, so their failures only log.
func newTestInjector(t *testing.T) *do.Injector {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, datastore.CreateTableXPTransaction(ctx, db))
	require.NoError(t, datastore.CreateTableUserSummary(ctx, db))
	require.NoError(t, datastore.CreateTableUserBadge(ctx, db))
	require.NoError(t, datastore.CreateTableConfig(ctx, db))

	injector := do.New()
	t.Cleanup(func() { injector.Shutdown() })

	do.ProvideValue(injector, db)
	do.ProvideNamedValue(injector, "db-readonly", db)

	unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-db", unreachable)
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-cache", unreachable)

	local, err := caching.NewCacheLocal()
	require.NoError(t, err)
	do.ProvideValue[caching.Cache](injector, local)
	do.ProvideValue[caching.ReadOnlyCache](injector, local)

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceXP, error) {
		return services.NewServiceXP(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceStats, error) {
		return services.NewServiceStats(i)
	})

	return injector
}

func testDB(t *testing.T, injector *do.Injector) *bun.DB {
	t.Helper()
	db, err := do.Invoke[*bun.DB](injector)
	require.NoError(t, err)
	return db
}

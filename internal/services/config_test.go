package services_test

import (
	"context"
	"testing"

	"xpledger/internal/datastore"
	"xpledger/internal/models"
	"xpledger/internal/services"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeConfig(t *testing.T, injector *do.Injector) *services.ServiceConfig {
	t.Helper()
	serviceConfig, err := do.Invoke[*services.ServiceConfig](injector)
	require.NoError(t, err)
	return serviceConfig
}

func TestGetConfig_MissingKeyFallsBack(t *testing.T) {
	injector := newTestInjector(t)
	serviceConfig := invokeConfig(t, injector)
	ctx := context.Background()

	// nothing seeded: every getter answers with its default, not an error
	pool, err := serviceConfig.GetInt64Config(ctx, services.CONFIG_XP_POOL_SIZE, models.GlobalXPPool)
	require.NoError(t, err)
	assert.Equal(t, models.GlobalXPPool, pool)

	rate, err := serviceConfig.GetIntConfig(ctx, services.CONFIG_AWARD_RATE_PER_MINUTE, services.AWARD_RATE_DEFAULT_PER_MIN)
	require.NoError(t, err)
	assert.Equal(t, services.AWARD_RATE_DEFAULT_PER_MIN, rate)

	schedule, err := serviceConfig.GetStringConfig(ctx, services.CONFIG_CRONJOB_TIME_LIVE, "@every 5m")
	require.NoError(t, err)
	assert.Equal(t, "@every 5m", schedule)
}

func TestGetConfig_SeededKey(t *testing.T) {
	injector := newTestInjector(t)
	serviceConfig := invokeConfig(t, injector)
	ctx := context.Background()
	db := testDB(t, injector)

	err := datastore.InsertConfig(ctx, db, models.Config{Key: services.CONFIG_LEADERBOARD_LIMIT, Value: "25"})
	require.NoError(t, err)

	limit, err := serviceConfig.GetIntConfig(ctx, services.CONFIG_LEADERBOARD_LIMIT, services.LEADERBOARD_DEFAULT_LIMIT)
	require.NoError(t, err)
	assert.Equal(t, 25, limit)
}

func TestEditConfig(t *testing.T) {
	injector := newTestInjector(t)
	ctx := context.Background()
	db := testDB(t, injector)

	err := datastore.InsertConfig(ctx, db, models.Config{Key: services.CONFIG_CRONJOB_TIME_LIVE, Value: "@every 5m"})
	require.NoError(t, err)

	_, err = datastore.EditConfig(ctx, db, &models.Config{Key: services.CONFIG_CRONJOB_TIME_LIVE, Value: "@every 1h"})
	require.NoError(t, err)

	config, err := datastore.GetConfigByKey(ctx, db, services.CONFIG_CRONJOB_TIME_LIVE)
	require.NoError(t, err)
	assert.Equal(t, "@every 1h", config.Value)
}

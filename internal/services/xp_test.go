package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"xpledger/internal/datastore"
	"xpledger/internal/models"
	"xpledger/internal/services"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeXP(t *testing.T, injector *do.Injector) *services.ServiceXP {
	t.Helper()
	serviceXP, err := do.Invoke[*services.ServiceXP](injector)
	require.NoError(t, err)
	return serviceXP
}

// seedTransaction writes a backdated ledger row directly, bypassing the
// orchestrator, to set up history for streak and share scenarios.
func seedTransaction(t *testing.T, injector *do.Injector, userID string, category models.Category, amount int64, occurredAt time.Time) {
	t.Helper()
	db := testDB(t, injector)
	err := datastore.InsertXPTransaction(context.Background(), db, &models.XPTransaction{
		UserID:     userID,
		Amount:     amount,
		Category:   category,
		OccurredAt: occurredAt,
	})
	require.NoError(t, err)
}

func TestAwardForCreateNFT_FreshUser(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	result, err := serviceXP.AwardForCreateNFT(ctx, "alice", "token-1")
	require.NoError(t, err)

	// 100 base + 200 First NFT Creator
	assert.Equal(t, int64(300), result.TotalXP)
	assert.Equal(t, 2, result.Level)
	assert.Equal(t, int64(100), result.AmountAwarded)
	assert.False(t, result.AlreadyClaimed)
	assert.Equal(t, []string{models.BadgeFirstNFTCreator}, result.BadgesAwarded)

	// summary total always equals the ledger sum
	db := testDB(t, injector)
	sum, err := datastore.SumXPForUser(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, result.TotalXP, sum)

	summary, err := datastore.GetUserSummary(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.TotalXP)
	assert.Equal(t, 2, summary.Level)
}

func TestAwardXP_LevelCurve(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	result, err := serviceXP.AwardXP(ctx, "bob", 100000, models.CategoryBuyNFT, "whale purchase", "")
	require.NoError(t, err)

	assert.Equal(t, int64(100000), result.TotalXP)
	assert.Equal(t, 32, result.Level)
	assert.Empty(t, result.BadgesAwarded)
}

func TestAwardXP_Validation(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	_, err := serviceXP.AwardXP(ctx, "", 100, models.CategoryBuyNFT, "", "")
	assert.Error(t, err)

	_, err = serviceXP.AwardXP(ctx, "alice", 100, models.Category("Bogus"), "", "")
	assert.Error(t, err)

	// badge grants are written by the evaluator, never awarded directly
	_, err = serviceXP.AwardXP(ctx, "alice", 100, models.CategoryBadgeGrant, "", "")
	assert.Error(t, err)

	_, err = serviceXP.AwardXP(ctx, "alice", 0, models.CategoryBuyNFT, "", "")
	assert.Error(t, err)

	_, err = serviceXP.AwardXP(ctx, "alice", -5, models.CategoryBuyNFT, "", "")
	assert.Error(t, err)

	// nothing was written
	db := testDB(t, injector)
	count, err := datastore.CountTransactions(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAwardXP_NormalizesUserID(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	result, err := serviceXP.AwardXP(ctx, "  Alice  ", 100, models.CategoryBuyNFT, "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.UserID)

	db := testDB(t, injector)
	count, err := datastore.CountTransactions(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAwardDailyLogin_OncePerDay(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	first, err := serviceXP.AwardDailyLogin(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, first.AlreadyClaimed)
	assert.Equal(t, int64(100), first.TotalXP)
	assert.Equal(t, int64(100), first.AmountAwarded)

	second, err := serviceXP.AwardDailyLogin(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, second.AlreadyClaimed)
	assert.Equal(t, int64(100), second.TotalXP)
	assert.Equal(t, int64(0), second.AmountAwarded)

	db := testDB(t, injector)
	count, err := datastore.CountTransactions(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAwardForCreateNFT_EventReplay(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	first, err := serviceXP.AwardForCreateNFT(ctx, "alice", "token-42")
	require.NoError(t, err)
	assert.False(t, first.AlreadyClaimed)
	assert.Equal(t, int64(300), first.TotalXP)

	replay, err := serviceXP.AwardForCreateNFT(ctx, "alice", "token-42")
	require.NoError(t, err)
	assert.True(t, replay.AlreadyClaimed)
	assert.Equal(t, int64(300), replay.TotalXP)

	// a different token is a new event
	next, err := serviceXP.AwardForCreateNFT(ctx, "alice", "token-43")
	require.NoError(t, err)
	assert.False(t, next.AlreadyClaimed)
	assert.Equal(t, int64(400), next.TotalXP)
}

func TestAwardXP_Concurrent(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = serviceXP.AwardXP(ctx, "alice", 100, models.CategoryBuyNFT, "", "")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	db := testDB(t, injector)
	summary, err := datastore.GetUserSummary(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100*workers), summary.TotalXP)

	sum, err := datastore.SumXPForUser(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, summary.TotalXP, sum)
}

func TestAwardDailyLogin_StreakBadge(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()
	db := testDB(t, injector)
	now := time.Now().UTC()

	// six prior consecutive login days
	for i := 1; i <= 6; i++ {
		seedTransaction(t, injector, "alice", models.CategoryDailyLogin, 100, now.AddDate(0, 0, -i))
	}
	require.NoError(t, datastore.EnsureUserSummary(ctx, db, "alice", now.AddDate(0, 0, -6)))
	require.NoError(t, datastore.UpdateUserSummaryTotals(ctx, db, "alice", 600, 3, now.AddDate(0, 0, -1)))

	result, err := serviceXP.AwardDailyLogin(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.AmountAwarded)
	assert.Equal(t, []string{models.BadgeStreak7}, result.BadgesAwarded)
	// 600 prior + 100 login + 1000 badge
	assert.Equal(t, int64(1700), result.TotalXP)

	sum, err := datastore.SumXPForUser(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, result.TotalXP, sum)
}

func TestAwardDailyLogin_GapOutsideWindow(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	// old logins beyond the trailing 30-day window don't count
	now := time.Now().UTC()
	for i := 31; i <= 36; i++ {
		seedTransaction(t, injector, "alice", models.CategoryDailyLogin, 100, now.AddDate(0, 0, -i))
	}

	result, err := serviceXP.AwardDailyLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, result.BadgesAwarded)
}

func TestAwardShare_SocialInfluencerBadge(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()
	now := time.Now().UTC()

	// four prior shares on distinct days
	for i := 1; i <= 4; i++ {
		seedTransaction(t, injector, "alice", models.CategoryShareProject, 100, now.AddDate(0, 0, -i))
	}

	result, err := serviceXP.AwardShare(ctx, "alice", "x")
	require.NoError(t, err)

	assert.False(t, result.AlreadyClaimed)
	assert.Equal(t, []string{models.BadgeSocialInfluencer}, result.BadgesAwarded)
}

func TestAwardForGenesisClaim_Badge(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	result, err := serviceXP.AwardForGenesisClaim(ctx, "alice", "sbt-7")
	require.NoError(t, err)

	// 500 base + 500 Genesis Holder
	assert.Equal(t, int64(500), result.AmountAwarded)
	assert.Equal(t, int64(1000), result.TotalXP)
	assert.Equal(t, 4, result.Level)
	assert.Equal(t, []string{models.BadgeGenesisHolder}, result.BadgesAwarded)
}

func TestBadgeGrantedOnce(t *testing.T) {
	injector := newTestInjector(t)
	serviceXP := invokeXP(t, injector)
	ctx := context.Background()

	first, err := serviceXP.AwardForSwap(ctx, "alice", "swap-1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.BadgeFirstSwap}, first.BadgesAwarded)

	second, err := serviceXP.AwardForSwap(ctx, "alice", "swap-2")
	require.NoError(t, err)
	assert.Empty(t, second.BadgesAwarded)

	db := testDB(t, injector)
	badges, err := datastore.GetUserBadges(ctx, db, "alice")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFirstSwap, badges[0].Name)

	// one badge grant entry in the ledger
	count, err := datastore.CountByCategory(ctx, db, "alice", models.CategoryBadgeGrant)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

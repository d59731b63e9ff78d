package handler

import (
	"errors"
	"strconv"

	"xpledger/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupStats struct {
	container *do.Injector
}

func (gr *groupStats) UserStats(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userID := c.Param("id")
	if userID == "" || userID == "undefined" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("user id is required"), errorx.Invalid))
	}

	stats, err := serviceStats.GetUserStats(c.Request().Context(), userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, stats, nil)
}

func (gr *groupStats) GlobalStats(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stats, err := serviceStats.GetGlobalStats(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, stats, nil)
}

func (gr *groupStats) Leaderboard(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, err := serviceStats.GetLeaderboard(c.Request().Context(), limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, entries, nil)
}

func (gr *groupStats) LiveLeaderboard(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, err := serviceStats.GetLiveLeaderboard(c.Request().Context(), limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupStats) Transactions(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userID := c.Param("id")
	if userID == "" || userID == "undefined" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("user id is required"), errorx.Invalid))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	txns, err := serviceStats.GetUserTransactions(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, txns, nil)
}

func (gr *groupStats) LiveRank(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userID := c.Param("id")
	if userID == "" || userID == "undefined" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("user id is required"), errorx.Invalid))
	}

	item, err := serviceStats.GetLiveRank(c.Request().Context(), userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, item, nil)
}

func (gr *groupStats) Rank(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userID := c.Param("id")
	if userID == "" || userID == "undefined" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("user id is required"), errorx.Invalid))
	}

	rank, err := serviceStats.GetUserRank(c.Request().Context(), userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, rank, nil)
}

package handler

import (
	"xpledger/internal/models"
	"xpledger/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupXP struct {
	container *do.Injector
}

type AwardPayload struct {
	UserID   string `json:"user_id"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Detail   string `json:"detail"`
	EventID  string `json:"event_id"`
}

type EventPayload struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
	TxRef   string `json:"tx_ref"`
}

type SharePayload struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
}

func (gr *groupXP) Award(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload AwardPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	ctx := c.Request().Context()
	result, err := serviceXP.AwardXP(ctx, payload.UserID, payload.Amount, models.Category(payload.Category), payload.Detail, payload.EventID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) CreateNFT(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForCreateNFT(c.Request().Context(), payload.UserID, payload.TokenID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) BuyNFT(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForBuyNFT(c.Request().Context(), payload.UserID, payload.TxRef)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) SellNFT(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForSellNFT(c.Request().Context(), payload.UserID, payload.TxRef)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) ListNFT(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForListNFT(c.Request().Context(), payload.UserID, payload.TokenID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) Swap(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForSwap(c.Request().Context(), payload.UserID, payload.TxRef)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) GenesisClaim(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardForGenesisClaim(c.Request().Context(), payload.UserID, payload.TokenID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) DailyLogin(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload EventPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardDailyLogin(c.Request().Context(), payload.UserID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupXP) Share(c echo.Context) error {
	serviceXP, err := do.Invoke[*services.ServiceXP](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload SharePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceXP.AwardShare(c.Request().Context(), payload.UserID, payload.Platform)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

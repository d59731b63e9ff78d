package handler

import (
	"xpledger/internal/api"
	"xpledger/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

// RateLimitAward throttles award traffic per client IP. The per-minute rate
// comes from config so operators can tune it without a redeploy.
func RateLimitAward(container *do.Injector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter, err := do.Invoke[api.Limiter](container)
			if err != nil {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
			if err != nil {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			ctx := c.Request().Context()
			rate, err := serviceConfig.GetIntConfig(ctx, services.CONFIG_AWARD_RATE_PER_MINUTE, services.AWARD_RATE_DEFAULT_PER_MIN)
			if err != nil {
				return httpx.RestAbort(c, nil, err)
			}

			err = limiter.Allow(ctx, services.LimitKeyAward(c.RealIP()), redis_rate.PerMinute(rate))
			if err != nil {
				//nolint:errcheck
				httpx.Abort(c, err, -1)
				return nil
			}

			return next(c)
		}
	}
}

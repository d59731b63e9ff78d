package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "⚡")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.GET("", Hello)

		routesAPIv1XP := routesAPIv1.Group("/xp")
		{
			routesAPIv1XP.Use(RateLimitAward(cfg.Container))
			x := groupXP{cfg.Container}

			routesAPIv1XP.POST("/award", x.Award)
			routesAPIv1XP.POST("/nft/create", x.CreateNFT)
			routesAPIv1XP.POST("/nft/buy", x.BuyNFT)
			routesAPIv1XP.POST("/nft/sell", x.SellNFT)
			routesAPIv1XP.POST("/nft/list", x.ListNFT)
			routesAPIv1XP.POST("/swap", x.Swap)
			routesAPIv1XP.POST("/genesis", x.GenesisClaim)
			routesAPIv1XP.POST("/login", x.DailyLogin)
			routesAPIv1XP.POST("/share", x.Share)
		}

		s := groupStats{cfg.Container}
		routesAPIv1.GET("/stats/user/:id", s.UserStats)
		routesAPIv1.GET("/stats/user/:id/transactions", s.Transactions)
		routesAPIv1.GET("/stats/global", s.GlobalStats)
		routesAPIv1.GET("/leaderboard", s.Leaderboard)
		routesAPIv1.GET("/leaderboard/live", s.LiveLeaderboard)
		routesAPIv1.GET("/rank/:id", s.Rank)
		routesAPIv1.GET("/rank/:id/live", s.LiveRank)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}

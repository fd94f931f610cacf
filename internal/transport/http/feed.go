package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/arda-labs/social-derivation/internal/feed"
	"github.com/arda-labs/social-derivation/internal/transport/mw"
)

// FeedHandler exposes the Feed Engine's REST surface (§6).
type FeedHandler struct {
	assembler *feed.Assembler
	trending  *feed.Trending
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(assembler *feed.Assembler, trending *feed.Trending) *FeedHandler {
	return &FeedHandler{assembler: assembler, trending: trending}
}

// NewFeedRouter wires the Feed Engine's HTTP surface.
func NewFeedRouter(h *FeedHandler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "OPTIONS"},
	}))

	e.GET("/health", Health)

	v1 := e.Group("")
	v1.Use(mw.JWTAuth(jwtSecret))

	v1.GET("/feed", h.Get)
	v1.GET("/feed/trending", h.Trending)

	return e
}

// Get GET /feed?cursor=&limit=
func (h *FeedHandler) Get(c echo.Context) error {
	userID := mw.UserID(c)
	cursor := c.QueryParam("cursor")
	limit := parseIntQuery(c, "limit", 20)

	page, err := h.assembler.Assemble(c.Request().Context(), userID, cursor, limit)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, page)
}

// Trending GET /feed/trending?limit=
func (h *FeedHandler) Trending(c echo.Context) error {
	limit := parseIntQuery(c, "limit", 20)

	posts, err := h.trending.Get(c.Request().Context(), limit)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]any{"data": posts})
}

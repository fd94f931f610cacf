package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/search"
	"github.com/arda-labs/social-derivation/internal/transport/mw"
)

// SearchHandler exposes the Search Engine's REST surface (§6).
type SearchHandler struct {
	query *search.Query
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(query *search.Query) *SearchHandler {
	return &SearchHandler{query: query}
}

// NewSearchRouter wires the Search Engine's HTTP surface.
func NewSearchRouter(h *SearchHandler, jwtSecret string) *echo.Echo {
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

	v1.GET("/search", h.Search)

	return e
}

// Search GET /search?q=&type=&page=&page_size=
func (h *SearchHandler) Search(c echo.Context) error {
	text := c.QueryParam("q")
	typ := domain.SearchType(c.QueryParam("type"))
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 20)

	result, err := h.query.Search(c.Request().Context(), text, typ, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrQueryTooShort):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, search.ErrInvalidType):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.ErrInternalServerError
		}
	}
	return c.JSON(http.StatusOK, result)
}

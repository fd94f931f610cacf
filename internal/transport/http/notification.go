// Package http holds the per-service echo routers and handlers,
// generalized from the teacher's REST handler style (the teacher's SSE
// stream endpoint has no equivalent in this spec and was dropped — see
// DESIGN.md).
package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/arda-labs/social-derivation/internal/domain"
	"github.com/arda-labs/social-derivation/internal/notification"
	"github.com/arda-labs/social-derivation/internal/transport/mw"
)

// NotificationHandler exposes the Notification Engine's REST surface (§6).
type NotificationHandler struct {
	svc *notification.Service
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// NewNotificationRouter wires the Notification Engine's HTTP surface.
func NewNotificationRouter(h *NotificationHandler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	e.GET("/health", Health)

	v1 := e.Group("")
	v1.Use(mw.JWTAuth(jwtSecret))

	v1.GET("/notifications", h.List)
	v1.PATCH("/notifications/:id/read", h.MarkRead)
	v1.DELETE("/notifications/:id", h.Delete)
	v1.GET("/notifications/preferences", h.GetPreference)
	v1.PUT("/notifications/preferences", h.UpdatePreference)
	v1.POST("/notifications/push-token", h.SetPushToken)

	return e
}

// List GET /notifications
func (h *NotificationHandler) List(c echo.Context) error {
	userID := mw.UserID(c)

	filter := domain.NotificationFilter{
		UserID:     userID,
		UnreadOnly: c.QueryParam("unread_only") == "true",
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}

	notifications, total, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data":  notifications,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// MarkRead PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := mw.UserID(c)
	if err := h.svc.MarkRead(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete DELETE /notifications/:id
func (h *NotificationHandler) Delete(c echo.Context) error {
	userID := mw.UserID(c)
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPreference GET /notifications/preferences
func (h *NotificationHandler) GetPreference(c echo.Context) error {
	userID := mw.UserID(c)
	pref, err := h.svc.GetPreference(c.Request().Context(), userID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, pref)
}

type updatePreferenceRequest struct {
	LikesEnabled    *bool `json:"likes_enabled"`
	CommentsEnabled *bool `json:"comments_enabled"`
	FollowsEnabled  *bool `json:"follows_enabled"`
	PushEnabled     *bool `json:"push_enabled"`
}

// UpdatePreference PUT /notifications/preferences
func (h *NotificationHandler) UpdatePreference(c echo.Context) error {
	userID := mw.UserID(c)
	ctx := c.Request().Context()

	current, err := h.svc.GetPreference(ctx, userID)
	if err != nil {
		return echo.ErrInternalServerError
	}

	var req updatePreferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.LikesEnabled != nil {
		current.LikesEnabled = *req.LikesEnabled
	}
	if req.CommentsEnabled != nil {
		current.CommentsEnabled = *req.CommentsEnabled
	}
	if req.FollowsEnabled != nil {
		current.FollowsEnabled = *req.FollowsEnabled
	}
	if req.PushEnabled != nil {
		current.PushEnabled = *req.PushEnabled
	}

	if err := h.svc.UpdatePreference(ctx, current); err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, current)
}

type setPushTokenRequest struct {
	Platform string `json:"platform"` // "android" | "ios"
	Token    string `json:"token"`
}

// SetPushToken POST /notifications/push-token
func (h *NotificationHandler) SetPushToken(c echo.Context) error {
	userID := mw.UserID(c)

	var req setPushTokenRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.SetPushToken(c.Request().Context(), userID, req.Platform, req.Token); err != nil {
		return echo.ErrInternalServerError
	}
	return c.NoContent(http.StatusNoContent)
}

// Health GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

func parseIntQuery(c echo.Context, key string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

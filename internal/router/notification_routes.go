package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/handler"
	"github.com/iliyamo/university-timetable/internal/middleware"
)

// RegisterNotifications registers the schedule-change feed under
// /v1/notifications. All roles may read their own feed and mark entries
// as read. These routes are never cached: the unread count and read
// flags must reflect a mark-read immediately.
func RegisterNotifications(e *echo.Echo, h *handler.NotificationHandler, jwtSecret string, actorMW echo.MiddlewareFunc) {
	g := e.Group("/v1/notifications",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "LECTURER", "STUDENT"),
		actorMW,
	)
	g.GET("", h.List)
	g.GET("/unread-count", h.UnreadCount)
	g.GET("/:id", h.Get)
	g.POST("/:id/read", h.MarkRead)
}

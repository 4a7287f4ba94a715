package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/handler"
	"github.com/iliyamo/university-timetable/internal/middleware"
)

// RegisterLessons registers the timetable endpoints under /v1. Reads are
// open to every authenticated role and scoped by the resolved actor, so
// the same routes serve the admin timetable, a lecturer's teaching
// schedule and a student group's plan. Writes are restricted to ADMIN
// and LECTURER; ownership of a particular lesson is enforced in the
// service. The read cache is keyed per user because responses differ by
// visibility.
func RegisterLessons(e *echo.Echo, h *handler.LessonHandler, jwtSecret string, actorMW, cacheMW echo.MiddlewareFunc) {
	reads := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "LECTURER", "STUDENT"),
		actorMW,
	)
	reads.GET("/lessons", h.List, cacheMW)
	reads.GET("/lessons/:id", h.Get, cacheMW)

	writes := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "LECTURER"),
		actorMW,
	)
	writes.POST("/lessons", h.Create)
	writes.PUT("/lessons/:id", h.Update)
	writes.PATCH("/lessons/:id", h.Update)
	writes.DELETE("/lessons/:id", h.Delete)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/handler"
	"github.com/iliyamo/university-timetable/internal/middleware"
)

// RegisterCatalog registers the reference-data endpoints under /v1.
// Every authenticated role may read the catalog and the people
// directories; all writes are ADMIN-only. Reads share one response cache
// since the data is the same for every caller.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	reads := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "LECTURER", "STUDENT"),
	)
	reads.GET("/rooms", h.ListRooms, cacheMW)
	reads.GET("/rooms/:id", h.GetRoom, cacheMW)
	reads.GET("/courses", h.ListCourses, cacheMW)
	reads.GET("/courses/:id", h.GetCourse, cacheMW)
	reads.GET("/groups", h.ListGroups, cacheMW)
	reads.GET("/groups/:id", h.GetGroup, cacheMW)
	reads.GET("/lecturers", h.ListLecturers, cacheMW)
	reads.GET("/students", h.ListStudents, cacheMW)

	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Rooms ----
	admin.POST("/rooms", h.CreateRoom)
	admin.PUT("/rooms/:id", h.UpdateRoom)
	admin.PATCH("/rooms/:id", h.UpdateRoom)
	admin.DELETE("/rooms/:id", h.DeleteRoom)

	// ---- Courses ----
	admin.POST("/courses", h.CreateCourse)
	admin.PUT("/courses/:id", h.UpdateCourse)
	admin.PATCH("/courses/:id", h.UpdateCourse)
	admin.DELETE("/courses/:id", h.DeleteCourse)

	// ---- Groups ----
	admin.POST("/groups", h.CreateGroup)
	admin.PUT("/groups/:id", h.UpdateGroup)
	admin.PATCH("/groups/:id", h.UpdateGroup)
	admin.DELETE("/groups/:id", h.DeleteGroup)
}

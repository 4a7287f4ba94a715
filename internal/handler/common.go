// Package handler contains the Echo HTTP handlers: auth, catalog
// management, lesson scheduling and notifications.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

// actorFrom returns the actor resolved by the identity middleware. A route
// missing the middleware yields a zero actor, whose visibility matches
// nothing, so a wiring mistake fails closed.
func actorFrom(c echo.Context) model.Actor {
	actor, _ := c.Get("actor").(model.Actor)
	return actor
}

// pathID parses a numeric route parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeDomainError translates service and repository failures into HTTP
// responses: aggregated validation errors become 400 with the per-field
// message map, sentinel errors map onto their statuses, anything else is
// a 500 without leaking internals.
func writeDomainError(c echo.Context, err error) error {
	var vErr *schedule.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": vErr.ByField()})
	}
	switch {
	case errors.Is(err, repository.ErrLessonNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrGroupNotFound),
		errors.Is(err, repository.ErrLecturerNotFound),
		errors.Is(err, repository.ErrStudentNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting records exist"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

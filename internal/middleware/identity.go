package middleware

// identity.go resolves the authenticated account into a model.Actor: the
// token claims plus the profile row behind them (the lecturer id for
// lecturers, the group for students). Resolution runs once per request so
// handlers and queries never re-derive role-specific scoping themselves.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// ResolveActor builds the request's actor from the claims stored by
// JWTAuth and the profile repositories, and stores it under "actor".
// Accounts whose profile row is missing resolve to an actor with an empty
// visibility scope rather than to an error.
func ResolveActor(lecturers *repository.LecturerRepo, students *repository.StudentRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := claimedUserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
			}
			role, _ := c.Get("role").(string)

			actor := model.Actor{UserID: userID, Role: role}
			switch role {
			case model.RoleLecturer:
				lec, err := lecturers.GetByUserID(c.Request().Context(), userID)
				if err != nil && !errors.Is(err, repository.ErrLecturerNotFound) {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve profile"})
				}
				if lec != nil {
					actor.LecturerID = lec.ID
				}
			case model.RoleStudent:
				st, err := students.GetByUserID(c.Request().Context(), userID)
				if err != nil && !errors.Is(err, repository.ErrStudentNotFound) {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve profile"})
				}
				if st != nil {
					actor.GroupID = st.GroupID
					actor.GroupName = st.GroupName
				}
			}

			c.Set("actor", actor)
			// Re-store the subject in normalized string form so the rate-limit
			// and cache key builders can use it directly.
			c.Set("user_id", strconv.FormatUint(userID, 10))
			return next(c)
		}
	}
}

// claimedUserID converts the raw "sub" claim into a uint64. JSON decoding
// hands numeric claims over as float64; string subjects are parsed.
func claimedUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	case uint64:
		return v, true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	}
	return 0, false
}

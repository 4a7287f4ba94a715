package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// CreateCourse handles POST /v1/courses. The course code must be unique.
func (h *CatalogHandler) CreateCourse(c echo.Context) error {
	var body struct {
		CourseCode string  `json:"course_code"`
		Title      string  `json:"title"`
		Credits    float64 `json:"credits"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.CourseCode = strings.ToUpper(strings.TrimSpace(body.CourseCode))
	body.Title = strings.TrimSpace(body.Title)
	if body.CourseCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_code is required"})
	}
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.Credits <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "credits must be a positive number"})
	}
	course := &model.Course{
		CourseCode: body.CourseCode,
		Title:      body.Title,
		Credits:    strconv.FormatFloat(body.Credits, 'f', 2, 64), // DECIMAL(4,2) text form
	}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		if err == repository.ErrCourseExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "course code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create course"})
	}
	return c.JSON(http.StatusCreated, courseJSON(course))
}

// ListCourses handles GET /v1/courses.
func (h *CatalogHandler) ListCourses(c echo.Context) error {
	courses, err := h.Courses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]courseResp, 0, len(courses))
	for _, course := range courses {
		items = append(items, courseJSON(course))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCourse handles GET /v1/courses/:id.
func (h *CatalogHandler) GetCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, courseJSON(course))
}

// UpdateCourse handles PUT/PATCH /v1/courses/:id with partial semantics.
func (h *CatalogHandler) UpdateCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		CourseCode *string  `json:"course_code"`
		Title      *string  `json:"title"`
		Credits    *float64 `json:"credits"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.CourseCode != nil {
		course.CourseCode = strings.ToUpper(strings.TrimSpace(*body.CourseCode))
	}
	if body.Title != nil {
		course.Title = strings.TrimSpace(*body.Title)
	}
	if body.Credits != nil {
		if *body.Credits <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "credits must be a positive number"})
		}
		course.Credits = strconv.FormatFloat(*body.Credits, 'f', 2, 64)
	}
	if course.CourseCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_code is required"})
	}
	if course.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	switch err := h.Courses.Update(c.Request().Context(), course); err {
	case nil:
		fresh, err := h.Courses.GetByID(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, courseJSON(fresh))
	case repository.ErrNoChange:
		return c.JSON(http.StatusOK, courseJSON(course))
	case repository.ErrCourseExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "course code already exists"})
	case repository.ErrCourseNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
}

// DeleteCourse handles DELETE /v1/courses/:id. Courses referenced by
// lessons cannot be removed.
func (h *CatalogHandler) DeleteCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	switch err := h.Courses.Delete(c.Request().Context(), id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrCourseNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "course has scheduled lessons"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

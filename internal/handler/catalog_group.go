package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// CreateGroup handles POST /v1/groups. The group name must be unique.
func (h *CatalogHandler) CreateGroup(c echo.Context) error {
	var body struct {
		Name   string `json:"name"`
		Intake string `json:"intake"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Intake = strings.TrimSpace(body.Intake)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Intake == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "intake is required"})
	}
	group := &model.Group{Name: body.Name, Intake: body.Intake}
	if err := h.Groups.Create(c.Request().Context(), group); err != nil {
		if err == repository.ErrGroupExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "group name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create group"})
	}
	return c.JSON(http.StatusCreated, groupJSON(group))
}

// ListGroups handles GET /v1/groups. Each entry carries its current
// student count.
func (h *CatalogHandler) ListGroups(c echo.Context) error {
	groups, err := h.Groups.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]groupResp, 0, len(groups))
	for _, g := range groups {
		items = append(items, groupJSON(g))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetGroup handles GET /v1/groups/:id.
func (h *CatalogHandler) GetGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	group, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, groupJSON(group))
}

// UpdateGroup handles PUT/PATCH /v1/groups/:id with partial semantics.
func (h *CatalogHandler) UpdateGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name   *string `json:"name"`
		Intake *string `json:"intake"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	group, err := h.Groups.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGroupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Name != nil {
		group.Name = strings.TrimSpace(*body.Name)
	}
	if body.Intake != nil {
		group.Intake = strings.TrimSpace(*body.Intake)
	}
	if group.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if group.Intake == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "intake is required"})
	}

	switch err := h.Groups.Update(c.Request().Context(), group); err {
	case nil:
		fresh, err := h.Groups.GetByID(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, groupJSON(fresh))
	case repository.ErrNoChange:
		return c.JSON(http.StatusOK, groupJSON(group))
	case repository.ErrGroupExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "group name already exists"})
	case repository.ErrGroupNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
}

// DeleteGroup handles DELETE /v1/groups/:id. Groups with enrolled
// students or assigned lessons cannot be removed.
func (h *CatalogHandler) DeleteGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	switch err := h.Groups.Delete(c.Request().Context(), id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrGroupNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "group has students or assigned lessons"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

// ListLecturers handles GET /v1/lecturers.
func (h *CatalogHandler) ListLecturers(c echo.Context) error {
	lecturers, err := h.Lecturers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]lecturerResp, 0, len(lecturers))
	for _, l := range lecturers {
		items = append(items, lecturerJSON(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListStudents handles GET /v1/students.
func (h *CatalogHandler) ListStudents(c echo.Context) error {
	students, err := h.Students.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]studentResp, 0, len(students))
	for _, s := range students {
		items = append(items, studentJSON(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

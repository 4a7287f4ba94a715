package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// CreateRoom handles POST /v1/rooms. Building and hall together identify
// a room, so the pair must be unique.
func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	var body struct {
		Building string `json:"building"`
		Hall     string `json:"hall"`
		Capacity int    `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Building = strings.TrimSpace(body.Building)
	body.Hall = strings.TrimSpace(body.Hall)
	if body.Building == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building is required"})
	}
	if body.Hall == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall is required"})
	}
	if body.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}
	room := &model.Room{Building: body.Building, Hall: body.Hall, Capacity: body.Capacity}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if err == repository.ErrRoomExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, roomJSON(room))
}

// ListRooms handles GET /v1/rooms.
func (h *CatalogHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, roomJSON(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *CatalogHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, roomJSON(room))
}

// UpdateRoom handles PUT/PATCH /v1/rooms/:id. Fields absent from the body
// keep their stored values; submitting identical values is not an error
// and returns the unchanged record.
func (h *CatalogHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Building *string `json:"building"`
		Hall     *string `json:"hall"`
		Capacity *int    `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Building != nil {
		room.Building = strings.TrimSpace(*body.Building)
	}
	if body.Hall != nil {
		room.Hall = strings.TrimSpace(*body.Hall)
	}
	if body.Capacity != nil {
		room.Capacity = *body.Capacity
	}
	if room.Building == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building is required"})
	}
	if room.Hall == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall is required"})
	}
	if room.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	switch err := h.Rooms.Update(c.Request().Context(), room); err {
	case nil:
		fresh, err := h.Rooms.GetByID(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, roomJSON(fresh))
	case repository.ErrNoChange:
		return c.JSON(http.StatusOK, roomJSON(room))
	case repository.ErrRoomExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "room already exists"})
	case repository.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
}

// DeleteRoom handles DELETE /v1/rooms/:id. Rooms referenced by lessons
// cannot be removed.
func (h *CatalogHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	switch err := h.Rooms.Delete(c.Request().Context(), id); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "room has scheduled lessons"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

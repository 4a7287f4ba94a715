package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
	"github.com/iliyamo/university-timetable/internal/schedule"
	"github.com/iliyamo/university-timetable/internal/service"
)

// LessonHandler exposes the timetable itself. Writes go through the
// lesson service (validation, conflict detection, notifications); reads
// hit the repository with the actor's visibility applied.
type LessonHandler struct {
	Svc     *service.LessonService
	Lessons *repository.LessonRepo
}

func NewLessonHandler(svc *service.LessonService, lessons *repository.LessonRepo) *LessonHandler {
	return &LessonHandler{Svc: svc, Lessons: lessons}
}

// ----- DTOs -----

type lessonCreateReq struct {
	CourseID     uint64   `json:"course_id"`
	LecturerID   uint64   `json:"lecturer_id"`
	RoomID       uint64   `json:"room_id"`
	GroupIDs     []uint64 `json:"group_ids"`
	LessonType   string   `json:"lesson_type"`
	Date         string   `json:"date"`
	StartingTime string   `json:"starting_time"`
	EndingTime   string   `json:"ending_time"`
}

type lessonUpdateReq struct {
	CourseID     *uint64   `json:"course_id"`
	LecturerID   *uint64   `json:"lecturer_id"`
	RoomID       *uint64   `json:"room_id"`
	GroupIDs     *[]uint64 `json:"group_ids"`
	LessonType   *string   `json:"lesson_type"`
	Date         *string   `json:"date"`
	StartingTime *string   `json:"starting_time"`
	EndingTime   *string   `json:"ending_time"`
}

type lessonResp struct {
	ID           uint64    `json:"id"`
	CourseID     uint64    `json:"course_id"`
	CourseCode   string    `json:"course_code"`
	CourseTitle  string    `json:"course_title"`
	LecturerID   uint64    `json:"lecturer_id"`
	LecturerName string    `json:"lecturer_name"`
	RoomID       uint64    `json:"room_id"`
	RoomDetails  string    `json:"room_details"`
	GroupIDs     []uint64  `json:"group_ids"`
	GroupNames   []string  `json:"group_names"`
	LessonType   string    `json:"lesson_type"`
	Date         string    `json:"date"`
	StartingTime string    `json:"starting_time"`
	EndingTime   string    `json:"ending_time"`
	Duration     int       `json:"duration_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func lessonJSON(d *model.LessonDetail) lessonResp {
	duration := 0
	if start, err := schedule.ParseClock(d.StartsAt); err == nil {
		if end, err := schedule.ParseClock(d.EndsAt); err == nil {
			duration = (end - start) / 60
		}
	}
	return lessonResp{
		ID:           d.ID,
		CourseID:     d.CourseID,
		CourseCode:   d.CourseCode,
		CourseTitle:  d.CourseTitle,
		LecturerID:   d.LecturerID,
		LecturerName: d.LecturerName,
		RoomID:       d.RoomID,
		RoomDetails:  fmt.Sprintf("%s (Capacity: %d)", d.RoomLabel(), d.RoomCapacity),
		GroupIDs:     d.GroupIDs,
		GroupNames:   d.GroupNames,
		LessonType:   d.LessonType,
		Date:         d.Date,
		StartingTime: schedule.ClockHHMM(d.StartsAt),
		EndingTime:   schedule.ClockHHMM(d.EndsAt),
		Duration:     duration,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Create handles POST /v1/lessons.
func (h *LessonHandler) Create(c echo.Context) error {
	actor := actorFrom(c)
	var req lessonCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.Svc.Create(c.Request().Context(), actor, service.LessonInput{
		CourseID:   req.CourseID,
		LecturerID: req.LecturerID,
		RoomID:     req.RoomID,
		GroupIDs:   req.GroupIDs,
		LessonType: req.LessonType,
		Date:       req.Date,
		StartsAt:   req.StartingTime,
		EndsAt:     req.EndingTime,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": lessonJSON(detail)})
}

// Update handles PUT/PATCH /v1/lessons/:id. Absent fields keep their
// stored values; a body that changes nothing is a no-op and returns the
// current record.
func (h *LessonHandler) Update(c echo.Context) error {
	actor := actorFrom(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req lessonUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.Svc.Update(c.Request().Context(), actor, id, service.LessonPatch{
		CourseID:   req.CourseID,
		LecturerID: req.LecturerID,
		RoomID:     req.RoomID,
		GroupIDs:   req.GroupIDs,
		LessonType: req.LessonType,
		Date:       req.Date,
		StartsAt:   req.StartingTime,
		EndsAt:     req.EndingTime,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": lessonJSON(detail)})
}

// Delete handles DELETE /v1/lessons/:id.
func (h *LessonHandler) Delete(c echo.Context) error {
	actor := actorFrom(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/lessons. Admins see the full timetable, lecturers
// their own teaching, students their group's schedule. An optional
// ?date=YYYY-MM-DD narrows the list to one day.
func (h *LessonHandler) List(c echo.Context) error {
	actor := actorFrom(c)
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		normalized, err := schedule.NormalizeDate(date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be a valid YYYY-MM-DD date"})
		}
		date = normalized
	}
	lessons, err := h.Lessons.ListVisible(c.Request().Context(), actor.Visibility(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]lessonResp, 0, len(lessons))
	for i := range lessons {
		items = append(items, lessonJSON(&lessons[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/lessons/:id. Lessons outside the actor's visibility
// answer 404 rather than 403 so the route does not leak their existence.
func (h *LessonHandler) Get(c echo.Context) error {
	actor := actorFrom(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Lessons.GetVisibleDetail(c.Request().Context(), id, actor.Visibility())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": lessonJSON(detail)})
}

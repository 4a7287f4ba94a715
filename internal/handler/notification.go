package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// NotificationHandler serves the schedule-change feed and its read
// receipts. Every query is scoped by the actor's visibility, so a user
// can only list, read or count the notifications addressed to them.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Reads         *repository.NotificationReadRepo
}

func NewNotificationHandler(n *repository.NotificationRepo, r *repository.NotificationReadRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Reads: r}
}

type notificationResp struct {
	ID          uint64    `json:"id"`
	LessonID    *uint64   `json:"lesson_id"` // null once the lesson is deleted
	MessageType string    `json:"message_type"`
	MessageText string    `json:"message_text"`
	CourseCode  string    `json:"course_code"`
	CourseTitle string    `json:"course_title"`
	LessonDate  string    `json:"lesson_date"`
	LessonTime  string    `json:"lesson_time"`
	GroupNames  string    `json:"group_names"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type receiptResp struct {
	ID             uint64    `json:"id"`
	NotificationID uint64    `json:"notification_id"`
	ReadAt         time.Time `json:"read_at"`
}

func notificationJSON(n *model.Notification) notificationResp {
	return notificationResp{
		ID:          n.ID,
		LessonID:    n.LessonID,
		MessageType: n.MessageType,
		MessageText: n.MessageText,
		CourseCode:  n.CourseCode,
		CourseTitle: n.CourseTitle,
		LessonDate:  n.LessonDate,
		LessonTime:  n.LessonTime,
		GroupNames:  n.GroupNames,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

// List handles GET /v1/notifications, newest first, each entry flagged
// with the caller's read state.
func (h *NotificationHandler) List(c echo.Context) error {
	actor := actorFrom(c)
	notifications, err := h.Notifications.ListVisible(c.Request().Context(), actor.Visibility(), actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]notificationResp, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationJSON(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/notifications/:id. Notifications outside the
// actor's visibility answer 404.
func (h *NotificationHandler) Get(c echo.Context) error {
	actor := actorFrom(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.Notifications.GetVisibleByID(c.Request().Context(), id, actor.Visibility(), actor.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": notificationJSON(n)})
}

// MarkRead handles POST /v1/notifications/:id/read. Marking twice is not
// an error: the original receipt comes back with already_read set, and
// the stored read_at never moves.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor := actorFrom(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Notifications.GetVisibleByID(c.Request().Context(), id, actor.Visibility(), actor.UserID); err != nil {
		return writeDomainError(c, err)
	}
	receipt, created, err := h.Reads.MarkRead(c.Request().Context(), id, actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not mark as read"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"receipt": receiptResp{
			ID:             receipt.ID,
			NotificationID: receipt.NotificationID,
			ReadAt:         receipt.ReadAt,
		},
		"already_read": !created,
	})
}

// UnreadCount handles GET /v1/notifications/unread-count: the number of
// visible notifications the caller has not yet marked as read.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor := actorFrom(c)
	ids, err := h.Notifications.ListVisibleIDs(c.Request().Context(), actor.Visibility())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	unread, err := h.Reads.CountUnread(c.Request().Context(), actor.UserID, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": unread})
}

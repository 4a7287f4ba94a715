package handler

import (
	"time"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// CatalogHandler serves the reference data the timetable is built from:
// rooms, courses and student groups (admin-managed CRUD), plus read-only
// lecturer and student directories.
type CatalogHandler struct {
	Rooms     *repository.RoomRepo
	Courses   *repository.CourseRepo
	Groups    *repository.GroupRepo
	Lecturers *repository.LecturerRepo
	Students  *repository.StudentRepo
}

func NewCatalogHandler(
	rooms *repository.RoomRepo,
	courses *repository.CourseRepo,
	groups *repository.GroupRepo,
	lecturers *repository.LecturerRepo,
	students *repository.StudentRepo,
) *CatalogHandler {
	return &CatalogHandler{
		Rooms:     rooms,
		Courses:   courses,
		Groups:    groups,
		Lecturers: lecturers,
		Students:  students,
	}
}

// ----- response shapes -----

type roomResp struct {
	ID        uint64    `json:"id"`
	Building  string    `json:"building"`
	Hall      string    `json:"hall"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type courseResp struct {
	ID         uint64    `json:"id"`
	CourseCode string    `json:"course_code"`
	Title      string    `json:"title"`
	Credits    string    `json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type groupResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Intake       string    `json:"intake"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type lecturerResp struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type studentResp struct {
	ID        uint64 `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	GroupID   uint64 `json:"group_id"`
	GroupName string `json:"group_name"`
}

func roomJSON(r *model.Room) roomResp {
	return roomResp{
		ID:        r.ID,
		Building:  r.Building,
		Hall:      r.Hall,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func courseJSON(c *model.Course) courseResp {
	return courseResp{
		ID:         c.ID,
		CourseCode: c.CourseCode,
		Title:      c.Title,
		Credits:    c.Credits,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func groupJSON(g *model.Group) groupResp {
	return groupResp{
		ID:           g.ID,
		Name:         g.Name,
		Intake:       g.Intake,
		StudentCount: g.StudentCount,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func lecturerJSON(l *model.Lecturer) lecturerResp {
	return lecturerResp{ID: l.ID, FullName: l.FullName, Email: l.Email}
}

func studentJSON(s *model.Student) studentResp {
	return studentResp{
		ID:        s.ID,
		FullName:  s.FullName,
		Email:     s.Email,
		GroupID:   s.GroupID,
		GroupName: s.GroupName,
	}
}

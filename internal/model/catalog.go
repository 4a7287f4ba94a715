package model

import "time"

// Room is a physical location where lessons take place.  Rooms are the
// capacity-bearing resource of the scheduler: the students of every group
// assigned to a lesson must fit into the room.
//
// Fields:
//  ID        – primary key identifier.
//  Building  – building name (unique together with Hall).
//  Hall      – hall/room label within the building.
//  Capacity  – maximum number of students the room holds.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    // rooms.id
	Building  string    // rooms.building
	Hall      string    // rooms.hall
	Capacity  int       // rooms.capacity
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}

// Label renders the display form used in messages and API payloads,
// e.g. "Main Building - A1".
func (r Room) Label() string {
	return r.Building + " - " + r.Hall
}

// Course holds the academic course details a lesson teaches.
//
// Fields:
//  ID         – primary key identifier.
//  CourseCode – unique short code (e.g. SE101).
//  Title      – full course title.
//  Credits    – credit value as recorded by the registry.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Course struct {
	ID         uint64    // courses.id
	CourseCode string    // courses.course_code
	Title      string    // courses.title
	Credits    string    // courses.credits
	CreatedAt  time.Time // courses.created_at
	UpdatedAt  time.Time // courses.updated_at
}

// Group is a student cohort (e.g. SE401, BC210).  Lessons are assigned to
// one or more groups; the group's student count feeds the room capacity
// check.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – unique cohort name.
//  Intake       – intake/term label.
//  StudentCount – number of students currently in the group.  Populated by
//                 list queries; zero when the row was read without the count.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Group struct {
	ID           uint64    // student_groups.id
	Name         string    // student_groups.name
	Intake       string    // student_groups.intake
	StudentCount int       // derived: COUNT(students)
	CreatedAt    time.Time // student_groups.created_at
	UpdatedAt    time.Time // student_groups.updated_at
}

// Lecturer links a LECTURER user to their teaching identity.
//
// Fields:
//  ID        – primary key identifier (referenced by lessons).
//  UserID    – owning user account.
//  FullName  – display name used in schedules and notifications.
//  Email     – account email; populated by joined reads.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Lecturer struct {
	ID        uint64    // lecturers.id
	UserID    uint64    // lecturers.user_id
	FullName  string    // lecturers.full_name
	Email     string    // derived: users.email
	CreatedAt time.Time // lecturers.created_at
	UpdatedAt time.Time // lecturers.updated_at
}

// Student links a STUDENT user to their cohort.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user account.
//  FullName  – display name.
//  Email     – account email; populated by joined reads.
//  GroupID   – cohort the student belongs to.
//  GroupName – cohort name; populated by joined reads.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Student struct {
	ID        uint64    // students.id
	UserID    uint64    // students.user_id
	FullName  string    // students.full_name
	Email     string    // derived: users.email
	GroupID   uint64    // students.group_id
	GroupName string    // derived: student_groups.name
	CreatedAt time.Time // students.created_at
	UpdatedAt time.Time // students.updated_at
}

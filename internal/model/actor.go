package model

// Actor is the resolved identity of an authenticated request: the user id
// and role from the access token plus the profile row behind them (the
// lecturer id for lecturers, the group for students).  It is resolved once
// per request by the identity middleware so that handlers and queries never
// re-derive role-specific scoping on their own.
type Actor struct {
	UserID     uint64
	Role       string
	LecturerID uint64 // set when Role is LECTURER and a profile row exists
	GroupID    uint64 // set when Role is STUDENT and a profile row exists
	GroupName  string // the student's group name, used for snapshot matching
}

// Visibility scope kinds.  ScopeNone matches nothing and is the resolution
// for accounts whose profile row is missing.
const (
	ScopeAll      = "ALL"
	ScopeLecturer = "LECTURER"
	ScopeGroup    = "GROUP"
	ScopeNone     = "NONE"
)

// Visibility is the single scoping value consumed by lesson and
// notification queries.  Exactly one of the three role variants applies:
// admins see everything, lecturers see what they teach, students see what
// is assigned to their group.
type Visibility struct {
	Scope      string
	LecturerID uint64
	GroupID    uint64
	GroupName  string
}

// AdminVisibility sees every lesson and every notification.
func AdminVisibility() Visibility { return Visibility{Scope: ScopeAll} }

// LecturerVisibility sees lessons taught by the given lecturer and the
// notifications still referencing those lessons.
func LecturerVisibility(lecturerID uint64) Visibility {
	return Visibility{Scope: ScopeLecturer, LecturerID: lecturerID}
}

// StudentVisibility sees lessons assigned to the given group and the
// notifications whose group-names snapshot contains it.  Matching on the
// snapshot keeps cancellation notices visible after the lesson row is gone.
func StudentVisibility(groupID uint64, groupName string) Visibility {
	return Visibility{Scope: ScopeGroup, GroupID: groupID, GroupName: groupName}
}

// NoVisibility matches nothing.
func NoVisibility() Visibility { return Visibility{Scope: ScopeNone} }

// Visibility maps the actor onto its scoping variant.
func (a Actor) Visibility() Visibility {
	switch a.Role {
	case RoleAdmin:
		return AdminVisibility()
	case RoleLecturer:
		if a.LecturerID == 0 {
			return NoVisibility()
		}
		return LecturerVisibility(a.LecturerID)
	case RoleStudent:
		if a.GroupID == 0 {
			return NoVisibility()
		}
		return StudentVisibility(a.GroupID, a.GroupName)
	}
	return NoVisibility()
}

// CanManageLessons reports whether the actor may write lessons at all.
func (a Actor) CanManageLessons() bool {
	return a.Role == RoleAdmin || a.Role == RoleLecturer
}

// CanManageLesson reports whether the actor may create, update or delete a
// lesson taught by the given lecturer: admins always, lecturers only for
// themselves.
func (a Actor) CanManageLesson(lecturerID uint64) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.Role == RoleLecturer && a.LecturerID != 0 && a.LecturerID == lecturerID
}

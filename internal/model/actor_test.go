package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/university-timetable/internal/model"
)

func Test_Visibility_ByRole(t *testing.T) {
	tests := []struct {
		name  string
		actor model.Actor
		want  model.Visibility
	}{
		{
			name:  "admin_sees_everything",
			actor: model.Actor{UserID: 1, Role: model.RoleAdmin},
			want:  model.Visibility{Scope: model.ScopeAll},
		},
		{
			name:  "lecturer_scoped_to_their_teaching",
			actor: model.Actor{UserID: 2, Role: model.RoleLecturer, LecturerID: 11},
			want:  model.Visibility{Scope: model.ScopeLecturer, LecturerID: 11},
		},
		{
			name:  "student_scoped_to_their_group",
			actor: model.Actor{UserID: 3, Role: model.RoleStudent, GroupID: 5, GroupName: "SE401"},
			want:  model.Visibility{Scope: model.ScopeGroup, GroupID: 5, GroupName: "SE401"},
		},
		{
			name:  "lecturer_without_profile_sees_nothing",
			actor: model.Actor{UserID: 4, Role: model.RoleLecturer},
			want:  model.Visibility{Scope: model.ScopeNone},
		},
		{
			name:  "student_without_group_sees_nothing",
			actor: model.Actor{UserID: 5, Role: model.RoleStudent},
			want:  model.Visibility{Scope: model.ScopeNone},
		},
		{
			name:  "unknown_role_sees_nothing",
			actor: model.Actor{UserID: 6, Role: "AUDITOR"},
			want:  model.Visibility{Scope: model.ScopeNone},
		},
		{
			name:  "zero_actor_sees_nothing",
			actor: model.Actor{},
			want:  model.Visibility{Scope: model.ScopeNone},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.actor.Visibility())
		})
	}
}

func Test_CanManageLessons(t *testing.T) {
	assert.True(t, model.Actor{Role: model.RoleAdmin}.CanManageLessons())
	assert.True(t, model.Actor{Role: model.RoleLecturer, LecturerID: 11}.CanManageLessons())
	assert.False(t, model.Actor{Role: model.RoleStudent, GroupID: 5}.CanManageLessons())
	assert.False(t, model.Actor{}.CanManageLessons())
}

func Test_CanManageLesson_OwnershipRules(t *testing.T) {
	admin := model.Actor{Role: model.RoleAdmin}
	lecturer := model.Actor{Role: model.RoleLecturer, LecturerID: 11}
	student := model.Actor{Role: model.RoleStudent, GroupID: 5}

	assert.True(t, admin.CanManageLesson(11), "admins manage any lesson")
	assert.True(t, admin.CanManageLesson(99))

	assert.True(t, lecturer.CanManageLesson(11), "lecturers manage their own lessons")
	assert.False(t, lecturer.CanManageLesson(12), "but nobody else's")

	assert.False(t, student.CanManageLesson(5))
	assert.False(t, model.Actor{Role: model.RoleLecturer}.CanManageLesson(0),
		"a lecturer with no profile row manages nothing")
}

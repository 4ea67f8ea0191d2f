package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchcms/models"
)

var allRoles = []Role{Admin, Editor, Pastor, Viewer}

func TestDecideNilPrincipal(t *testing.T) {
	for _, req := range []Requirement{Roles(), Roles(allRoles...), MainAdminOnly()} {
		assert.Equal(t, Unauthenticated, Decide(nil, req), req.String())
	}
}

func TestDecideMainAdminPassesEverything(t *testing.T) {
	for _, role := range allRoles {
		p := &Principal{UserID: "1", Role: role, IsMainAdmin: true}
		for _, req := range []Requirement{Roles(), Roles(Viewer), MainAdminOnly()} {
			assert.Equal(t, Allow, Decide(p, req), "%s %s", role, req)
		}
	}
}

func TestDecideMainAdminOnly(t *testing.T) {
	for _, role := range allRoles {
		p := &Principal{UserID: "1", Role: role}
		assert.Equal(t, Forbidden, Decide(p, MainAdminOnly()), role)
	}
}

func TestDecideRoleMembership(t *testing.T) {
	req := Roles(Admin, Editor)
	tests := []struct {
		role Role
		want Decision
	}{
		{Admin, Allow},
		{Editor, Allow},
		{Pastor, Forbidden},
		{Viewer, Forbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(&Principal{UserID: "u", Role: tt.role}, req))
		})
	}
}

func TestDecideEmptyRoleSet(t *testing.T) {
	for _, role := range allRoles {
		assert.Equal(t, Forbidden, Decide(&Principal{Role: role}, Roles()))
	}
	assert.Equal(t, Allow, Decide(&Principal{Role: Viewer, IsMainAdmin: true}, Roles()))
}

func TestDecideDoesNotMutatePrincipal(t *testing.T) {
	p := &Principal{UserID: "u", Role: Editor, Name: "Ed"}
	before := *p
	Decide(p, MainAdminOnly())
	Decide(p, Roles(Editor))
	assert.Equal(t, before, *p)
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Allow.Err())
	assert.True(t, errors.Is(Unauthenticated.Err(), models.ErrUnauthenticated))
	assert.True(t, errors.Is(Forbidden.Err(), models.ErrForbidden))
}

func TestParseRole(t *testing.T) {
	for _, role := range allRoles {
		got, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, got)
	}
	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestPolicyTable(t *testing.T) {
	tests := []struct {
		op      Operation
		allowed []Role
	}{
		{SettingsWrite, []Role{Admin, Editor}},
		{SettingsDisplayWrite, nil},
		{SermonCreate, []Role{Admin, Editor, Pastor}},
		{SermonEndLive, []Role{Admin, Editor, Pastor}},
		{PrayerList, []Role{Admin, Pastor}},
		{PrayerUpdate, []Role{Pastor}},
		{PrayerDelete, nil},
		{ContactList, []Role{Admin, Editor, Pastor}},
		{ContactDelete, nil},
		{PageCreate, nil},
		{PageUpdate, []Role{Admin, Editor}},
		{UserList, []Role{Admin}},
		{UserCreate, nil},
		{PastorUpdate, nil},
		{UploadCreate, []Role{Admin, Editor, Pastor}},
		{DashboardRead, allRoles},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			allowed := map[Role]bool{}
			for _, r := range tt.allowed {
				allowed[r] = true
			}
			for _, role := range allRoles {
				err := Check(&Principal{UserID: "u", Role: role}, tt.op)
				if allowed[role] {
					assert.NoError(t, err, role)
				} else {
					assert.True(t, errors.Is(err, models.ErrForbidden), role)
				}
			}
			assert.NoError(t, Check(&Principal{Role: Viewer, IsMainAdmin: true}, tt.op))
			assert.True(t, errors.Is(Check(nil, tt.op), models.ErrUnauthenticated))
		})
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	op := Operation("sermon.archive")
	assert.True(t, errors.Is(Check(&Principal{Role: Admin}, op), models.ErrForbidden))
	assert.NoError(t, Check(&Principal{Role: Admin, IsMainAdmin: true}, op))
}

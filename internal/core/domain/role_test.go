package domain

import (
	"errors"
	"testing"
)

func TestRole_SatisfiesIffPriorityAtLeastRequired(t *testing.T) {
	roles := DefaultRoles()
	for _, a := range roles {
		for _, b := range roles {
			want := a.Priority >= b.Priority
			if got := a.Satisfies(b); got != want {
				t.Fatalf("%s.Satisfies(%s) = %v, want %v", a.Name, b.Name, got, want)
			}
		}
	}
}

func TestRole_EveryRoleSatisfiesItself(t *testing.T) {
	for _, r := range DefaultRoles() {
		if !r.Satisfies(r) {
			t.Fatalf("%s does not satisfy itself", r.Name)
		}
	}
}

func TestRole_UserSatisfiesNothingAbove(t *testing.T) {
	for _, r := range []Role{RoleViewer, RoleEditor, RoleDeveloper, RoleAdministrator} {
		if RoleUser.Satisfies(r) {
			t.Fatalf("User must not satisfy %s", r.Name)
		}
	}
}

func TestRoleCatalog_IsValidRoleID(t *testing.T) {
	c := DefaultRoleCatalog()

	for id := int64(1); id <= 5; id++ {
		if !c.IsValidRoleID(id) {
			t.Fatalf("expected role id %d to be valid", id)
		}
	}
	for _, id := range []int64{0, -1, 6, 42} {
		if c.IsValidRoleID(id) {
			t.Fatalf("expected role id %d to be invalid", id)
		}
	}
}

func TestRoleCatalog_RolesSortedByPriority(t *testing.T) {
	c, err := NewRoleCatalog(RoleAdministrator, RoleUser, RoleEditor)
	if err != nil {
		t.Fatalf("NewRoleCatalog: %v", err)
	}

	got := c.Roles()
	if len(got) != 3 || got[0] != RoleUser || got[1] != RoleEditor || got[2] != RoleAdministrator {
		t.Fatalf("unexpected order: %+v", got)
	}

	got[0] = RoleDeveloper
	if c.Roles()[0] != RoleUser {
		t.Fatalf("Roles must return a copy")
	}
}

func TestRoleCatalog_Lookup(t *testing.T) {
	c := DefaultRoleCatalog()

	if r, ok := c.ByName(RoleNameEditor); !ok || r != RoleEditor {
		t.Fatalf("ByName(Editor) = %+v, %v", r, ok)
	}
	if r, ok := c.ByID(4); !ok || r != RoleDeveloper {
		t.Fatalf("ByID(4) = %+v, %v", r, ok)
	}
	if _, ok := c.ByName("Superuser"); ok {
		t.Fatalf("unexpected role Superuser")
	}
}

func TestNewRoleCatalog_Rejects(t *testing.T) {
	cases := map[string][]Role{
		"empty":              nil,
		"duplicate priority": {{ID: 1, Priority: 1, Name: "a"}, {ID: 2, Priority: 1, Name: "b"}},
		"duplicate id":       {{ID: 1, Priority: 1, Name: "a"}, {ID: 1, Priority: 2, Name: "b"}},
		"duplicate name":     {{ID: 1, Priority: 1, Name: "a"}, {ID: 2, Priority: 2, Name: "a"}},
		"zero priority":      {{ID: 1, Priority: 0, Name: "a"}},
	}

	for name, roles := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRoleCatalog(roles...); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

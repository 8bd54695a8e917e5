package domain

import (
	"fmt"
	"sort"
)

const (
	RoleNameUser          = "User"
	RoleNameViewer        = "Viewer"
	RoleNameEditor        = "Editor"
	RoleNameDeveloper     = "Developer"
	RoleNameAdministrator = "Administrator"
)

// Role is a named level in the access hierarchy. Higher priority grants more.
type Role struct {
	ID       int64  `json:"-"`
	Priority int    `json:"priority"`
	Name     string `json:"name"`
}

// The provisioned catalog, lowest to highest.
var (
	RoleUser          = Role{ID: 1, Priority: 1, Name: RoleNameUser}
	RoleViewer        = Role{ID: 2, Priority: 2, Name: RoleNameViewer}
	RoleEditor        = Role{ID: 3, Priority: 3, Name: RoleNameEditor}
	RoleDeveloper     = Role{ID: 4, Priority: 4, Name: RoleNameDeveloper}
	RoleAdministrator = Role{ID: 5, Priority: 5, Name: RoleNameAdministrator}
)

// DefaultRoles returns the five provisioned roles ordered by priority.
func DefaultRoles() []Role {
	return []Role{RoleUser, RoleViewer, RoleEditor, RoleDeveloper, RoleAdministrator}
}

// Satisfies reports whether r meets the required minimum role.
func (r Role) Satisfies(required Role) bool {
	return r.Priority >= required.Priority
}

// RoleCatalog is the immutable set of roles known to the process. Safe for
// concurrent reads.
type RoleCatalog struct {
	roles  []Role
	byID   map[int64]Role
	byName map[string]Role
}

// NewRoleCatalog validates roles and builds a catalog. IDs, names and
// priorities must be unique and priorities positive.
func NewRoleCatalog(roles ...Role) (*RoleCatalog, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: role catalog is empty", ErrConfiguration)
	}

	c := &RoleCatalog{
		roles:  make([]Role, 0, len(roles)),
		byID:   make(map[int64]Role, len(roles)),
		byName: make(map[string]Role, len(roles)),
	}
	priorities := make(map[int]struct{}, len(roles))

	for _, r := range roles {
		if r.Priority <= 0 {
			return nil, fmt.Errorf("%w: role %q has non-positive priority %d", ErrConfiguration, r.Name, r.Priority)
		}
		if _, dup := priorities[r.Priority]; dup {
			return nil, fmt.Errorf("%w: duplicate role priority %d", ErrConfiguration, r.Priority)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate role id %d", ErrConfiguration, r.ID)
		}
		if _, dup := c.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate role name %q", ErrConfiguration, r.Name)
		}
		priorities[r.Priority] = struct{}{}
		c.byID[r.ID] = r
		c.byName[r.Name] = r
		c.roles = append(c.roles, r)
	}

	sort.Slice(c.roles, func(i, j int) bool { return c.roles[i].Priority < c.roles[j].Priority })
	return c, nil
}

// DefaultRoleCatalog returns a catalog of DefaultRoles.
func DefaultRoleCatalog() *RoleCatalog {
	c, err := NewRoleCatalog(DefaultRoles()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Roles returns a copy of the catalog ordered by priority.
func (c *RoleCatalog) Roles() []Role {
	out := make([]Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// Satisfies reports whether actual meets the required role.
func (c *RoleCatalog) Satisfies(actual, required Role) bool {
	return actual.Satisfies(required)
}

// IsValidRoleID reports whether id names one of the catalog entries.
func (c *RoleCatalog) IsValidRoleID(id int64) bool {
	_, ok := c.byID[id]
	return ok
}

// ByID looks up a role by its identifier.
func (c *RoleCatalog) ByID(id int64) (Role, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// ByName looks up a role by its name.
func (c *RoleCatalog) ByName(name string) (Role, bool) {
	r, ok := c.byName[name]
	return r, ok
}

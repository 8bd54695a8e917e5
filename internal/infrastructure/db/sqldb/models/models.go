package models

import (
	"github.com/uptrace/bun"

	"github.com/portfolio/backend/internal/core/domain"
)

// Role is a row of the roles reference table.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID       int64  `bun:"id,pk"`
	Priority int    `bun:"priority,notnull,unique"`
	Name     string `bun:"name,notnull,unique"`
}

func (r *Role) ToDomain() domain.Role {
	if r == nil {
		return domain.Role{}
	}
	return domain.Role{ID: r.ID, Priority: r.Priority, Name: r.Name}
}

func RoleFromDomain(r domain.Role) *Role {
	return &Role{ID: r.ID, Priority: r.Priority, Name: r.Name}
}

// User is a row of the users table. Role is loaded through the role_id
// foreign key.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64  `bun:"id,pk,autoincrement"`
	Username       string `bun:"username,notnull,unique"`
	PasswordDigest string `bun:"password_digest,notnull"`
	FirstName      string `bun:"first_name,notnull"`
	LastName       string `bun:"last_name,notnull"`
	Email          string `bun:"email,notnull,unique"`
	RoleID         int64  `bun:"role_id,notnull"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id"`
}

func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:             u.ID,
		Username:       u.Username,
		PasswordDigest: u.PasswordDigest,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role.ToDomain(),
	}
}

func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:             u.ID,
		Username:       u.Username,
		PasswordDigest: u.PasswordDigest,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		RoleID:         u.Role.ID,
	}
}

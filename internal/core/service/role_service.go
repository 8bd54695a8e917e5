package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

type roleService struct {
	roles ports.RoleRepository
}

func NewRoleService(roles ports.RoleRepository) ports.RoleService {
	return &roleService{roles: roles}
}

// List returns the stored roles ordered by priority.
func (s *roleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx, ports.RoleFilter{})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Priority < roles[j].Priority })
	return roles, nil
}

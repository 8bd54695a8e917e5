package handler

import (
	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

// --- Request → Service input ---

func toAccountInput(req accountRequest) ports.AccountInput {
	return ports.AccountInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
}

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{
		AccountInput: toAccountInput(req.accountRequest),
		RoleID:       req.RoleID,
	}
}

func toUserFilter(q userListQuery) ports.UserFilter {
	return ports.UserFilter{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Email:     q.Email,
		RoleName:  q.RoleName,
	}
}

// --- Service result → HTTP response ---

func toRoleResponse(r domain.Role) roleResponse {
	return roleResponse{Priority: r.Priority, Name: r.Name}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      toRoleResponse(u.Role),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

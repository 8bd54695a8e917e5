package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/ports"
)

type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List returns the role catalog ordered by priority.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /authentication/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

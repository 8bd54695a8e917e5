package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/domain"
)

// loginService is the slice of ports.AuthService the handler needs.
type loginService interface {
	Login(ctx context.Context, username, password string) (*domain.AccessToken, error)
}

type AuthHandler struct {
	authService loginService
}

func NewAuthHandler(authService loginService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         login
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  tokenResponse
// @Failure      401       {object}  errorResponse
// @Router       /authentication/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidCredentials
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token.AccessToken, TokenType: token.TokenType})
}

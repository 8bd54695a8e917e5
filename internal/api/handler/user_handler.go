package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func bindAccount(c echo.Context) (accountRequest, error) {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return req, domain.Invalid("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func bindUser(c echo.Context) (userRequest, error) {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return req, domain.Invalid("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Register creates an account with the lowest role.
//
// @Summary      Register
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      accountRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /authentication/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	req, err := bindAccount(c)
	if err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Create creates an account with an explicit role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string       true  "Username"
// @Param        body      body      userRequest  true  "User details"
// @Success      201       {object}  userResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /authentication/users/{username} [post]
func (h *UserHandler) Create(c echo.Context) error {
	req, err := bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), c.Param("username"), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Me returns the caller's account.
//
// @Summary      Get your user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /authentication/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(p.User))
}

// List returns all users sorted by username.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        first_name  query     string  false  "Exact first name"
// @Param        last_name   query     string  false  "Exact last name"
// @Param        email       query     string  false  "Exact e-mail"
// @Param        role_name   query     string  false  "Role name"
// @Success      200         {array}   userResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /authentication/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q userListQuery
	if err := c.Bind(&q); err != nil {
		return domain.Invalid("invalid query")
	}

	users, err := h.service.List(c.Request().Context(), toUserFilter(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /authentication/users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe updates the caller's account. The role cannot be changed here.
//
// @Summary      Update your user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      accountRequest  true  "Account details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /authentication/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	req, err := bindAccount(c)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), p.Username(), toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update replaces a user's account, role included.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string       true  "Username"
// @Param        body      body      userRequest  true  "User details"
// @Success      200       {object}  userResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /authentication/users/{username} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	req, err := bindUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("username"), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteMe deletes the caller's account.
//
// @Summary      Delete your user
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /authentication/users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p.Username()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete deletes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /authentication/users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

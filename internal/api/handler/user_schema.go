package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type accountRequest struct {
	Username  string `json:"username"   validate:"required,max=64"`
	Password  string `json:"password"   validate:"required,min=1"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
}

type userRequest struct {
	accountRequest
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}

type roleResponse struct {
	Priority int    `json:"priority"`
	Name     string `json:"name"`
}

type userResponse struct {
	Username  string       `json:"username"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Role      roleResponse `json:"role"`
}

// userListQuery carries the GET /users filters.
type userListQuery struct {
	FirstName string `query:"first_name"`
	LastName  string `query:"last_name"`
	Email     string `query:"email"`
	RoleName  string `query:"role_name"`
}

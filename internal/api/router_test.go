package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/core/ports"
	"github.com/portfolio/backend/internal/core/security"
	"github.com/portfolio/backend/internal/core/service"
	"github.com/portfolio/backend/internal/core/uow"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb"
	"github.com/portfolio/backend/internal/infrastructure/db/sqldb/migrations"
)

// newTestServer wires the full stack on a private in-memory SQLite database
// and seeds alice (password "pw") with the given role.
func newTestServer(t *testing.T, aliceRole domain.Role) *echo.Echo {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqldb.Open(ctx, fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close(db) })
	_, err = migrations.Migrate(ctx, db)
	require.NoError(t, err)

	roleRepo := sqldb.NewRoleRepository(db)
	roles, err := roleRepo.List(ctx, ports.RoleFilter{})
	require.NoError(t, err)
	catalog, err := domain.NewRoleCatalog(roles...)
	require.NoError(t, err)

	codec, err := security.NewTokenCodec("router-test-secret")
	require.NoError(t, err)

	log := zerolog.Nop()
	verifier := security.SHA256Verifier{}
	userRepo := sqldb.NewUserRepository(db)
	users := service.NewUserService(userRepo, uow.NewManager(sqldb.NewBeginner(db), log), verifier, catalog, log)

	_, err = users.Create(ctx, "alice", ports.UserInput{
		AccountInput: ports.AccountInput{
			Username:  "alice",
			Password:  "pw",
			FirstName: "Alice",
			LastName:  "Liddell",
			Email:     "alice@example.com",
		},
		RoleID: aliceRole.ID,
	})
	require.NoError(t, err)

	e, err := NewRouter(Dependencies{
		Auth:    service.NewAuthService(userRepo, codec, verifier, catalog, log),
		Users:   users,
		Roles:   service.NewRoleService(roleRepo),
		Catalog: catalog,
		Pingers: map[string]ports.Pinger{"sql": sqldb.NewPinger(db)},
		Log:     log,
	})
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(e *echo.Echo, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/authentication/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestScenario_LoginThenGatedOperations(t *testing.T) {
	e := newTestServer(t, domain.RoleEditor)

	rec := login(e, "alice", "pw")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	// Viewer-gated read succeeds for an Editor.
	rec = do(e, http.MethodGet, "/authentication/users/alice", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice@example.com", decode(t, rec)["email"])

	// Administrator-gated delete is refused and has no effect.
	rec = do(e, http.MethodDelete, "/authentication/users/alice", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.ErrInsufficientPermission.Error(), decode(t, rec)["error"])

	rec = do(e, http.MethodGet, "/authentication/users/me", token, "")
	assert.Equal(t, http.StatusOK, rec.Code, "alice must still exist")
}

func TestScenario_WrongPassword(t *testing.T) {
	e := newTestServer(t, domain.RoleEditor)

	for _, creds := range [][2]string{{"alice", "wrong"}, {"nobody", "pw"}, {"alice", ""}} {
		rec := login(e, creds[0], creds[1])
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

		body := decode(t, rec)
		assert.Equal(t, "Incorrect username or password", body["error"])
		assert.NotContains(t, body, "access_token")
	}
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	e := newTestServer(t, domain.RoleUser)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := do(e, http.MethodGet, "/authentication/users/me", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
}

func TestRouter_RegisterLoginAndRoleGates(t *testing.T) {
	e := newTestServer(t, domain.RoleAdministrator)

	account := `{"username":"bob","password":"secret","first_name":"Bob","last_name":"Builder","email":"bob@example.com"}`
	rec := do(e, http.MethodPost, "/authentication/users", "", account)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	role, _ := decode(t, rec)["role"].(map[string]any)
	assert.Equal(t, domain.RoleNameUser, role["name"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(e, http.MethodPost, "/authentication/users", "", account)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username bob already exists", decode(t, rec)["error"])

	rec = login(e, "bob", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	bob, _ := decode(t, rec)["access_token"].(string)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/authentication/users/me", bob, "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/authentication/users/alice", bob, "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/authentication/roles", bob, "").Code)

	rec = login(e, "alice", "pw")
	require.Equal(t, http.StatusOK, rec.Code)
	admin, _ := decode(t, rec)["access_token"].(string)

	rec = do(e, http.MethodGet, "/authentication/roles", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var roles []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	require.Len(t, roles, 5)
	assert.Equal(t, domain.RoleNameUser, roles[0]["name"])
	assert.Equal(t, domain.RoleNameAdministrator, roles[4]["name"])

	promote := `{"username":"bob","password":"secret","first_name":"Bob","last_name":"Builder","email":"bob@example.com","role_id":2}`
	rec = do(e, http.MethodPatch, "/authentication/users/bob", admin, promote)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	role, _ = decode(t, rec)["role"].(map[string]any)
	assert.Equal(t, domain.RoleNameViewer, role["name"])

	// Roles are re-read per request, so bob's existing token now passes the Viewer gate.
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/authentication/users/alice", bob, "").Code)

	rec = do(e, http.MethodGet, "/authentication/users?role_name=Viewer", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "bob", listed[0]["username"])

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/authentication/users/bob", admin, "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/authentication/users/bob", admin, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/authentication/users/me", bob, "").Code,
		"token of a deleted user must be rejected")
}

func TestRouter_UpdateMe(t *testing.T) {
	e := newTestServer(t, domain.RoleUser)

	rec := login(e, "alice", "pw")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decode(t, rec)["access_token"].(string)

	mismatch := `{"username":"mallory","password":"pw","first_name":"A","last_name":"L","email":"alice@example.com"}`
	assert.Equal(t, http.StatusConflict, do(e, http.MethodPatch, "/authentication/users/me", token, mismatch).Code)

	update := `{"username":"alice","password":"pw2","first_name":"Alice","last_name":"Kingsleigh","email":"alice@example.com"}`
	rec = do(e, http.MethodPatch, "/authentication/users/me", token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Kingsleigh", body["last_name"])
	role, _ := body["role"].(map[string]any)
	assert.Equal(t, domain.RoleNameUser, role["name"], "role is kept on self-update")

	assert.Equal(t, http.StatusUnauthorized, login(e, "alice", "pw").Code)
	assert.Equal(t, http.StatusOK, login(e, "alice", "pw2").Code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestServer(t, domain.RoleUser)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", "").Code)

	rec := do(e, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = do(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewRouter_RejectsIncompleteCatalog(t *testing.T) {
	catalog, err := domain.NewRoleCatalog(domain.RoleUser, domain.RoleAdministrator)
	require.NoError(t, err)

	_, err = NewRouter(Dependencies{Catalog: catalog, Log: zerolog.Nop()})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

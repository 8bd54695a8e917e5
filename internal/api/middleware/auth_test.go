package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/backend/internal/core/domain"
)

type stubAuthenticator struct {
	principal *domain.Principal
	err       error
	gotToken  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	alice := &domain.Principal{
		User:      &domain.User{Username: "alice", Role: domain.RoleViewer},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	authn := &stubAuthenticator{principal: alice}
	c, rec := newContext("Bearer tok.en.value")

	called := false
	handler := Authenticate(authn)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok || p.Username() != "alice" {
			t.Fatalf("principal not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if authn.gotToken != "tok.en.value" {
		t.Fatalf("token passed = %q", authn.gotToken)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	authn := &stubAuthenticator{principal: &domain.Principal{User: &domain.User{Username: "alice"}}}
	c, _ := newContext("bearer abc")

	if err := Authenticate(authn)(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if authn.gotToken != "abc" {
		t.Fatalf("token passed = %q", authn.gotToken)
	}
}

func TestAuthenticate_RejectsBadHeaders(t *testing.T) {
	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Token abc",
		"no token":     "Bearer ",
		"no space":     "Bearerabc",
	} {
		t.Run(name, func(t *testing.T) {
			authn := &stubAuthenticator{}
			c, _ := newContext(header)

			handler := Authenticate(authn)(func(echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if authn.gotToken != "" {
				t.Fatalf("authenticator must not be called")
			}
		})
	}
}

func TestAuthenticate_PropagatesAuthenticatorError(t *testing.T) {
	authn := &stubAuthenticator{err: domain.ErrUnauthenticated}
	c, _ := newContext("Bearer ghost")

	handler := Authenticate(authn)(func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, ok := PrincipalFrom(c); ok {
		t.Fatalf("principal must not be set")
	}
}

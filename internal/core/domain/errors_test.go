package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("get user: %w", NotFound("User with username '%s' not found", "bob"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("did not expect ErrConflict")
	}

	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error in chain")
	}
	if de.Detail != "User with username 'bob' not found" {
		t.Fatalf("unexpected detail %q", de.Detail)
	}
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("%w: users.email", ErrIntegrityConflict)
	err := Conflict("E-Mail '%s' already exists", "a@b.c").Wrap(cause)

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict")
	}
	if !errors.Is(err, ErrIntegrityConflict) {
		t.Fatalf("expected cause ErrIntegrityConflict to stay reachable")
	}
}

func TestError_EmptyDetailFallsBackToKind(t *testing.T) {
	err := &Error{Kind: ErrInvalidInput}
	if err.Error() != ErrInvalidInput.Error() {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestConstraintError_MatchesIntegrityConflict(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: users.username")
	err := fmt.Errorf("insert user: %w", &ConstraintError{Field: FieldUsername, Err: cause})

	if !errors.Is(err, ErrIntegrityConflict) {
		t.Fatalf("expected ErrIntegrityConflict")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("driver cause must stay in the chain")
	}

	var ce *ConstraintError
	if !errors.As(err, &ce) || ce.Field != FieldUsername {
		t.Fatalf("expected username constraint, got %v", err)
	}
}

func TestConstraintField(t *testing.T) {
	cases := map[string]string{
		"UNIQUE constraint failed: users.username": FieldUsername,
		"UNIQUE constraint failed: users.email":    FieldEmail,
		"users_username_key":                       FieldUsername,
		"users_email_key":                          FieldEmail,
		"FOREIGN KEY constraint failed":            "",
		"":                                         "",
	}
	for msg, want := range cases {
		if got := ConstraintField(msg); got != want {
			t.Errorf("ConstraintField(%q) = %q, want %q", msg, got, want)
		}
	}
}

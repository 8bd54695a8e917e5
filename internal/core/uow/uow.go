// Package uow implements the transaction scope every mutating operation runs
// in. A backend supplies sessions through a Beginner; Manager owns the
// commit/rollback discipline so every backend behaves the same:
//
//   - body error   → rollback, body error returned unchanged
//   - commit error → rollback, error matching domain.ErrIntegrityConflict
//   - body panic   → rollback, panic continues
//
// Exactly one of commit or rollback happens per scope and the session is
// released on every path.
package uow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/backend/internal/core/domain"
	"github.com/portfolio/backend/internal/pkg/metrics"
)

// State is the lifecycle of one scope.
type State int

const (
	StateOpen State = iota
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is a transaction handle acquired for one scope.
type Session interface {
	// Context returns ctx carrying the transaction for repositories.
	Context() context.Context
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Release frees the underlying handle. Called once, after commit or rollback.
	Release(ctx context.Context)
}

// Beginner acquires sessions.
type Beginner interface {
	Begin(ctx context.Context) (Session, error)
}

// BeginnerFunc adapts a function to Beginner.
type BeginnerFunc func(ctx context.Context) (Session, error)

func (f BeginnerFunc) Begin(ctx context.Context) (Session, error) { return f(ctx) }

type activeKey struct{}

// Active reports whether ctx belongs to an open scope.
func Active(ctx context.Context) bool {
	_, ok := ctx.Value(activeKey{}).(struct{})
	return ok
}

// Manager runs transaction scopes against one backend.
type Manager struct {
	begin Beginner
	log   zerolog.Logger
}

// NewManager returns a Manager drawing sessions from begin.
func NewManager(begin Beginner, log zerolog.Logger) *Manager {
	return &Manager{begin: begin, log: log}
}

// WithinTransaction runs fn in a new scope. Scopes do not nest: calling it
// with a ctx that already belongs to a scope returns domain.ErrNestedTransaction.
func (m *Manager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if Active(ctx) {
		return domain.ErrNestedTransaction
	}

	started := time.Now()
	sess, err := m.begin.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	s := &scope{session: sess, state: StateOpen}
	// Cleanup must outlive a cancelled request so a disconnected caller
	// still gets its rollback.
	cleanupCtx := context.WithoutCancel(ctx)

	defer func() {
		sess.Release(cleanupCtx)
		m.observe(s, started)
	}()
	defer func() {
		if r := recover(); r != nil {
			s.rollback(cleanupCtx, m.log)
			panic(r)
		}
	}()

	if err := fn(context.WithValue(sess.Context(), activeKey{}, struct{}{})); err != nil {
		s.rollback(cleanupCtx, m.log)
		return err
	}

	if err := sess.Commit(ctx); err != nil {
		s.commitFailed = true
		s.rollback(cleanupCtx, m.log)
		// A commit cut short by the caller is not a data conflict.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("commit: %w", ctxErr)
		}
		return fmt.Errorf("%w: commit: %w", domain.ErrIntegrityConflict, err)
	}
	s.state = StateCommitted
	return nil
}

func (m *Manager) observe(s *scope, started time.Time) {
	outcome := s.state.String()
	if s.commitFailed {
		outcome = "commit_failed"
	}
	metrics.TransactionsTotal.WithLabelValues(outcome).Inc()
	metrics.TransactionDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())

	m.log.Debug().
		Str("outcome", outcome).
		Dur("duration", time.Since(started)).
		Msg("transaction scope closed")
}

type scope struct {
	session      Session
	state        State
	commitFailed bool
}

// rollback moves an open scope to rolled_back. A rollback error is logged;
// the caller's error is what surfaces.
func (s *scope) rollback(ctx context.Context, log zerolog.Logger) {
	if s.state != StateOpen {
		return
	}
	s.state = StateRolledBack
	if err := s.session.Rollback(ctx); err != nil {
		log.Warn().Err(err).Msg("transaction rollback failed")
	}
}

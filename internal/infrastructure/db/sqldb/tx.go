package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/portfolio/backend/internal/core/uow"
)

type txKey struct{}

// Conn returns the transaction carried by ctx, or db when there is none.
// Repositories run every statement through it.
func Conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}

// Beginner opens bun transactions for the unit-of-work manager.
type Beginner struct {
	db *bun.DB
}

func NewBeginner(db *bun.DB) *Beginner {
	return &Beginner{db: db}
}

func (b *Beginner) Begin(ctx context.Context) (uow.Session, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &session{tx: tx, ctx: context.WithValue(ctx, txKey{}, tx)}, nil
}

type session struct {
	tx  bun.Tx
	ctx context.Context
}

func (s *session) Context() context.Context { return s.ctx }

func (s *session) Commit(context.Context) error {
	if err := s.tx.Commit(); err != nil {
		return translate(err)
	}
	return nil
}

// A tx already finished by database/sql, e.g. after its context was
// cancelled, counts as rolled back.
func (s *session) Rollback(context.Context) error {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// database/sql returns the connection to the pool on commit or rollback.
func (s *session) Release(context.Context) {}

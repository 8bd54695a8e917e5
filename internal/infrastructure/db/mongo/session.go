package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portfolio/backend/internal/core/uow"
)

// Beginner opens multi-document transactions. The server must run as a
// replica set.
type Beginner struct {
	client *mongo.Client
}

func NewBeginner(client *mongo.Client) *Beginner {
	return &Beginner{client: client}
}

func (b *Beginner) Begin(ctx context.Context) (uow.Session, error) {
	sess, err := b.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if err := sess.StartTransaction(); err != nil {
		sess.EndSession(ctx)
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	return &session{sess: sess, ctx: mongo.NewSessionContext(ctx, sess)}, nil
}

type session struct {
	sess mongo.Session
	ctx  context.Context
	// committed is set once CommitTransaction has been attempted. The server
	// refuses an abort after that point and EndSession discards any remainder.
	committed bool
}

func (s *session) Context() context.Context { return s.ctx }

func (s *session) Commit(ctx context.Context) error {
	s.committed = true
	return integrity(s.sess.CommitTransaction(ctx))
}

func (s *session) Rollback(ctx context.Context) error {
	if s.committed {
		return nil
	}
	return s.sess.AbortTransaction(ctx)
}

func (s *session) Release(ctx context.Context) {
	s.sess.EndSession(ctx)
}

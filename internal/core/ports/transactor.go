package ports

import "context"

// Transactor runs fn inside a single unit of work. fn receives a context that
// carries the active transaction; repositories must use that context.
//
// If fn returns an error the unit is rolled back and the error is returned
// unchanged. If the commit fails the unit is rolled back and the returned
// error matches domain.ErrIntegrityConflict.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InTransaction is WithinTransaction for bodies that produce a value.
func InTransaction[T any](ctx context.Context, tr Transactor, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := tr.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

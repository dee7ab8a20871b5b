package repository

import "context"

type Store interface {
	Ping(ctx context.Context) error
	Close()
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Savepoint runs fn inside the transaction carried by ctx and rolls back
	// only fn's writes when it fails. Without a transaction in ctx it behaves
	// like WithTx.
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

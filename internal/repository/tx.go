package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Transactor runs fn so that every store write made through the context
// passed to fn commits or rolls back together.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txContextKey struct{}

type gormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translateError maps driver-level errors onto the repository sentinels.
// The *gorm.DB must be opened with TranslateError enabled.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// undoLog collects compensations for in-memory writes made inside a
// memory transaction.
type undoLog struct {
	steps []func()
}

func (l *undoLog) rollback() {
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
}

// recordUndo registers step on the memory transaction bound to ctx, if any.
func recordUndo(ctx context.Context, step func()) {
	if l, ok := ctx.Value(txContextKey{}).(*undoLog); ok {
		l.steps = append(l.steps, step)
	}
}

type memoryTransactor struct{}

// NewMemoryTransactor returns a Transactor for the in-memory stores. Writes
// made inside a failed transaction are reverted in reverse order.
func NewMemoryTransactor() Transactor {
	return memoryTransactor{}
}

func (memoryTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txContextKey{}).(*undoLog); nested {
		return fn(ctx)
	}
	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txContextKey{}, log)); err != nil {
		log.rollback()
		return err
	}
	return nil
}

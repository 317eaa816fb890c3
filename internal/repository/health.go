package repository

import (
	"context"

	"gorm.io/gorm"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type gormPinger struct {
	db *gorm.DB
}

func NewGormPinger(db *gorm.DB) Pinger {
	return &gormPinger{db: db}
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type memoryPinger struct{}

func NewMemoryPinger() Pinger { return memoryPinger{} }

func (memoryPinger) Ping(context.Context) error { return nil }

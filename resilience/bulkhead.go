package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrFull is returned when no slot is free and waiting is disabled.
	ErrFull = errors.New("bulkhead is full")
	// ErrWaitTimeout is returned when no slot freed up within MaxWait.
	ErrWaitTimeout = errors.New("bulkhead wait timed out")
)

// DefaultMaxConcurrent applies when BulkheadConfig.MaxConcurrent is unset.
const DefaultMaxConcurrent = 2

// BulkheadConfig sizes a Bulkhead.
type BulkheadConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" json:"max_concurrent"`
	// MaxWait is how long a caller may queue for a slot. Zero rejects at once.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait" json:"max_wait"`
}

func (c *BulkheadConfig) ApplyDefaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
}

func (c *BulkheadConfig) Validate() error {
	if c.MaxWait < 0 {
		return fmt.Errorf("max_wait must not be negative (got %s)", c.MaxWait)
	}
	return nil
}

// Bulkhead admits at most MaxConcurrent callers at a time.
type Bulkhead struct {
	name     string
	cfg      BulkheadConfig
	sem      *semaphore.Weighted
	inUse    atomic.Int64
	onReject func(name string, err error)
}

func NewBulkhead(name string, cfg BulkheadConfig) *Bulkhead {
	cfg.ApplyDefaults()
	return &Bulkhead{
		name: name,
		cfg:  cfg,
		sem:  semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

// OnReject registers fn to be called with every rejection. It must be set
// before the bulkhead is shared.
func (b *Bulkhead) OnReject(fn func(name string, err error)) *Bulkhead {
	b.onReject = fn
	return b
}

// Do runs fn once a slot is free. A caller that gives up waiting gets
// ErrFull, ErrWaitTimeout or the error of ctx.
func (b *Bulkhead) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.acquire(ctx); err != nil {
		if b.onReject != nil {
			b.onReject(b.name, err)
		}
		return err
	}
	b.inUse.Add(1)
	defer func() {
		b.inUse.Add(-1)
		b.sem.Release(1)
	}()
	return fn(ctx)
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	if b.sem.TryAcquire(1) {
		return nil
	}
	if b.cfg.MaxWait <= 0 {
		return ErrFull
	}
	waitCtx, cancel := context.WithTimeout(ctx, b.cfg.MaxWait)
	defer cancel()
	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrWaitTimeout
	}
	return nil
}

// Run is Do for functions that return a value.
func Run[T any](ctx context.Context, b *Bulkhead, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := b.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// IsRejected reports whether err means the caller never got a slot.
func IsRejected(err error) bool {
	return errors.Is(err, ErrFull) || errors.Is(err, ErrWaitTimeout)
}

func (b *Bulkhead) Name() string { return b.name }

// InUse is the number of callers currently holding a slot.
func (b *Bulkhead) InUse() int { return int(b.inUse.Load()) }

// Capacity is the number of slots.
func (b *Bulkhead) Capacity() int { return b.cfg.MaxConcurrent }

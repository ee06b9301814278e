// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package arena

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrExhausted is returned when an execution context cannot satisfy an
// allocation request. It is fatal for the invocation that triggered it.
var ErrExhausted = errors.New("arena: block allocator exhausted")

// Context is the block allocator of one execution context, host or device.
// It accounts the bytes reserved by all arenas bound to it and enforces
// the configured limit.
//
// A Context is safe for concurrent use.
type Context struct {
	cfg     Config
	used    atomic.Uint64
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger, the default is zap.L() at construction time.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics sets the prometheus collectors, the default records nothing.
func WithMetrics(m *Metrics) Option {
	return func(c *Context) {
		c.metrics = m
	}
}

// NewContext returns a new execution context for cfg.
func NewContext(cfg Config, opts ...Option) *Context {
	c := &Context{
		cfg: cfg.withDefaults(),
		log: zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("context", c.cfg.Name))
	return c
}

// Name returns the context name.
func (c *Context) Name() string {
	return c.cfg.Name
}

// Limit returns the byte limit, 0 means unbounded.
func (c *Context) Limit() uint64 {
	return c.cfg.LimitBytes
}

// Used returns the bytes currently reserved.
func (c *Context) Used() uint64 {
	return c.used.Load()
}

// Alloc reserves size bytes from the context.
// It returns an error wrapping [ErrExhausted] if the limit would be exceeded,
// nothing is reserved in that case.
func (c *Context) Alloc(size uint64) error {
	for {
		used := c.used.Load()
		next := used + size

		if c.cfg.LimitBytes != 0 && next > c.cfg.LimitBytes {
			c.metrics.exhausted(c.cfg.Name)
			c.log.Error("block allocator exhausted",
				zap.Uint64("requested", size),
				zap.Uint64("used", used),
				zap.Uint64("limit", c.cfg.LimitBytes))

			return errors.Wrapf(ErrExhausted, "context %q: requested %d bytes, %d of %d in use",
				c.cfg.Name, size, used, c.cfg.LimitBytes)
		}

		if c.used.CompareAndSwap(used, next) {
			c.metrics.setReserved(c.cfg.Name, next)
			return nil
		}
	}
}

// release returns size bytes to the context.
func (c *Context) release(size uint64) {
	used := c.used.Add(^(size - 1))
	c.metrics.setReserved(c.cfg.Name, used)
}

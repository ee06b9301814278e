// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"sync/atomic"

	"github.com/gaissmai/snode"
	"github.com/gaissmai/snode/arena"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	rows    = 4
	cellCap = 64
)

// cell holds the values appended under one (row, sub-index) pair.
type cell[P snode.Exec] struct {
	snode.Dynamic[float32, [cellCap]float32, P]
}

// grid is Root -> Dense[rows] -> Hashed -> cell.
type grid[P snode.Exec] struct {
	root  snode.Root[snode.Dense[snode.Hashed[cell[P], P], [rows]snode.Hashed[cell[P], P]]]
	cells *arena.Arena[cell[P]]
}

// task is one visit of a cell.
type task struct {
	row, sub int
}

// Stats summarizes a finished workload.
type Stats struct {
	Exec      string
	Cells     int
	Leaves    int
	Sum       float64
	Overflows int64
	UsedBytes uint64
	Blocks    int
}

type benchMetrics struct {
	appends *prometheus.CounterVec
	leaves  prometheus.Gauge
}

type bench struct {
	cfg     Config
	log     *zap.Logger
	reg     *prometheus.Registry
	actx    *arena.Context
	metrics benchMetrics

	overflows atomic.Int64
}

func newBench(cfg Config, log *zap.Logger, reg *prometheus.Registry) *bench {
	f := promauto.With(reg)

	return &bench{
		cfg: cfg,
		log: log,
		reg: reg,
		actx: arena.NewContext(cfg.Context,
			arena.WithLogger(log),
			arena.WithMetrics(arena.NewMetrics(reg)),
		),
		metrics: benchMetrics{
			appends: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snode",
				Subsystem: "bench",
				Name:      "appends_total",
				Help:      "Values appended to cells, by result.",
			}, []string{"result"}),
			leaves: f.NewGauge(prometheus.GaugeOpts{
				Namespace: "snode",
				Subsystem: "bench",
				Name:      "leaves",
				Help:      "Leaves visited by the last walk.",
			}),
		},
	}
}

func (b *bench) run(ctx context.Context, device bool) (Stats, error) {
	if device {
		return runGrid[snode.Device](ctx, b)
	}
	return runGrid[snode.Host](ctx, b)
}

// tasks returns the visits of one round, every sub-index under every row.
func (b *bench) tasks() []task {
	subs := b.cfg.Workload.SubIndices
	ts := make([]task, 0, rows*len(subs))
	for r := range rows {
		for _, j := range subs {
			ts = append(ts, task{r, j})
		}
	}
	return ts
}

// value is what gets appended for t, the walk checks it back.
func value(row, sub int) float32 {
	return float32(row*1000 + sub)
}

func runGrid[P snode.Exec](ctx context.Context, b *bench) (Stats, error) {
	var p P
	g := &grid[P]{cells: arena.New[cell[P]](b.actx)}
	log := b.log.With(zap.Stringer("exec", p))

	ts := b.tasks()
	for round := range b.cfg.Workload.Rounds {
		if _, device := any(p).(snode.Device); device {
			// activation phase
			if err := b.fanOut(ctx, ts, func(t task) error {
				return g.root.Child().At(t.row).Activate(g.cells, t.sub)
			}); err != nil {
				return Stats{}, errors.WithMessagef(err, "round %d: activate", round)
			}
		}

		// lookup phase, activates on the host
		if err := b.fanOut(ctx, ts, func(t task) error {
			c, err := g.root.Child().At(t.row).LookUp(g.cells, t.sub)
			if err != nil {
				return err
			}
			if c == nil {
				return errors.Errorf("cell (%d, %d) not active", t.row, t.sub)
			}
			b.fill(c, value(t.row, t.sub))
			return nil
		}); err != nil {
			return Stats{}, errors.WithMessagef(err, "round %d: lookup", round)
		}

		log.Debug("round done", zap.Int("round", round), zap.Int("cells", g.cells.Len()))
	}

	stats, err := walk(g)
	if err != nil {
		return stats, err
	}
	stats.Exec = p.String()
	stats.Overflows = b.overflows.Swap(0)
	stats.UsedBytes = b.actx.Used()
	stats.Blocks = g.cells.Blocks()
	b.metrics.leaves.Set(float64(stats.Leaves))

	return stats, nil
}

// fanOut hands the tasks round robin to the configured workers.
func (b *bench) fanOut(ctx context.Context, ts []task, fn func(task) error) error {
	eg, ctx := errgroup.WithContext(ctx)

	n := b.cfg.Workload.Workers
	for w := range n {
		eg.Go(func() error {
			for k := w; k < len(ts); k += n {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ts[k]); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return eg.Wait()
}

// fill appends the configured number of values, a full cell is counted, not fatal.
func (b *bench) fill(c interface{ Append(float32) (int, error) }, v float32) {
	for range b.cfg.Workload.Appends {
		if _, err := c.Append(v); err != nil {
			if errors.Is(err, snode.ErrCapacity) {
				b.overflows.Add(1)
				b.metrics.appends.WithLabelValues("capacity").Inc()
				continue
			}
			b.log.Warn("append failed", zap.Error(err))
			continue
		}
		b.metrics.appends.WithLabelValues("ok").Inc()
	}
}

// walk visits every leaf as a LeafContext and reduces them.
func walk[P snode.Exec](g *grid[P]) (Stats, error) {
	var stats Stats

	for i, col := range g.root.Child().All(nil) {
		for j, c := range col.All(g.cells) {
			stats.Cells++
			for k, v := range c.All(nil) {
				lc, err := snode.NewLeafContext(v, i, j, k)
				if err != nil {
					return stats, err
				}
				if want := value(lc.Index(0), lc.Index(1)); *lc.Ptr != want {
					return stats, errors.Errorf("leaf %v holds %v, want %v", lc.Indices[:3], *lc.Ptr, want)
				}
				stats.Leaves++
				stats.Sum += float64(*lc.Ptr)
			}
		}
	}

	return stats, nil
}

// report logs the stats and the gathered metrics.
func (b *bench) report(s Stats) {
	b.log.Info("workload done",
		zap.String("exec", s.Exec),
		zap.Int("cells", s.Cells),
		zap.Int("leaves", s.Leaves),
		zap.Float64("sum", s.Sum),
		zap.Int64("overflows", s.Overflows),
		zap.Uint64("used_bytes", s.UsedBytes),
		zap.Int("blocks", s.Blocks),
	)

	mfs, err := b.reg.Gather()
	if err != nil {
		b.log.Warn("gathering metrics", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}

			fields := []zap.Field{zap.String("name", mf.GetName()), zap.Float64("value", v)}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			b.log.Info("metric", fields...)
		}
	}
}

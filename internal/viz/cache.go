package viz

import (
	"github.com/san-kum/infodiff/internal/config"
	"github.com/san-kum/infodiff/internal/diffusion"
)

const defaultCacheSize = 64

type runKey struct {
	params  diffusion.Params
	initial diffusion.Compartments
	horizon float64
	step    float64
}

func keyOf(cfg *config.Config) runKey {
	return runKey{
		params:  cfg.Params(),
		initial: cfg.GetInitState(),
		horizon: cfg.Horizon,
		step:    cfg.Step,
	}
}

type run struct {
	traj    *diffusion.Trajectory
	summary diffusion.Summary
}

// runCache is a bounded FIFO memo of completed runs. Cached trajectories are
// only read by the view, never mutated.
type runCache struct {
	size    int
	entries map[runKey]run
	order   []runKey
}

func newRunCache(size int) *runCache {
	if size < 1 {
		size = 1
	}
	return &runCache{
		size:    size,
		entries: make(map[runKey]run, size),
		order:   make([]runKey, 0, size),
	}
}

func (c *runCache) get(k runKey) (run, bool) {
	r, ok := c.entries[k]
	return r, ok
}

func (c *runCache) put(k runKey, r run) {
	if _, ok := c.entries[k]; ok {
		c.entries[k] = r
		return
	}
	if len(c.order) == c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = r
	c.order = append(c.order, k)
}

func (c *runCache) len() int { return len(c.entries) }

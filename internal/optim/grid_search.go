package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

// Objective picks one number out of a run's summary.
type Objective string

const (
	PeakI     Objective = "peak_i"
	PeakTime  Objective = "peak_time"
	TerminalR Objective = "terminal_r"
)

func (o Objective) Of(s diffusion.Summary) (float64, error) {
	switch o {
	case PeakI:
		return s.PeakI, nil
	case PeakTime:
		return s.PeakTime, nil
	case TerminalR:
		return s.TerminalR, nil
	default:
		return 0, fmt.Errorf("%w: unknown objective %q", dynamo.ErrInvalidParameter, string(o))
	}
}

// MaxCells caps the number of simulations one search may run.
const MaxCells = 100_000

// Point is one evaluated grid cell.
type Point struct {
	Params  diffusion.Params
	Summary diffusion.Summary
}

// GridSearch evaluates every combination of the listed parameter values.
// Unlisted parameters keep the base values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
	log        *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		workers:    runtime.GOMAXPROCS(0),
		log:        zap.NewNop(),
	}
}

func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n > 0 {
		g.workers = n
	}
	return g
}

func (g *GridSearch) WithLogger(log *zap.Logger) *GridSearch {
	if log != nil {
		g.log = log
	}
	return g
}

func setParam(p *diffusion.Params, name string, v float64) error {
	switch name {
	case "beta":
		p.Beta = v
	case "gamma":
		p.Gamma = v
	case "theta":
		p.Theta = v
	case "rho":
		p.Rho = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidParameter, name)
	}
	return nil
}

func (g *GridSearch) combinations(base diffusion.Params) ([]diffusion.Params, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%w: %d parameter names for %d ranges", dynamo.ErrInvalidParameter, len(g.paramNames), len(g.ranges))
	}

	cells := 1
	for depth, vals := range g.ranges {
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", dynamo.ErrInvalidParameter, g.paramNames[depth])
		}
		if cells > MaxCells/len(vals) {
			return nil, fmt.Errorf("%w: grid exceeds %d cells", dynamo.ErrInvalidParameter, MaxCells)
		}
		cells *= len(vals)
	}

	combos := []diffusion.Params{base}
	for depth, name := range g.paramNames {
		next := make([]diffusion.Params, 0, len(combos)*len(g.ranges[depth]))
		for _, p := range combos {
			for _, val := range g.ranges[depth] {
				cp := p
				if err := setParam(&cp, name, val); err != nil {
					return nil, err
				}
				next = append(next, cp)
			}
		}
		combos = next
	}
	return combos, nil
}

// Run simulates every grid cell concurrently. Results come back in grid
// order, the last parameter varying fastest. The first failing cell cancels
// the rest.
func (g *GridSearch) Run(ctx context.Context, base diffusion.Params, horizon, step float64, x0 diffusion.Compartments) ([]Point, error) {
	combos, err := g.combinations(base)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(combos))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, p := range combos {
		i, p := i, p
		eg.Go(func() error {
			tr, err := diffusion.SimulateContext(ctx, p, horizon, step, x0)
			if err != nil {
				return err
			}
			summary, err := diffusion.Summarize(tr)
			if err != nil {
				return err
			}
			points[i] = Point{Params: p, Summary: summary}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.log.Debug("grid evaluated", zap.Int("cells", len(points)), zap.Int("workers", g.workers))
	return points, nil
}

// Best returns the cell with the smallest objective, or the largest when
// maximize is set. Ties keep the earlier cell.
func Best(points []Point, obj Objective, maximize bool) (Point, float64, error) {
	if len(points) == 0 {
		return Point{}, 0, dynamo.ErrInvalidInput
	}

	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	bestIdx := -1

	for i, pt := range points {
		val, err := obj.Of(pt.Summary)
		if err != nil {
			return Point{}, 0, err
		}
		if (maximize && val > best) || (!maximize && val < best) {
			best, bestIdx = val, i
		}
	}

	if bestIdx < 0 {
		return Point{}, 0, fmt.Errorf("%w: no comparable objective values", dynamo.ErrInvalidInput)
	}
	return points[bestIdx], best, nil
}

// Rank sorts a copy of points by objective, best first.
func Rank(points []Point, obj Objective, maximize bool) ([]Point, error) {
	if _, err := obj.Of(diffusion.Summary{}); err != nil {
		return nil, err
	}

	ranked := append([]Point(nil), points...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, _ := obj.Of(ranked[i].Summary)
		b, _ := obj.Of(ranked[j].Summary)
		if maximize {
			return a > b
		}
		return a < b
	})
	return ranked, nil
}

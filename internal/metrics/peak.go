package metrics

import (
	"math"

	"github.com/san-kum/infodiff/internal/dynamo"
)

// Peak records the maximum of one state component over a run.
type Peak struct {
	name  string
	index int
	max   float64
}

func NewPeak(name string, index int) *Peak {
	return &Peak{name: name, index: index, max: math.Inf(-1)}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index >= len(x) {
		return
	}
	if x[p.index] > p.max {
		p.max = x[p.index]
	}
}

func (p *Peak) Value() float64 {
	if math.IsInf(p.max, -1) {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = math.Inf(-1)
}

package metrics

import (
	"math"

	"github.com/san-kum/infodiff/internal/dynamo"
)

// ConservationDrift tracks the largest deviation of the summed state from a
// fixed total. For a closed compartmental model the total is 1.
type ConservationDrift struct {
	name     string
	total    float64
	maxDrift float64
	samples  int
}

func NewConservationDrift(total float64) *ConservationDrift {
	return &ConservationDrift{
		name:  "conservation_drift",
		total: total,
	}
}

func (c *ConservationDrift) Name() string { return c.name }

func (c *ConservationDrift) Observe(x dynamo.State, t float64) {
	c.samples++
	drift := math.Abs(x.Sum() - c.total)
	if math.IsNaN(drift) {
		c.maxDrift = math.Inf(1)
		return
	}
	c.maxDrift = math.Max(c.maxDrift, drift)
}

func (c *ConservationDrift) Value() float64 {
	return c.maxDrift
}

func (c *ConservationDrift) Reset() {
	c.maxDrift = 0
	c.samples = 0
}

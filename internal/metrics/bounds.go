package metrics

import (
	"github.com/san-kum/infodiff/internal/dynamo"
)

// Boundedness reports the fraction of samples whose components all lie in
// [lower, upper]. Values below 1 flag step sizes too coarse for the rates.
type Boundedness struct {
	name         string
	lower, upper float64
	violations   int
	samples      int
}

func NewBoundedness(lower, upper float64) *Boundedness {
	return &Boundedness{
		name:  "boundedness",
		lower: lower,
		upper: upper,
	}
}

func (b *Boundedness) Name() string {
	return b.name
}

func (b *Boundedness) Observe(x dynamo.State, t float64) {
	b.samples++
	for _, val := range x {
		if !(val >= b.lower && val <= b.upper) {
			b.violations++
			break
		}
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}

package diffusion

// Point is one sample of a trajectory.
type Point struct {
	Time float64 `json:"time"`
	S    float64 `json:"s"`
	I    float64 `json:"i"`
	R    float64 `json:"r"`
}

// Compartments drops the time coordinate.
func (p Point) Compartments() Compartments {
	return Compartments{S: p.S, I: p.I, R: p.R}
}

// Column names one series of a trajectory table.
type Column int

const (
	ColumnTime Column = iota
	ColumnS
	ColumnI
	ColumnR
)

// Columns lists the table columns in display order.
var Columns = []Column{ColumnTime, ColumnS, ColumnI, ColumnR}

func (c Column) String() string {
	switch c {
	case ColumnTime:
		return "time"
	case ColumnS:
		return "S"
	case ColumnI:
		return "I"
	case ColumnR:
		return "R"
	default:
		return "unknown"
	}
}

func (c Column) of(p Point) float64 {
	switch c {
	case ColumnS:
		return p.S
	case ColumnI:
		return p.I
	case ColumnR:
		return p.R
	default:
		return p.Time
	}
}

// Trajectory is the full output of one run. It is never shared between
// runs; callers own it.
type Trajectory struct {
	Params  Params             `json:"params"`
	Initial Compartments       `json:"initial"`
	Horizon float64            `json:"horizon"`
	Step    float64            `json:"step"`
	Points  []Point            `json:"points"`
	Health  map[string]float64 `json:"health,omitempty"`
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Points)
}

// Series copies one column out as a slice, in time order.
func (tr *Trajectory) Series(c Column) []float64 {
	out := make([]float64, tr.Len())
	for i := range out {
		out[i] = c.of(tr.Points[i])
	}
	return out
}

func (tr *Trajectory) Times() []float64 { return tr.Series(ColumnTime) }

// Last returns the final sample. ok is false for an empty trajectory.
func (tr *Trajectory) Last() (Point, bool) {
	if tr.Len() == 0 {
		return Point{}, false
	}
	return tr.Points[len(tr.Points)-1], true
}

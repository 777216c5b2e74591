package diffusion

import "github.com/san-kum/infodiff/internal/dynamo"

const (
	idxS = iota
	idxI
	idxR
	stateDim
)

// Model is the extended SIR right-hand side as a dynamo.System.
type Model struct {
	Params Params
}

func NewModel(p Params) *Model {
	return &Model{Params: p}
}

func (m *Model) StateDim() int { return stateDim }

func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	s, i, r := x[idxS], x[idxI], x[idxR]

	infection := m.Params.Beta * m.Params.Theta * s * i
	forgetting := m.Params.Gamma * i
	reentry := m.Params.Rho * r

	dx := make(dynamo.State, stateDim)
	dx[idxS] = -infection + reentry
	dx[idxI] = infection - forgetting
	dx[idxR] = forgetting - reentry
	return dx
}

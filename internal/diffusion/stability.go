package diffusion

import "fmt"

// Advisory flags a rate whose product with the step exceeds 1. Below that
// bound every Euler update keeps all three compartments non-negative.
type Advisory struct {
	Term    string
	Product float64
}

func (a Advisory) String() string {
	return fmt.Sprintf("%s*step = %.3f exceeds 1; compartments may leave [0, 1]", a.Term, a.Product)
}

// CheckStability never rejects a run. It only reports the terms at risk.
func CheckStability(p Params, step float64) []Advisory {
	var out []Advisory
	for _, term := range []struct {
		name string
		rate float64
	}{
		{"beta*theta", p.EffectiveTransmission()},
		{"gamma", p.Gamma},
		{"rho", p.Rho},
	} {
		if product := term.rate * step; product > 1 {
			out = append(out, Advisory{Term: term.name, Product: product})
		}
	}
	return out
}

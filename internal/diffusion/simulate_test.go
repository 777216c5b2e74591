package diffusion_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

var _ = Describe("Simulate", func() {
	reference := diffusion.Params{Beta: 0.3, Gamma: 0.2, Theta: 1.0, Rho: 0.05}

	mustSimulate := func(p diffusion.Params, horizon, step float64) *diffusion.Trajectory {
		tr, err := diffusion.Simulate(p, horizon, step, diffusion.DefaultInitial)
		Expect(err).NotTo(HaveOccurred())
		return tr
	}

	DescribeTable("conserves the total population at every sample",
		func(p diffusion.Params, horizon float64) {
			tr := mustSimulate(p, horizon, 0.1)
			for i, pt := range tr.Points {
				Expect(math.Abs(pt.S+pt.I+pt.R-1.0)).To(BeNumerically("<", 1e-9), "index %d", i)
			}
			Expect(tr.Health[diffusion.HealthConservationDrift]).To(BeNumerically("<", 1e-9))
		},
		Entry("reference", reference, 120.0),
		Entry("long horizon", reference, 365.0),
		Entry("fast persuasive spread", diffusion.Params{Beta: 1.0, Gamma: 0.05, Theta: 2.0, Rho: 0.5}, 365.0),
		Entry("no re-entry", diffusion.Params{Beta: 0.5, Gamma: 0.3, Theta: 1.2, Rho: 0}, 200.0),
		Entry("zero transmission", diffusion.Params{Beta: 0, Gamma: 0.4, Theta: 1.0, Rho: 0.1}, 60.0),
	)

	DescribeTable("starts exactly at the initial condition",
		func(p diffusion.Params, x0 diffusion.Compartments) {
			tr, err := diffusion.Simulate(p, 50, 0.1, x0)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Points[0]).To(Equal(diffusion.Point{Time: 0, S: x0.S, I: x0.I, R: x0.R}))
		},
		Entry("reference", reference, diffusion.DefaultInitial),
		Entry("all spreading", diffusion.Params{Beta: 1, Gamma: 1, Theta: 2, Rho: 0.5}, diffusion.Compartments{S: 0, I: 1, R: 0}),
		Entry("mixed", diffusion.Params{Beta: 0.05, Gamma: 0.9, Theta: 0.1, Rho: 0}, diffusion.Compartments{S: 0.5, I: 0.25, R: 0.25}),
	)

	DescribeTable("records ceil(horizon/step) evenly spaced samples",
		func(horizon, step float64) {
			tr := mustSimulate(reference, horizon, step)
			Expect(tr.Len()).To(Equal(int(math.Ceil(horizon / step))))
			for i := 1; i < tr.Len(); i++ {
				Expect(tr.Points[i].Time).To(BeNumerically(">", tr.Points[i-1].Time))
				Expect(tr.Points[i].Time).To(Equal(float64(i) * step))
			}
		},
		Entry("reference", 120.0, 0.1),
		Entry("one year", 365.0, 0.1),
		Entry("minimum horizon", 30.0, 0.1),
		Entry("non-integral ratio", 10.0, 0.3),
		Entry("step larger than horizon", 1.0, 2.0),
	)

	DescribeTable("without transmission I never grows and S never shrinks",
		func(p diffusion.Params) {
			tr := mustSimulate(p, 120, 0.1)
			for i := 1; i < tr.Len(); i++ {
				Expect(tr.Points[i].I).To(BeNumerically("<=", tr.Points[i-1].I))
				Expect(tr.Points[i].S).To(BeNumerically(">=", tr.Points[i-1].S))
			}
		},
		Entry("beta is zero", diffusion.Params{Beta: 0, Gamma: 0.2, Theta: 1.0, Rho: 0.05}),
		Entry("theta is zero", diffusion.Params{Beta: 0.3, Gamma: 0.2, Theta: 0, Rho: 0.05}),
		Entry("both zero, no re-entry", diffusion.Params{Beta: 0, Gamma: 0.5, Theta: 0, Rho: 0}),
	)

	DescribeTable("without re-entry R never decreases",
		func(p diffusion.Params) {
			tr := mustSimulate(p, 200, 0.1)
			for i := 1; i < tr.Len(); i++ {
				Expect(tr.Points[i].R).To(BeNumerically(">=", tr.Points[i-1].R))
			}
		},
		Entry("reference rates", diffusion.Params{Beta: 0.3, Gamma: 0.2, Theta: 1.0, Rho: 0}),
		Entry("strong persuasion", diffusion.Params{Beta: 1.0, Gamma: 0.05, Theta: 2.0, Rho: 0}),
	)

	Context("with the reference scenario", func() {
		var tr *diffusion.Trajectory

		BeforeEach(func() {
			tr = mustSimulate(reference, 120, 0.1)
		})

		It("begins at (0.95, 0.05, 0)", func() {
			Expect(tr.Points[0].S).To(Equal(0.95))
			Expect(tr.Points[0].I).To(Equal(0.05))
			Expect(tr.Points[0].R).To(Equal(0.0))
		})

		It("grows I on the first step", func() {
			Expect(tr.Points[1].I).To(BeNumerically(">", 0.05))
			Expect(tr.Points[1].I).To(BeNumerically("~", 0.050425, 1e-12))
		})

		It("peaks before the end above the initial level", func() {
			summary, err := diffusion.Summarize(tr)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.PeakI).To(BeNumerically(">", 0.05))
			Expect(summary.PeakTime).To(BeNumerically("<", tr.Points[tr.Len()-1].Time))
		})

		It("ends with R strictly inside (0, 1)", func() {
			summary, err := diffusion.Summarize(tr)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TerminalR).To(BeNumerically(">", 0))
			Expect(summary.TerminalR).To(BeNumerically("<", 1))

			peakR := tr.Health[diffusion.HealthPeakR]
			Expect(peakR).To(BeNumerically(">=", summary.TerminalR))

			monotonic := true
			for i := 1; i < tr.Len(); i++ {
				if tr.Points[i].R < tr.Points[i-1].R {
					monotonic = false
					break
				}
			}
			if !monotonic {
				Expect(summary.TerminalR).To(BeNumerically("<", peakR))
			}
		})

		It("stays within [0, 1]", func() {
			Expect(tr.Health[diffusion.HealthBoundedness]).To(Equal(1.0))
		})

		It("records the run inputs", func() {
			Expect(tr.Params).To(Equal(reference))
			Expect(tr.Initial).To(Equal(diffusion.DefaultInitial))
			Expect(tr.Horizon).To(Equal(120.0))
			Expect(tr.Step).To(Equal(0.1))
		})
	})

	It("is deterministic", func() {
		a := mustSimulate(reference, 120, 0.1)
		b := mustSimulate(reference, 120, 0.1)
		Expect(a.Points).To(Equal(b.Points))
	})

	It("returns independent trajectories", func() {
		a := mustSimulate(reference, 30, 0.1)
		b := mustSimulate(reference, 30, 0.1)
		a.Points[5].I = 42
		Expect(b.Points[5].I).NotTo(Equal(42.0))
	})

	It("does not clamp an unstable step", func() {
		tr, err := diffusion.Simulate(diffusion.Params{Beta: 0, Gamma: 1, Theta: 1, Rho: 0}, 30, 2.5, diffusion.DefaultInitial)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Points[1].I).To(BeNumerically("<", 0))
		Expect(tr.Health[diffusion.HealthBoundedness]).To(BeNumerically("<", 1.0))
	})

	DescribeTable("rejects invalid input without a trajectory",
		func(p diffusion.Params, horizon, step float64, x0 diffusion.Compartments) {
			tr, err := diffusion.Simulate(p, horizon, step, x0)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
			Expect(tr).To(BeNil())
		},
		Entry("negative beta", diffusion.Params{Beta: -0.1, Gamma: 0.2, Theta: 1, Rho: 0}, 120.0, 0.1, diffusion.DefaultInitial),
		Entry("negative gamma", diffusion.Params{Beta: 0.3, Gamma: -0.2, Theta: 1, Rho: 0}, 120.0, 0.1, diffusion.DefaultInitial),
		Entry("negative theta", diffusion.Params{Beta: 0.3, Gamma: 0.2, Theta: -1, Rho: 0}, 120.0, 0.1, diffusion.DefaultInitial),
		Entry("negative rho", diffusion.Params{Beta: 0.3, Gamma: 0.2, Theta: 1, Rho: -0.05}, 120.0, 0.1, diffusion.DefaultInitial),
		Entry("NaN beta", diffusion.Params{Beta: math.NaN(), Gamma: 0.2, Theta: 1, Rho: 0}, 120.0, 0.1, diffusion.DefaultInitial),
		Entry("zero horizon", reference, 0.0, 0.1, diffusion.DefaultInitial),
		Entry("negative horizon", reference, -5.0, 0.1, diffusion.DefaultInitial),
		Entry("zero step", reference, 120.0, 0.0, diffusion.DefaultInitial),
		Entry("negative step", reference, 120.0, -0.1, diffusion.DefaultInitial),
		Entry("infinite step", reference, 120.0, math.Inf(1), diffusion.DefaultInitial),
		Entry("infinite horizon", reference, math.Inf(1), 0.1, diffusion.DefaultInitial),
		Entry("horizon/step ratio past int range", reference, 1e10, 1e-10, diffusion.DefaultInitial),
		Entry("more samples than a run may hold", reference, 365.0, 1e-6, diffusion.DefaultInitial),
		Entry("initial out of range", reference, 120.0, 0.1, diffusion.Compartments{S: 1.2, I: -0.2, R: 0}),
		Entry("initial not summing to one", reference, 120.0, 0.1, diffusion.Compartments{S: 0.9, I: 0.05, R: 0}),
	)
})

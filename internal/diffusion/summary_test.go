package diffusion_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

var _ = Describe("Summarize", func() {
	It("rejects an empty trajectory", func() {
		_, err := diffusion.Summarize(&diffusion.Trajectory{})
		Expect(err).To(MatchError(dynamo.ErrInvalidInput))

		_, err = diffusion.Summarize(nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidInput))
	})

	It("finds the peak and terminal values", func() {
		tr := &diffusion.Trajectory{Points: []diffusion.Point{
			{Time: 0, S: 0.9, I: 0.1, R: 0},
			{Time: 1, S: 0.7, I: 0.2, R: 0.1},
			{Time: 2, S: 0.6, I: 0.15, R: 0.25},
		}}

		s, err := diffusion.Summarize(tr)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(diffusion.Summary{PeakI: 0.2, PeakTime: 1, TerminalR: 0.25}))
	})

	It("reports the earliest of equal maxima", func() {
		tr := &diffusion.Trajectory{Points: []diffusion.Point{
			{Time: 0, I: 0.1},
			{Time: 0.5, I: 0.3},
			{Time: 1.0, I: 0.2},
			{Time: 1.5, I: 0.3},
			{Time: 2.0, I: 0.1, R: 0.4},
		}}

		s, err := diffusion.Summarize(tr)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.PeakTime).To(Equal(0.5))
		Expect(s.PeakI).To(Equal(0.3))
		Expect(s.TerminalR).To(Equal(0.4))
	})

	It("handles a single sample", func() {
		tr := &diffusion.Trajectory{Points: []diffusion.Point{{Time: 0, S: 0.95, I: 0.05}}}

		s, err := diffusion.Summarize(tr)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(diffusion.Summary{PeakI: 0.05, PeakTime: 0, TerminalR: 0}))
	})

	It("formats for display", func() {
		f := diffusion.Summary{PeakI: 0.23456, PeakTime: 37.26, TerminalR: 0.5}.Format()
		Expect(f.PeakI).To(Equal("0.23"))
		Expect(f.PeakTime).To(Equal("37.3"))
		Expect(f.TerminalR).To(Equal("0.50"))
	})
})

var _ = Describe("Params", func() {
	It("computes the basic reproduction number", func() {
		Expect(diffusion.DefaultParams().R0()).To(BeNumerically("~", 1.5, 1e-12))
		Expect(diffusion.Params{Beta: 0.3, Theta: 1}.R0()).To(BeNumerically(">", 1e300))
	})

	It("flags step products above one", func() {
		Expect(diffusion.CheckStability(diffusion.DefaultParams(), 0.1)).To(BeEmpty())

		advisories := diffusion.CheckStability(diffusion.Params{Beta: 1, Gamma: 1, Theta: 2, Rho: 0.5}, 0.75)
		Expect(advisories).To(HaveLen(1))
		Expect(advisories[0].Term).To(Equal("beta*theta"))
		Expect(advisories[0].Product).To(BeNumerically("~", 1.5, 1e-12))
		Expect(advisories[0].String()).To(ContainSubstring("exceeds 1"))
	})
})

var _ = Describe("Trajectory", func() {
	tr := &diffusion.Trajectory{Points: []diffusion.Point{
		{Time: 0, S: 0.9, I: 0.1, R: 0},
		{Time: 0.1, S: 0.8, I: 0.15, R: 0.05},
	}}

	It("exposes columns", func() {
		Expect(tr.Series(diffusion.ColumnS)).To(Equal([]float64{0.9, 0.8}))
		Expect(tr.Series(diffusion.ColumnI)).To(Equal([]float64{0.1, 0.15}))
		Expect(tr.Series(diffusion.ColumnR)).To(Equal([]float64{0, 0.05}))
		Expect(tr.Times()).To(Equal([]float64{0, 0.1}))
	})

	It("names columns", func() {
		names := make([]string, 0, len(diffusion.Columns))
		for _, c := range diffusion.Columns {
			names = append(names, c.String())
		}
		Expect(names).To(Equal([]string{"time", "S", "I", "R"}))
	})

	It("returns the last point", func() {
		last, ok := tr.Last()
		Expect(ok).To(BeTrue())
		Expect(last.Compartments()).To(Equal(diffusion.Compartments{S: 0.8, I: 0.15, R: 0.05}))

		_, ok = (&diffusion.Trajectory{}).Last()
		Expect(ok).To(BeFalse())
	})
})

package fall_test

import (
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fallsim/internal/fall"
)

var _ = Describe("FreeFallSimulator", func() {
	var (
		sim    *fall.FreeFallSimulator
		params fall.Params
	)

	BeforeEach(func() {
		sim = fall.NewFreeFallSimulator()
		params = fall.Params{Mass: 1, Height: 10, Gravity: 9.8}
	})

	It("uses the default time step", func() {
		Expect(sim.TimeStep).To(Equal(fall.DefaultTimeStep))
		Expect(sim.LandingTime(params)).To(BeNumerically("~", 1.4286, 1e-4))
	})

	Context("dropping 1 kg from 10 m", func() {
		var traj fall.Trajectory

		BeforeEach(func() {
			var err error
			traj, err = sim.Simulate(params)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts at rest at the release height", func() {
			Expect(traj[0]).To(Equal(fall.Sample{Time: 0, Height: 10, Speed: 0}))
		})

		It("ends on the first sample at or past the landing time", func() {
			landing := sim.LandingTime(params)
			last := traj.Last()

			Expect(traj).To(HaveLen(144))
			Expect(last.Time).To(BeNumerically(">=", landing))
			Expect(last.Time).To(BeNumerically("<", landing+fall.DefaultTimeStep))
			Expect(last.Height).To(BeZero())
			Expect(traj[len(traj)-2].Time).To(BeNumerically("<", landing))
		})

		It("spaces samples by the time step", func() {
			for i := 1; i < len(traj); i++ {
				Expect(traj[i].Time - traj[i-1].Time).To(BeNumerically("~", fall.DefaultTimeStep, 1e-12))
			}
		})

		It("loses height and gains speed monotonically", func() {
			for i := 1; i < len(traj); i++ {
				Expect(traj[i].Height).To(BeNumerically("<=", traj[i-1].Height))
				Expect(traj[i].Speed).To(BeNumerically(">=", traj[i-1].Speed))
			}
		})

		It("follows v = g·t", func() {
			for _, s := range traj {
				Expect(s.Speed).To(BeNumerically("~", params.Gravity*s.Time, 1e-9))
			}
		})

		It("follows h = h0 - g·t²/2 before landing", func() {
			for _, s := range traj[:len(traj)-1] {
				Expect(s.Height).To(BeNumerically("~", 10-0.5*9.8*s.Time*s.Time, 1e-9))
			}
		})
	})

	It("ignores mass", func() {
		light, err := sim.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		params.Mass = 250
		heavy, err := sim.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		Expect(heavy).To(Equal(light))
	})

	It("honours a custom time step", func() {
		traj, err := fall.SimulateFreeFall(params, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(HaveLen(16))
		Expect(traj[1].Time).To(BeNumerically("~", 0.1, 1e-12))
	})

	DescribeTable("rejects non-positive parameters",
		func(p fall.Params, name string) {
			traj, err := sim.Simulate(p)
			Expect(traj).To(BeEmpty())
			Expect(errors.Is(err, fall.ErrInvalidParameter)).To(BeTrue())

			var perr *fall.ParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Name).To(Equal(name))
		},
		Entry("zero mass", fall.Params{Mass: 0, Height: 10, Gravity: 9.8}, "mass"),
		Entry("negative height", fall.Params{Mass: 1, Height: -1, Gravity: 9.8}, "height"),
		Entry("zero gravity", fall.Params{Mass: 1, Height: 10, Gravity: 0}, "gravity"),
		Entry("NaN height", fall.Params{Mass: 1, Height: math.NaN(), Gravity: 9.8}, "height"),
		Entry("infinite gravity", fall.Params{Mass: 1, Height: 10, Gravity: math.Inf(1)}, "gravity"),
	)

	It("rejects a non-positive time step", func() {
		_, err := fall.SimulateFreeFall(params, 0)
		var perr *fall.ParameterError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Name).To(Equal("time_step"))
	})

	It("refuses trajectories above the sample limit", func() {
		sim.MaxSamples = 10
		traj, err := sim.Simulate(params)
		Expect(traj).To(BeNil())
		Expect(err).To(MatchError(fall.ErrSampleLimit))
	})

	It("can be shared between goroutines", func() {
		want, err := sim.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		results := make([]fall.Trajectory, 8)
		for i := range results {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx], _ = sim.Simulate(params)
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			Expect(got).To(Equal(want))
		}
	})
})

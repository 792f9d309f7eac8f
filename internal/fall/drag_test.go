package fall_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fallsim/internal/fall"
)

var _ = Describe("DragFallSimulator", func() {
	var (
		sim    *fall.DragFallSimulator
		params fall.DragParams
	)

	BeforeEach(func() {
		sim = fall.NewDragFallSimulator()
		params = fall.DragParams{
			Params:          fall.Params{Mass: 1, Height: 10, Gravity: 9.8},
			AirDensity:      1.225,
			Area:            0.01,
			DragCoefficient: 0.47,
		}
	})

	It("derives the drag constants", func() {
		Expect(params.DragConstant()).To(BeNumerically("~", 0.00288, 1e-5))
		Expect(params.TerminalVelocity()).To(BeNumerically("~", 58.3, 0.1))

		tMax, err := params.LandingTime()
		Expect(err).NotTo(HaveOccurred())
		Expect(tMax).To(BeNumerically("~", 1.4354, 1e-3))
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

		It("ends exactly on the ground", func() {
			tMax, _ := params.LandingTime()
			last := traj.Last()

			Expect(traj).To(HaveLen(145))
			Expect(last.Height).To(Equal(0.0))
			Expect(last.Time).To(BeNumerically(">=", tMax))
			Expect(last.Time).To(BeNumerically("<", tMax+fall.DefaultTimeStep))
			for _, s := range traj[:len(traj)-1] {
				Expect(s.Height).To(BeNumerically(">", 0))
			}
		})

		It("lands close to the drag-free time", func() {
			free := fall.NewFreeFallSimulator().LandingTime(params.Params)
			Expect(traj.Duration()).To(BeNumerically("~", free, 0.02))
		})

		It("never exceeds the terminal velocity", func() {
			vt := params.TerminalVelocity()
			for _, s := range traj {
				Expect(s.Speed).To(BeNumerically("<=", vt))
			}
		})

		It("loses height and gains speed monotonically", func() {
			for i := 1; i < len(traj); i++ {
				Expect(traj[i].Height).To(BeNumerically("<=", traj[i-1].Height))
				Expect(traj[i].Speed).To(BeNumerically(">=", traj[i-1].Speed))
				Expect(traj[i].Time - traj[i-1].Time).To(BeNumerically("~", fall.DefaultTimeStep, 1e-12))
			}
		})

		It("is slower than the drag-free fall at every instant", func() {
			for _, s := range traj[1:] {
				Expect(s.Speed).To(BeNumerically("<", params.Gravity*s.Time))
			}
		})
	})

	It("approaches the terminal velocity on a long fall", func() {
		params = fall.DragParams{
			Params:          fall.Params{Mass: 80, Height: 2000, Gravity: 9.8},
			AirDensity:      1.225,
			Area:            0.7,
			DragCoefficient: 1.0,
		}
		traj, err := sim.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		vt := params.TerminalVelocity()
		Expect(traj.Last().Speed).To(BeNumerically(">", 0.99*vt))
		Expect(traj.Last().Speed).To(BeNumerically("<=", vt))
		Expect(traj.Last().Height).To(Equal(0.0))
	})

	It("matches free fall for a very heavy body", func() {
		params.Mass = 1e6
		tMax, err := params.LandingTime()
		Expect(err).NotTo(HaveOccurred())
		Expect(tMax).To(BeNumerically("~", 1.428571, 1e-5))
	})

	It("reports a numeric domain error when exp overflows", func() {
		params.Mass = 1e-3
		params.Height = 1e6
		params.Area = 1

		traj, err := sim.Simulate(params)
		Expect(traj).To(BeNil())
		Expect(errors.Is(err, fall.ErrNumericDomain)).To(BeTrue())

		var derr *fall.DomainError
		Expect(errors.As(err, &derr)).To(BeTrue())
		Expect(derr.Quantity).To(Equal("landing time"))
	})

	DescribeTable("rejects non-positive parameters",
		func(mutate func(*fall.DragParams), name string) {
			mutate(&params)
			traj, err := sim.Simulate(params)
			Expect(traj).To(BeEmpty())
			Expect(err).To(MatchError(fall.ErrInvalidParameter))

			var perr *fall.ParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Name).To(Equal(name))
		},
		Entry("zero mass", func(p *fall.DragParams) { p.Mass = 0 }, "mass"),
		Entry("negative height", func(p *fall.DragParams) { p.Height = -1 }, "height"),
		Entry("zero gravity", func(p *fall.DragParams) { p.Gravity = 0 }, "gravity"),
		Entry("zero air density", func(p *fall.DragParams) { p.AirDensity = 0 }, "air_density"),
		Entry("negative area", func(p *fall.DragParams) { p.Area = -0.01 }, "area"),
		Entry("zero drag coefficient", func(p *fall.DragParams) { p.DragCoefficient = 0 }, "drag_coefficient"),
	)

	It("rejects a non-positive time step", func() {
		_, err := fall.SimulateDragFall(params, -0.01)
		Expect(err).To(MatchError(fall.ErrInvalidParameter))
	})

	It("refuses trajectories above the sample limit", func() {
		sim.MaxSamples = 100
		_, err := sim.Simulate(params)
		Expect(err).To(MatchError(fall.ErrSampleLimit))
	})
})

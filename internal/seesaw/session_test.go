package seesaw_test

import (
	"math"
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/seesaw/internal/beam"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/store"
)

var _ = Describe("Session", func() {
	var (
		params beam.Params
		pivot  beam.Point
		s      *seesaw.Session
	)

	BeforeEach(func() {
		params = beam.DefaultParams()
		pivot = beam.Point{X: 400, Y: 300}
		s = seesaw.New(params, pivot, rand.New(rand.NewSource(1)))
	})

	settle := func() {
		for i := 0; i < 1000 && !s.Settled(); i++ {
			s.Tick()
		}
	}

	It("starts level with a valid next weight", func() {
		Expect(s.Angle()).To(BeZero())
		Expect(s.Target()).To(BeZero())
		Expect(s.Items()).To(BeEmpty())
		Expect(params.ValidWeight(s.NextWeight())).To(BeTrue())
	})

	Describe("dropping", func() {
		It("places the next weight and draws a new one", func() {
			w := s.NextWeight()
			it := s.DropLocal(120)

			Expect(it).To(Equal(beam.Item{Weight: w, Offset: 120}))
			Expect(s.Items()).To(ConsistOf(it))
			Expect(s.Totals().Right).To(Equal(float64(w)))
			Expect(s.Target()).To(BeNumerically("~", float64(w)*120/30, 1e-9))
		})

		It("clamps offsets past the beam end", func() {
			w := s.NextWeight()
			it := s.DropLocal(-10000)
			Expect(it.Offset).To(Equal(-(params.HalfLength() - beam.SizeForWeight(w, params)/2)))
		})

		It("logs newest first and caps the log", func() {
			for i := 0; i < params.LogLimit+5; i++ {
				s.DropLocal(float64(i - 20))
			}
			logs := s.Logs()
			Expect(logs).To(HaveLen(params.LogLimit))
			Expect(logs[0]).To(ContainSubstring("at 14px from center"))
			Expect(logs[0]).To(ContainSubstring("right side"))
		})

		It("ignores clicks that miss the plank", func() {
			_, ok := s.Drop(beam.Point{X: 450, Y: 300 + 40})
			Expect(ok).To(BeFalse())
			Expect(s.Items()).To(BeEmpty())
		})

		It("converts clicks through the current tilt", func() {
			s.DropLocal(200)
			settle()
			angle := s.Angle()
			Expect(angle).NotTo(BeZero())

			onPlank := beam.ToWorld(pivot, beam.Point{X: -150, Y: 3}, angle)
			it, ok := s.Drop(onPlank)
			Expect(ok).To(BeTrue())
			Expect(it.Offset).To(BeNumerically("~", -150, 1e-9))
		})

		It("treats a zero offset as right", func() {
			it := s.DropLocal(0)
			Expect(it.Side()).To(Equal("right"))
			Expect(s.Totals().Left).To(BeZero())
		})
	})

	Describe("the angle follower", func() {
		It("is balanced by equal opposing torque", func() {
			s.Restore(store.Record{Placed: []beam.Item{{Weight: 5, Offset: -100}, {Weight: 5, Offset: 100}}})
			Expect(s.Target()).To(BeZero())
		})

		It("saturates at the stop", func() {
			s.Restore(store.Record{Placed: []beam.Item{{Weight: 10, Offset: 200}}})
			Expect(s.Target()).To(Equal(30.0))
			settle()
			Expect(s.Angle()).To(Equal(30.0))
		})

		It("approaches without overshoot and stops moving once settled", func() {
			s.Restore(store.Record{Placed: []beam.Item{{Weight: 4, Offset: -150}}})
			target := s.Target()
			Expect(target).To(Equal(-20.0))

			prev := s.Angle()
			for i := 0; i < 1000 && !s.Settled(); i++ {
				s.Tick()
				Expect(s.Angle()).To(BeNumerically("<=", prev))
				Expect(s.Angle()).To(BeNumerically(">=", target))
				prev = s.Angle()
			}
			Expect(s.Angle()).To(Equal(target))
			Expect(s.Tick()).To(BeFalse())
		})
	})

	Describe("pointer handling", func() {
		It("coalesces moves until the next tick", func() {
			s.PointerMove(beam.Point{X: 100, Y: 300})
			s.PointerMove(beam.Point{X: 200, Y: 300})
			s.PointerMove(beam.Point{X: 520, Y: 290})
			Expect(s.Pending()).To(BeTrue())
			Expect(s.Ghost().Visible).To(BeFalse())

			Expect(s.Tick()).To(BeTrue())
			Expect(s.Pending()).To(BeFalse())

			g := s.Ghost()
			Expect(g.Visible).To(BeTrue())
			Expect(g.Local).To(BeNumerically("~", 120, 1e-9))
			Expect(g.World.Y).To(BeNumerically("~", 300, 1e-9))
			Expect(g.Marker.Y).To(BeNumerically("~", 300-params.GhostOffset, 1e-9))
		})

		It("keeps the ghost on the beam for the next weight", func() {
			s.PointerMove(beam.Point{X: 5000, Y: 300})
			s.Tick()
			safe := params.HalfLength() - beam.SizeForWeight(s.NextWeight(), params)/2
			Expect(s.Ghost().Local).To(BeNumerically("~", safe, 1e-9))
		})
	})

	Describe("Apply", func() {
		It("routes every event kind", func() {
			out := s.Apply(seesaw.DroppedAt{LocalX: -50})
			Expect(out.Persist).To(BeTrue())
			Expect(out.Dropped).NotTo(BeNil())
			Expect(out.Dropped.Offset).To(Equal(-50.0))

			Expect(s.Apply(seesaw.Ticked{}).Redraw).To(BeTrue())

			out = s.Apply(seesaw.Clicked{At: beam.Point{X: 0, Y: 0}})
			Expect(out.Dropped).To(BeNil())

			Expect(s.Apply(seesaw.PointerMoved{At: pivot}).Redraw).To(BeFalse())
			Expect(s.Pending()).To(BeTrue())

			out = s.Apply(seesaw.ResetRequested{})
			Expect(out.Cleared).To(BeTrue())
			Expect(s.Items()).To(BeEmpty())
			Expect(s.Logs()).To(BeEmpty())
			Expect(s.Angle()).To(BeZero())
		})
	})

	Describe("snapshots", func() {
		It("round-trips through Restore", func() {
			s.DropLocal(-80)
			s.DropLocal(33.5)
			snap := s.Snapshot()

			other := seesaw.New(params, pivot, rand.New(rand.NewSource(99)))
			other.Restore(snap)
			Expect(other.Items()).To(Equal(s.Items()))
			Expect(other.Logs()).To(Equal(s.Logs()))
			Expect(other.NextWeight()).To(Equal(s.NextWeight()))
			Expect(other.Target()).To(Equal(s.Target()))
			Expect(other.Angle()).To(BeZero())
		})

		It("drops invalid items on restore", func() {
			s.Restore(store.Record{
				Placed:     []beam.Item{{Weight: 0, Offset: 5}, {Weight: 11, Offset: 5}, {Weight: 2, Offset: 5}},
				Logs:       []string{"x"},
				NextWeight: 42,
			})
			Expect(s.Items()).To(Equal([]beam.Item{{Weight: 2, Offset: 5}}))
			Expect(params.ValidWeight(s.NextWeight())).To(BeTrue())
		})

		It("does not leak internal slices", func() {
			s.DropLocal(10)
			items := s.Items()
			items[0].Weight = 99
			Expect(s.Items()[0].Weight).NotTo(Equal(99))
			Expect(strings.Join(s.Logs(), "")).NotTo(BeEmpty())
			Expect(math.IsNaN(s.Target())).To(BeFalse())
		})
	})
})

var _ = Describe("SetNextWeight", func() {
	It("accepts only weights in range", func() {
		s := seesaw.New(beam.DefaultParams(), beam.Point{}, rand.New(rand.NewSource(3)))
		Expect(s.SetNextWeight(7)).To(BeTrue())
		Expect(s.NextWeight()).To(Equal(7))
		Expect(s.SetNextWeight(0)).To(BeFalse())
		Expect(s.SetNextWeight(11)).To(BeFalse())
		Expect(s.NextWeight()).To(Equal(7))
		Expect(s.DropLocal(1).Weight).To(Equal(7))
	})
})

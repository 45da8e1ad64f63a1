package drag_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/geom"
)

var _ = Describe("Override", func() {
	var (
		o        drag.Override
		position geom.Point
	)

	BeforeEach(func() {
		o = drag.New(30)
		position = geom.Pt(100, 100)
	})

	It("starts idle", func() {
		Expect(o.Phase()).To(Equal(drag.Idle))
		Expect(o.Dragging()).To(BeFalse())
	})

	Describe("pointer down", func() {
		It("starts a drag inside the radius", func() {
			Expect(o.PointerDown(drag.ButtonPrimary, geom.Pt(110, 120), position)).To(BeTrue())
			Expect(o.Dragging()).To(BeTrue())
		})

		It("treats the radius itself as a hit", func() {
			Expect(o.PointerDown(drag.ButtonPrimary, geom.Pt(130, 100), position)).To(BeTrue())
		})

		It("ignores presses outside the radius", func() {
			Expect(o.PointerDown(drag.ButtonPrimary, geom.Pt(131, 100), position)).To(BeFalse())
			Expect(o.Phase()).To(Equal(drag.Idle))
		})

		It("ignores non-primary buttons", func() {
			Expect(o.PointerDown(drag.ButtonSecondary, position, position)).To(BeFalse())
			Expect(o.Dragging()).To(BeFalse())
		})

		It("reports the start only once", func() {
			Expect(o.PointerDown(drag.ButtonPrimary, position, position)).To(BeTrue())
			Expect(o.PointerDown(drag.ButtonPrimary, position, position)).To(BeFalse())
			Expect(o.Dragging()).To(BeTrue())
		})
	})

	Describe("pointer move", func() {
		It("is ignored while idle", func() {
			_, ok := o.PointerMove(geom.Pt(5, 5))
			Expect(ok).To(BeFalse())
		})

		It("follows the pointer while dragging", func() {
			o.PointerDown(drag.ButtonPrimary, position, position)
			p, ok := o.PointerMove(geom.Pt(400, 250))
			Expect(ok).To(BeTrue())
			Expect(p).To(Equal(geom.Pt(400, 250)))
			Expect(o.Dragging()).To(BeTrue())
		})
	})

	Describe("pointer up", func() {
		It("ends the drag", func() {
			o.PointerDown(drag.ButtonPrimary, position, position)
			Expect(o.PointerUp(drag.ButtonPrimary)).To(BeTrue())
			Expect(o.Phase()).To(Equal(drag.Idle))
		})

		It("keeps dragging on a non-primary release", func() {
			o.PointerDown(drag.ButtonPrimary, position, position)
			Expect(o.PointerUp(drag.ButtonSecondary)).To(BeFalse())
			Expect(o.Dragging()).To(BeTrue())
		})

		It("is a no-op while idle", func() {
			Expect(o.PointerUp(drag.ButtonPrimary)).To(BeFalse())
			Expect(o.Phase()).To(Equal(drag.Idle))
		})
	})

	DescribeTable("phase names",
		func(p drag.Phase, want string) {
			Expect(p.String()).To(Equal(want))
		},
		Entry("idle", drag.Idle, "idle"),
		Entry("dragging", drag.Dragging, "dragging"),
		Entry("unknown", drag.Phase(7), "Phase(7)"),
	)
})

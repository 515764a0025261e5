package scene_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dronesim/internal/scene"
)

func TestScene(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scene Suite")
}

// recorder is an in-memory scene.Surface.
type recorder struct {
	lines    map[scene.LineID]scene.Segment
	polygons map[scene.PolygonID][]scene.Point
	glyphs   map[scene.GlyphHandle]scene.GlyphID
	next     scene.GlyphHandle
	peak     map[scene.GlyphID]int
	removed  int
}

func newRecorder() *recorder {
	return &recorder{
		lines:    make(map[scene.LineID]scene.Segment),
		polygons: make(map[scene.PolygonID][]scene.Point),
		glyphs:   make(map[scene.GlyphHandle]scene.GlyphID),
		peak:     make(map[scene.GlyphID]int),
	}
}

func (r *recorder) SetLine(id scene.LineID, s scene.Segment) { r.lines[id] = s }
func (r *recorder) ClearLine(id scene.LineID)                { delete(r.lines, id) }

func (r *recorder) SetPolygon(id scene.PolygonID, pts []scene.Point) {
	r.polygons[id] = append([]scene.Point(nil), pts...)
}

func (r *recorder) AddGlyph(id scene.GlyphID, g scene.Glyph) scene.GlyphHandle {
	r.next++
	r.glyphs[r.next] = id
	if n := r.count(id); n > r.peak[id] {
		r.peak[id] = n
	}
	return r.next
}

func (r *recorder) RemoveGlyph(h scene.GlyphHandle) {
	if _, ok := r.glyphs[h]; ok {
		r.removed++
	}
	delete(r.glyphs, h)
}

func (r *recorder) count(id scene.GlyphID) int {
	n := 0
	for _, g := range r.glyphs {
		if g == id {
			n++
		}
	}
	return n
}

var _ = Describe("Compute", func() {
	variants := map[string]scene.Options{
		"simple": scene.SimpleOptions(),
		"fill":   scene.FillOptions(),
	}

	for name, opts := range variants {
		opts := opts
		Context("with the "+name+" variant", func() {
			It("keeps the drone between heights 1 and 3", func() {
				for f := 0; f < 400; f++ {
					sc := scene.Compute(f, opts)
					Expect(sc.Drone.Y).To(BeNumerically(">=", 1))
					Expect(sc.Drone.Y).To(BeNumerically("<=", 3))
					Expect(sc.Drone.X).To(BeZero())
				}
			})

			It("keeps the body horizontal and centred", func() {
				for f := 0; f < 400; f += 7 {
					sc := scene.Compute(f, opts)
					Expect(sc.Body.A.Y).To(Equal(sc.Body.B.Y))
					Expect(sc.Body.Length()).To(BeNumerically("~", scene.DefaultDroneSize, 1e-12))
					Expect(sc.Body.Midpoint().X).To(BeNumerically("~", 0, 1e-12))
				}
			})

			It("couples the payload to the drone with a bounded offset", func() {
				for f := 0; f < 400; f++ {
					sc := scene.Compute(f, opts)
					want := sc.Drone.Y - scene.DefaultWireLength + 0.1*math.Cos(2*float64(f)/50-0.5)
					Expect(sc.Payload.Y).To(BeNumerically("~", want, 1e-12))
					offset := sc.Payload.Y - sc.Drone.Y
					Expect(offset).To(BeNumerically(">=", -scene.DefaultWireLength-0.1-1e-12))
					Expect(offset).To(BeNumerically("<=", -scene.DefaultWireLength+0.1+1e-12))
				}
			})

			It("translates the payload template without deforming it", func() {
				tmpl := scene.Template(scene.DefaultGeometry())
				for f := 0; f < 400; f += 3 {
					sc := scene.Compute(f, opts)
					for i := range tmpl {
						Expect(sc.Outer[i].X).To(BeNumerically("~", tmpl[i].X+sc.Payload.X, 1e-12))
						Expect(sc.Outer[i].Y).To(BeNumerically("~", tmpl[i].Y+sc.Payload.Y, 1e-12))
					}
				}
			})

			It("is bit-identical across reruns", func() {
				for _, f := range []int{0, 1, 25, 199, 399} {
					a, b := scene.Compute(f, opts), scene.Compute(f, opts)
					Expect(a).To(Equal(b))
				}
			})
		})
	}

	It("keeps the fill level within [0, 1]", func() {
		for f := 0; f < 2000; f++ {
			sc := scene.Compute(f, scene.FillOptions())
			Expect(sc.Fill).To(BeNumerically(">=", 0))
			Expect(sc.Fill).To(BeNumerically("<=", 1))
		}
	})
})

var _ = Describe("Apply", func() {
	It("never accumulates indicator glyphs", func() {
		for _, run := range []struct {
			opts   scene.Options
			frames int
		}{
			{scene.SimpleOptions(), 200},
			{scene.FillOptions(), 400},
		} {
			rec := newRecorder()
			ov := scene.Apply(rec, scene.Blank(run.opts), scene.Overlay{})
			Expect(rec.glyphs).To(BeEmpty())

			for f := 0; f < run.frames; f++ {
				ov = scene.Apply(rec, scene.Compute(f, run.opts), ov)
				Expect(rec.glyphs).To(HaveLen(2))
			}
			Expect(rec.peak[scene.GlyphAccel]).To(Equal(1))
			Expect(rec.peak[scene.GlyphPayload]).To(Equal(1))
			Expect(rec.removed).To(Equal(2 * (run.frames - 1)))
		}
	})

	It("clears segments for the blank scene and sets them afterwards", func() {
		rec := newRecorder()
		opts := scene.FillOptions()
		ov := scene.Apply(rec, scene.Blank(opts), scene.Overlay{})
		Expect(rec.lines).To(BeEmpty())
		Expect(rec.polygons).To(HaveKey(scene.PolygonInner))

		sc := scene.Compute(12, opts)
		scene.Apply(rec, sc, ov)
		Expect(rec.lines).To(HaveLen(len(scene.Lines)))
		Expect(rec.lines[scene.LineWire]).To(Equal(sc.Wire))
		Expect(rec.polygons[scene.PolygonInner]).To(Equal(sc.Inner[:]))
	})

	It("does not push an inner polygon for the simple variant", func() {
		rec := newRecorder()
		scene.Apply(rec, scene.Compute(0, scene.SimpleOptions()), scene.Overlay{})
		Expect(rec.polygons).NotTo(HaveKey(scene.PolygonInner))
		Expect(rec.polygons).To(HaveKey(scene.PolygonOuter))
	})
})

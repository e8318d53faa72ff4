package geometry

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/gogpu/jfa"
)

// Vec is a point in pixel space. Y grows downwards.
type Vec struct {
	X, Y float32
}

// Shape is a filled primitive that can be drawn into a scene.
type Shape interface {
	// outline adds the shape's closed contours to z.
	outline(z *vector.Rasterizer, frame uint64) error

	// fill returns the shape's color.
	fill() jfa.RGBA
}

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H float32
	Color      jfa.RGBA
}

func (r Rect) outline(z *vector.Rasterizer, _ uint64) error {
	if r.W <= 0 || r.H <= 0 {
		return nil
	}
	z.MoveTo(r.X, r.Y)
	z.LineTo(r.X+r.W, r.Y)
	z.LineTo(r.X+r.W, r.Y+r.H)
	z.LineTo(r.X, r.Y+r.H)
	z.ClosePath()
	return nil
}

func (r Rect) fill() jfa.RGBA { return r.Color }

// Triangle is a filled triangle. Winding does not matter.
type Triangle struct {
	A, B, C Vec
	Color   jfa.RGBA
}

func (t Triangle) outline(z *vector.Rasterizer, _ uint64) error {
	z.MoveTo(t.A.X, t.A.Y)
	z.LineTo(t.B.X, t.B.Y)
	z.LineTo(t.C.X, t.C.Y)
	z.ClosePath()
	return nil
}

func (t Triangle) fill() jfa.RGBA { return t.Color }

// Polygon is a closed polygon filled with the nonzero rule.
type Polygon struct {
	Points []Vec
	Color  jfa.RGBA
}

func (p Polygon) outline(z *vector.Rasterizer, _ uint64) error {
	if len(p.Points) < 3 {
		return nil
	}
	z.MoveTo(p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		z.LineTo(pt.X, pt.Y)
	}
	z.ClosePath()
	return nil
}

func (p Polygon) fill() jfa.RGBA { return p.Color }

// Scene is an ordered list of shapes. Later shapes are drawn over earlier
// ones. A Scene must not be modified while it is being rasterized.
type Scene struct {
	Shapes []Shape

	// Transform, if non-nil, returns the shapes for a frame instead of
	// Shapes, e.g. to animate them.
	Transform func(frame uint64, shapes []Shape) []Shape

	z   *vector.Rasterizer
	cov *image.Alpha
}

// NewScene returns a scene holding shapes.
func NewScene(shapes ...Shape) *Scene {
	return &Scene{Shapes: shapes}
}

// Add appends shapes to the scene.
func (s *Scene) Add(shapes ...Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Rasterize draws every shape into dst, blending each shape's color by its
// coverage. dst is not cleared first.
func (s *Scene) Rasterize(frame uint64, dst *jfa.Pixmap) error {
	if dst == nil {
		return errors.New("geometry: nil destination")
	}
	w, h := dst.Width(), dst.Height()
	if s.z == nil || s.z.Size() != (image.Point{X: w, Y: h}) {
		s.z = vector.NewRasterizer(w, h)
		s.cov = image.NewAlpha(image.Rect(0, 0, w, h))
	}

	shapes := s.Shapes
	if s.Transform != nil {
		shapes = s.Transform(frame, shapes)
	}
	for i, sh := range shapes {
		s.z.Reset(w, h)
		s.z.DrawOp = draw.Src
		if err := sh.outline(s.z, frame); err != nil {
			return fmt.Errorf("geometry: shape %d: %w", i, err)
		}
		clear(s.cov.Pix)
		s.z.Draw(s.cov, s.cov.Bounds(), image.Opaque, image.Point{})
		composite(dst, s.cov, sh.fill())
	}
	return nil
}

// composite blends c over dst with per-pixel coverage cov.
func composite(dst *jfa.Pixmap, cov *image.Alpha, c jfa.RGBA) {
	w := dst.Width()
	for i, a := range cov.Pix {
		if a == 0 {
			continue
		}
		x, y := i%w, i/w
		if a == 0xff {
			dst.SetPixel(x, y, c)
			continue
		}
		dst.SetPixel(x, y, dst.GetPixel(x, y).Lerp(c, float64(a)/255))
	}
}

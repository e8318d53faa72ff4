package geometry

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/jfa"
)

// Font is a parsed TrueType font usable by labels. It is safe for
// concurrent use.
type Font struct {
	shapeFont *font.Font
	outlines  *sfnt.Font

	mu     sync.Mutex
	buf    sfnt.Buffer
	shaper shaping.HarfbuzzShaper
}

// ParseFont parses TrueType or OpenType data.
func ParseFont(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("geometry: parse font: %w", err)
	}
	outlines, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("geometry: parse font outlines: %w", err)
	}
	return &Font{shapeFont: face.Font, outlines: outlines}, nil
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	return ParseFont(goregular.TTF)
})

// DefaultFont returns Go Regular.
func DefaultFont() (*Font, error) {
	return defaultFont()
}

// PositionedGlyph is a glyph placed relative to the label origin.
type PositionedGlyph struct {
	ID   sfnt.GlyphIndex
	X, Y float64
}

// Layout shapes text at size pixels per em. Bidi runs are shaped
// separately and laid out in visual order on one line; X of the first glyph
// is 0. It returns the glyphs and the total advance.
func (f *Font) Layout(text string, size float64) ([]PositionedGlyph, float64, error) {
	if text == "" {
		return nil, 0, nil
	}
	if size <= 0 {
		return nil, 0, fmt.Errorf("geometry: invalid font size %v", size)
	}
	runs, err := visualRuns(text)
	if err != nil {
		return nil, 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	face := font.NewFace(f.shapeFont)
	var glyphs []PositionedGlyph
	var pen float64
	for _, r := range runs {
		out := f.shaper.Shape(shaping.Input{
			Text:      r.text,
			RunStart:  0,
			RunEnd:    len(r.text),
			Direction: r.dir,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    scriptOf(r.text),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			glyphs = append(glyphs, PositionedGlyph{
				ID: sfnt.GlyphIndex(uint16(g.GlyphID)), //nolint:gosec // Go fonts have fewer than 65536 glyphs
				X:  pen + fixedToFloat(g.XOffset),
				Y:  -fixedToFloat(g.YOffset),
			})
			pen += fixedToFloat(g.Advance)
		}
	}
	return glyphs, pen, nil
}

// appendOutline adds the outlines of glyphs to z, with the baseline origin
// at (ox, oy).
func (f *Font) appendOutline(z *vector.Rasterizer, glyphs []PositionedGlyph, size, ox, oy float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ppem := fixed.Int26_6(size * 64)
	for _, g := range glyphs {
		segs, err := f.outlines.LoadGlyph(&f.buf, g.ID, ppem, nil)
		if err != nil {
			if errors.Is(err, sfnt.ErrNotFound) {
				continue
			}
			return fmt.Errorf("geometry: glyph %d: %w", g.ID, err)
		}
		gx, gy := float32(ox+g.X), float32(oy+g.Y)
		pt := func(p fixed.Point26_6) (float32, float32) {
			return gx + float32(p.X)/64, gy + float32(p.Y)/64
		}
		for _, s := range segs {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				z.ClosePath()
				z.MoveTo(pt(s.Args[0]))
			case sfnt.SegmentOpLineTo:
				z.LineTo(pt(s.Args[0]))
			case sfnt.SegmentOpQuadTo:
				x1, y1 := pt(s.Args[0])
				x2, y2 := pt(s.Args[1])
				z.QuadTo(x1, y1, x2, y2)
			case sfnt.SegmentOpCubeTo:
				x1, y1 := pt(s.Args[0])
				x2, y2 := pt(s.Args[1])
				x3, y3 := pt(s.Args[2])
				z.CubeTo(x1, y1, x2, y2, x3, y3)
			}
		}
		z.ClosePath()
	}
	return nil
}

type textRun struct {
	text []rune
	dir  di.Direction
}

// visualRuns splits text into directional runs in display order.
func visualRuns(text string) ([]textRun, error) {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return nil, fmt.Errorf("geometry: bidi: %w", err)
	}
	order, err := p.Order()
	if err != nil {
		return nil, fmt.Errorf("geometry: bidi: %w", err)
	}

	runes := []rune(text)
	runs := make([]textRun, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos() // inclusive rune indices
		if start < 0 || end >= len(runes) || start > end {
			continue
		}
		dir := di.DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, textRun{text: runes[start : end+1], dir: dir})
	}
	return runs, nil
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Label is a single line of text with its baseline origin at (X, Y).
type Label struct {
	Text string

	// TextFunc, if non-nil, returns the text for a frame instead of Text.
	TextFunc func(frame uint64) string

	X, Y  float64
	Size  float64
	Color jfa.RGBA

	// Font defaults to DefaultFont.
	Font *Font
}

// TextAt returns the label's text for frame.
func (l Label) TextAt(frame uint64) string {
	if l.TextFunc != nil {
		return l.TextFunc(frame)
	}
	return l.Text
}

func (l Label) outline(z *vector.Rasterizer, frame uint64) error {
	f := l.Font
	if f == nil {
		var err error
		if f, err = DefaultFont(); err != nil {
			return err
		}
	}
	glyphs, _, err := f.Layout(l.TextAt(frame), l.Size)
	if err != nil {
		return err
	}
	return f.appendOutline(z, glyphs, l.Size, l.X, l.Y)
}

func (l Label) fill() jfa.RGBA { return l.Color }

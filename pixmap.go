package jfa

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap is an 8-bit RGBA raster. It holds geometry masks and finalized
// output. Channels are straight (non-premultiplied) alpha.
type Pixmap struct {
	width, height int
	data          []uint8
}

// NewPixmap returns a transparent width x height pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{width: width, height: height, data: make([]uint8, 4*width*height)}
}

// Width returns the number of columns.
func (p *Pixmap) Width() int { return p.width }

// Height returns the number of rows.
func (p *Pixmap) Height() int { return p.height }

// Data exposes the pixels, row-major, four bytes (R, G, B, A) each.
func (p *Pixmap) Data() []uint8 { return p.data }

// offset returns the index of the first byte of (x, y).
func (p *Pixmap) offset(x, y int) (int, bool) {
	if uint(x) >= uint(p.width) || uint(y) >= uint(p.height) {
		return 0, false
	}
	return 4 * (y*p.width + x), true
}

// SetPixel stores c at (x, y). Writes outside the pixmap are dropped.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if i, ok := p.offset(x, y); ok {
		p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = c.bytes()
	}
}

// GetPixel returns the pixel at (x, y), or Transparent outside the pixmap.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	i, ok := p.offset(x, y)
	if !ok {
		return Transparent
	}
	px := p.data[i : i+4 : i+4]
	return RGBA{R: unit(px[0]), G: unit(px[1]), B: unit(px[2]), A: unit(px[3])}
}

func unit(v uint8) float64 { return float64(v) / 255 }

// Clear sets every pixel to c.
func (p *Pixmap) Clear(c RGBA) {
	if len(p.data) == 0 {
		return
	}
	r, g, b, a := c.bytes()
	p.data[0], p.data[1], p.data[2], p.data[3] = r, g, b, a
	for n := 4; n < len(p.data); n *= 2 {
		copy(p.data[n:], p.data[:n])
	}
}

// IntensityMode selects how a mask pixel is reduced to a single intensity.
type IntensityMode int

const (
	// IntensityRed reads the red channel only.
	IntensityRed IntensityMode = iota

	// IntensityMax takes the brightest of the three color channels.
	IntensityMax

	// IntensityLuma uses Rec. 709 luma weights.
	IntensityLuma
)

// String returns the mode name.
func (m IntensityMode) String() string {
	switch m {
	case IntensityRed:
		return "red"
	case IntensityMax:
		return "max"
	case IntensityLuma:
		return "luma"
	default:
		return "unknown"
	}
}

// Intensity returns the mask intensity of a pixel in [0, 1].
// Alpha is ignored, matching a mask rendered over an opaque black clear.
func (p *Pixmap) Intensity(x, y int, mode IntensityMode) float64 {
	i, ok := p.offset(x, y)
	if !ok {
		return 0
	}
	return intensityOf(p.data[i], p.data[i+1], p.data[i+2], mode)
}

func intensityOf(r, g, b uint8, mode IntensityMode) float64 {
	switch mode {
	case IntensityMax:
		return float64(max(r, g, b)) / 255
	case IntensityLuma:
		return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
	default:
		return float64(r) / 255
	}
}

// CopyFrom copies pixels from src, which must have the same size.
func (p *Pixmap) CopyFrom(src *Pixmap) error {
	if err := checkSameSize(p, src); err != nil {
		return err
	}
	copy(p.data, src.data)
	return nil
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.width, p.height)
	copy(c.data, p.data)
	return c
}

// ToImage copies the pixmap into a new image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    append([]uint8(nil), p.data...),
		Stride: 4 * p.width,
		Rect:   p.Bounds(),
	}
}

// Scaled returns the pixmap magnified by an integer factor using
// nearest-neighbor sampling, so every field pixel stays a crisp block.
// Factors below 2 return the image unscaled.
func (p *Pixmap) Scaled(factor int) *image.NRGBA {
	src := p.ToImage()
	if factor < 2 {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, p.width*factor, p.height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// FromImage copies img into a pixmap whose origin is img.Bounds().Min.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	row := 4 * pm.width

	if src, ok := img.(*image.NRGBA); ok {
		for y := range pm.height {
			start := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pm.data[y*row:(y+1)*row], src.Pix[start:start+row])
		}
		return pm
	}
	for y := range pm.height {
		for x := range pm.width {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*row + 4*x
			pm.data[i], pm.data[i+1], pm.data[i+2], pm.data[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return pm
}

// SavePNG writes the pixmap, magnified by scale, as a PNG file.
func (p *Pixmap) SavePNG(path string, scale int) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path comes from the caller
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return png.Encode(f, p.Scaled(scale))
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	i, ok := p.offset(x, y)
	if !ok {
		return color.NRGBA{}
	}
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements image.Image. The origin is always (0, 0).
func (p *Pixmap) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model { return color.NRGBAModel }

package cpu

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"gochip8/pkg/grid"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

var (
	ColorOn  = color.RGBA{0xE8, 0xF1, 0xFF, 0xFF}
	ColorOff = color.RGBA{0x1D, 0x2B, 0x53, 0xFF}
)

// Surface is the single-bit pixel grid behind every host display. It
// satisfies Display on its own; Refresh only bumps a frame counter so hosts
// can tell when there is something new to draw.
type Surface struct {
	width, height int
	pixels        []uint8
	frame         uint64
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		pixels: make([]uint8, width*height),
	}
}

func (s *Surface) Clear() {
	for i := range s.pixels {
		s.pixels[i] = 0
	}
}

// FlipPixel toggles (x, y). Coordinates off the surface are ignored and
// report true, i.e. no collision.
func (s *Surface) FlipPixel(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return true
	}
	i := grid.GetIndex(x, y, s.width)
	s.pixels[i] ^= 1
	return s.pixels[i] == 1
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

func (s *Surface) Refresh() {
	s.frame++
}

// Frame counts Refresh calls.
func (s *Surface) Frame() uint64 {
	return s.frame
}

func (s *Surface) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	return s.pixels[grid.GetIndex(x, y, s.width)] == 1
}

// Pixels returns a row-major copy, one byte (0 or 1) per pixel.
func (s *Surface) Pixels() []uint8 {
	return append([]uint8(nil), s.pixels...)
}

// SetPixels replaces the surface contents. Any non-zero byte is stored as 1.
func (s *Surface) SetPixels(src []uint8) error {
	if len(src) != len(s.pixels) {
		return errors.Errorf("surface is %dx%d, got %d pixels", s.width, s.height, len(src))
	}
	for i, v := range src {
		if v != 0 {
			s.pixels[i] = 1
		} else {
			s.pixels[i] = 0
		}
	}
	return nil
}

// WriteRGBA renders the surface into pix, four bytes per pixel, as expected
// by image.RGBA.Pix and ebiten's WritePixels.
func (s *Surface) WriteRGBA(pix []byte, on, off color.RGBA) {
	for i, v := range s.pixels {
		c := off
		if v == 1 {
			c = on
		}
		pix[i*4+0] = c.R
		pix[i*4+1] = c.G
		pix[i*4+2] = c.B
		pix[i*4+3] = c.A
	}
}

// Image returns the surface at 1:1 scale.
func (s *Surface) Image(on, off color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.WriteRGBA(img.Pix, on, off)
	return img
}

// Scaled returns the surface enlarged by scale with nearest-neighbour
// sampling so pixel edges stay hard.
func (s *Surface) Scaled(scale int, on, off color.RGBA) *image.RGBA {
	src := s.Image(on, off)
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.width*scale, s.height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveScreenshot encodes the surface as a PNG and writes it to filename.
func (s *Surface) SaveScreenshot(filename string, scale int) error {
	img := s.Scaled(scale, ColorOn, ColorOff)
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create screenshot")
	}
	defer f.Close()
	return errors.Wrap(png.Encode(f, img), "encode screenshot")
}

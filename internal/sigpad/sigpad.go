// Package sigpad implements the signature drawing surface: a
// fixed-resolution bitmap backing store that accepts pointer input in
// display coordinates and renders pencil-style strokes into it.
package sigpad

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
)

// Default canvas geometry, matching the form's signature field.
const (
	DefaultWidth  = 600
	DefaultHeight = 200
)

var (
	// Background matches the form's dark signature field.
	Background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	// StrokeColor is the ink color.
	StrokeColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// StrokeWidth is the pencil thickness in backing-store pixels.
const StrokeWidth = 2.5

// Point is a position in display (CSS) coordinates.
type Point struct {
	X float64
	Y float64
}

// Pad is a drawing surface. The backing store has a fixed pixel
// resolution independent of the display size the pad is shown at;
// every input point is scaled from display space into backing space
// before any ink lands.
//
// Pad is not safe for concurrent use; input events arrive one at a
// time from a single pointer.
type Pad struct {
	img      *image.RGBA
	displayW float64
	displayH float64

	drawing bool
	hasInk  bool
	lastX   float64
	lastY   float64
}

// New returns a cleared pad with the given backing-store resolution,
// displayed at its native size until SetDisplaySize says otherwise.
func New(width, height int) *Pad {
	p := &Pad{
		img:      image.NewRGBA(image.Rect(0, 0, width, height)),
		displayW: float64(width),
		displayH: float64(height),
	}
	p.Clear()
	return p
}

// SetDisplaySize records the on-screen size of the pad. Input points
// are interpreted against this size; the backing store is untouched.
func (p *Pad) SetDisplaySize(w, h float64) {
	if w > 0 {
		p.displayW = w
	}
	if h > 0 {
		p.displayH = h
	}
}

// scale maps a display-space point into backing-store space.
func (p *Pad) scale(pt Point) (float64, float64) {
	b := p.img.Bounds()
	sx := float64(b.Dx()) / p.displayW
	sy := float64(b.Dy()) / p.displayH
	return pt.X * sx, pt.Y * sy
}

// Begin starts a stroke at pt. It moves the pen without inking, so a
// bare down/up with no movement leaves the pad clean.
func (p *Pad) Begin(pt Point) {
	p.drawing = true
	p.lastX, p.lastY = p.scale(pt)
}

// Move extends the current stroke to pt and composites the segment
// immediately. Outside a stroke it is a no-op.
func (p *Pad) Move(pt Point) {
	if !p.drawing {
		return
	}
	x, y := p.scale(pt)
	p.segment(p.lastX, p.lastY, x, y)
	p.lastX, p.lastY = x, y
	p.hasInk = true
}

// End finishes the current stroke. Pointer-up and pointer-leave both
// land here.
func (p *Pad) End() {
	p.drawing = false
}

// HasInk reports whether at least one stroke segment has been drawn
// since the last Clear.
func (p *Pad) HasInk() bool {
	return p.hasInk
}

// Clear repaints the whole backing store with the background fill and
// resets the ink flag. An in-progress stroke is abandoned.
func (p *Pad) Clear() {
	b := p.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.img.SetRGBA(x, y, Background)
		}
	}
	p.hasInk = false
	p.drawing = false
}

// Bounds returns the backing-store rectangle.
func (p *Pad) Bounds() image.Rectangle {
	return p.img.Bounds()
}

// At returns the backing-store pixel at (x, y).
func (p *Pad) At(x, y int) color.Color {
	return p.img.At(x, y)
}

// EncodePNG exports the current backing-store contents losslessly.
// Callers gate on HasInk; the pad itself exports whatever is there.
func (p *Pad) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return nil, fmt.Errorf("encode signature png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL exports the backing store as a data:image/png;base64 URL,
// the form the SignatureRecord carries over the wire.
func (p *Pad) DataURL() (string, error) {
	raw, err := p.EncodePNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// segment draws a round-capped line from (x0,y0) to (x1,y1) in
// backing coordinates by stamping a filled disc along the path. The
// disc spacing is well under half the radius, which keeps the edge
// smooth and the joints seamless.
func (p *Pad) segment(x0, y0, x1, y1 float64) {
	dx := x1 - x0
	dy := y1 - y0
	dist := math.Hypot(dx, dy)

	steps := int(dist*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.stamp(x0+dx*t, y0+dy*t)
	}
}

// stamp fills a disc of radius StrokeWidth/2 centered at (cx, cy),
// clipped to the backing store.
func (p *Pad) stamp(cx, cy float64) {
	r := StrokeWidth / 2
	b := p.img.Bounds()

	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))

	for y := minY; y <= maxY; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			fx := float64(x) + 0.5 - cx
			fy := float64(y) + 0.5 - cy
			if fx*fx+fy*fy <= r*r {
				p.img.SetRGBA(x, y, StrokeColor)
			}
		}
	}
}

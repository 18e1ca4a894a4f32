package layout

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Font describes the text style a measurement is taken at.
type Font struct {
	Size float64
}

// Size is a measured text extent in points.
type Size struct {
	Width  float64
	Height float64
}

// Measurer reports how much space a run of text occupies. The layout
// engine takes one as an explicit dependency so callers pick between
// real font metrics and the deterministic estimate.
type Measurer interface {
	Measure(text string, f Font) Size
}

// Estimator approximates text extents from character counts alone. It
// needs no font files, which keeps tests and headless environments
// deterministic.
type Estimator struct {
	// WidthRatio is the assumed glyph advance as a fraction of the
	// font size. The default approximates common sans faces.
	WidthRatio float64
}

// NewEstimator returns an Estimator with the default width ratio.
func NewEstimator() *Estimator {
	return &Estimator{WidthRatio: 0.6}
}

// Measure implements Measurer.
func (e *Estimator) Measure(text string, f Font) Size {
	n := 0
	for range text {
		n++
	}
	return Size{
		Width:  float64(n) * f.Size * e.WidthRatio,
		Height: f.Size * 1.25,
	}
}

// FontMeasurer measures text with real TrueType glyph metrics. Faces
// are built per font size on first use and reused after.
type FontMeasurer struct {
	ttf *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// candidateFonts are tried in order when locating a system face.
var candidateFonts = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"LiberationSans-Regular.ttf",
	"Helvetica.ttf",
}

// NewFontMeasurer loads a system font and returns a measurer backed by
// its metrics. It fails when no candidate face can be found or parsed;
// callers typically fall back to NewEstimator.
func NewFontMeasurer() (*FontMeasurer, error) {
	var lastErr error
	for _, name := range candidateFonts {
		path, err := findfont.Find(name)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			lastErr = err
			continue
		}
		return &FontMeasurer{ttf: ttf, faces: make(map[float64]font.Face)}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate fonts configured")
	}
	return nil, fmt.Errorf("locate system font: %w", lastErr)
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, f Font) Size {
	face := m.face(f.Size)
	adv := font.MeasureString(face, text)
	metrics := face.Metrics()
	return Size{
		Width:  float64(adv) / 64,
		Height: float64(metrics.Ascent+metrics.Descent) / 64,
	}
}

func (m *FontMeasurer) face(size float64) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(m.ttf, &truetype.Options{Size: size})
	m.faces[size] = f
	return f
}

// DefaultMeasurer returns a font-backed measurer when a system font is
// available and the estimator otherwise.
func DefaultMeasurer() Measurer {
	if m, err := NewFontMeasurer(); err == nil {
		return m
	}
	return NewEstimator()
}

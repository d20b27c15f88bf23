package engine

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/go-theft-auto/engine/cache"
)

// GlyphKey uniquely identifies a shaped run: font name, size and the text
// itself. Size is fixed-point 26.6 so the key stays comparable without
// float equality.
type GlyphKey struct {
	Font string
	Size fixed.Int26_6
	Text string
}

// Glyph is one positioned glyph in a shaped run. Positions are in pixels
// relative to the run origin; GID indexes the glyph in its font, which is
// what a rasterizing backend needs to produce the bitmap.
type Glyph struct {
	GID  uint32
	X, Y float64
}

// GlyphRun is a shaped line of text: positioned glyphs plus the total
// advance width in pixels.
type GlyphRun struct {
	Glyphs  []Glyph
	Advance float64
}

// TextShaper shapes text into glyph runs through go-text/typesetting's
// HarfBuzz implementation and caches the results behind a bounded LRU, so
// a string drawn every frame shapes once. Rasterization of the glyphs is
// the rendering backend's concern; the shaper stops at glyph ids and
// positions.
//
// TextShaper is used from the engine loop goroutine; it is not safe for
// concurrent use.
type TextShaper struct {
	fonts map[string]*font.Font
	runs  *cache.LRU[GlyphKey, GlyphRun]

	shaper shaping.HarfbuzzShaper
}

func newTextShaper(capacity int) *TextShaper {
	return &TextShaper{
		fonts: make(map[string]*font.Font),
		runs:  cache.New[GlyphKey, GlyphRun](capacity),
	}
}

// LoadFont parses TTF or OTF data and registers it under name. Loading a
// name twice replaces the font and invalidates its cached runs.
func (s *TextShaper) LoadFont(name string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("engine: parse font %q: %w", name, err)
	}
	if _, ok := s.fonts[name]; ok {
		s.runs.Clear()
	}
	s.fonts[name] = face.Font
	return nil
}

// Shape returns the shaped run for text at size points in the named font,
// shaping it on first use. Size is in points; fractional sizes round to
// the nearest 1/64.
func (s *TextShaper) Shape(fontName string, size float64, text string) (GlyphRun, error) {
	f, ok := s.fonts[fontName]
	if !ok {
		return GlyphRun{}, fmt.Errorf("engine: font %q not loaded", fontName)
	}

	key := GlyphKey{Font: fontName, Size: floatToFixed(size), Text: text}
	return s.runs.GetOrInsert(key, func() (GlyphRun, error) {
		return s.shape(f, key), nil
	})
}

// Stats returns run-cache effectiveness counters.
func (s *TextShaper) Stats() cache.Stats { return s.runs.Stats() }

func (s *TextShaper) shape(f *font.Font, key GlyphKey) GlyphRun {
	runes := []rune(key.Text)
	if len(runes) == 0 {
		return GlyphRun{}
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      key.Size,
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	output := s.shaper.Shape(input)

	run := GlyphRun{Glyphs: make([]Glyph, len(output.Glyphs))}
	var x, y float64
	for i, g := range output.Glyphs {
		run.Glyphs[i] = Glyph{
			GID: uint32(g.GlyphID),
			X:   x + fixedToFloat(g.XOffset),
			Y:   y + fixedToFloat(g.YOffset),
		}
		x += fixedToFloat(g.XAdvance)
		y += fixedToFloat(g.YAdvance)
	}
	run.Advance = x
	return run
}

// detectScript returns the script of the first non-space rune, defaulting
// to Latin. A simple heuristic; mixed-script text should be split into
// runs before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 size to fixed-point 26.6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed-point 26.6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

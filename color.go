package marker

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RGBA is a parsed color. R, G and B are in [0, 255], A is in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// String formats c as a CSS rgba() value with integer channels.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)",
		channel8(c.R), channel8(c.G), channel8(c.B),
		strconv.FormatFloat(clamp(c.A, 0, 1), 'g', 4, 64))
}

func channel8(v float64) int {
	return int(math.Round(clamp(v, 0, 255)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

var (
	rxHexColor = regexp.MustCompile(`(?i)^#([0-9a-f]{3}|[0-9a-f]{4}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	rxRGBColor = regexp.MustCompile(`(?i)^rgba?\(\s*` +
		`(\d+(?:\.\d+)?%?)\s*[,\s]\s*` +
		`(\d+(?:\.\d+)?%?)\s*[,\s]\s*` +
		`(\d+(?:\.\d+)?%?)\s*` +
		`(?:[,/]\s*(\d*(?:\.\d+)?%?)\s*)?\)$`)
	rxHSLColor = regexp.MustCompile(`(?i)^hsla?\(\s*` +
		`(-?\d+(?:\.\d+)?)(?:deg)?\s*[,\s]\s*` +
		`(\d+(?:\.\d+)?)%\s*[,\s]\s*` +
		`(\d+(?:\.\d+)?)%\s*` +
		`(?:[,/]\s*(\d*(?:\.\d+)?%?)\s*)?\)$`)
	rxVarColor = regexp.MustCompile(`^var\(\s*(--[\w-]+)\s*(?:,\s*(.+?))?\s*\)$`)
)

const slowColorCacheSize = 512

var (
	colorMu        sync.Mutex
	colorCache     *lru.Cache[string, RGBA]
	colorVariables = map[string]string{}
)

func init() {
	colorCache, _ = lru.New[string, RGBA](slowColorCacheSize)
}

// SetColorProperty defines the value a var(--name) color reference resolves
// to. An empty value removes the property.
func SetColorProperty(name, value string) {
	colorMu.Lock()
	if value == "" {
		delete(colorVariables, name)
	} else {
		colorVariables[name] = value
	}
	colorMu.Unlock()
	colorCache.Purge()
}

// ParseColor parses a CSS color value: hex (#rgb, #rgba, #rrggbb,
// #rrggbbaa), rgb()/rgba(), hsl()/hsla(), named colors, "transparent" and
// var(--name[, fallback]) references to properties set with SetColorProperty.
//
// Hex and rgb values take a fast path; everything else is resolved once and
// cached by the input string.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if rxHexColor.MatchString(s) {
		return parseHexColor(s), nil
	}
	if m := rxRGBColor.FindStringSubmatch(s); m != nil {
		return parseRGBMatch(m), nil
	}

	if c, ok := colorCache.Get(s); ok {
		return c, nil
	}
	c, err := parseSlowColor(s, 0)
	if err != nil {
		return RGBA{}, err
	}
	colorCache.Add(s, c)
	return c, nil
}

// mustParseColor parses s and falls back to opaque black on failure.
func mustParseColor(s string) RGBA {
	c, err := ParseColor(s)
	if err != nil {
		warnOnce(err.Error())
		return RGBA{A: 1}
	}
	return c
}

func parseHexColor(s string) RGBA {
	hex := s[1:]
	if len(hex) <= 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	v, _ := strconv.ParseUint(hex, 16, 32)
	if len(hex) == 6 {
		return RGBA{R: float64(v >> 16 & 0xff), G: float64(v >> 8 & 0xff), B: float64(v & 0xff), A: 1}
	}
	return RGBA{
		R: float64(v >> 24 & 0xff),
		G: float64(v >> 16 & 0xff),
		B: float64(v >> 8 & 0xff),
		A: float64(v&0xff) / 255,
	}
}

func parseRGBMatch(m []string) RGBA {
	c := RGBA{
		R: parseChannel(m[1]),
		G: parseChannel(m[2]),
		B: parseChannel(m[3]),
		A: 1,
	}
	if m[4] != "" {
		c.A = parseAlpha(m[4])
	}
	return c
}

func parseChannel(s string) float64 {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, _ := strconv.ParseFloat(p, 64)
		return clamp(v*2.55, 0, 255)
	}
	v, _ := strconv.ParseFloat(s, 64)
	return clamp(v, 0, 255)
}

func parseAlpha(s string) float64 {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, _ := strconv.ParseFloat(p, 64)
		return clamp(v/100, 0, 1)
	}
	v, _ := strconv.ParseFloat(s, 64)
	return clamp(v, 0, 1)
}

// maxColorVarDepth bounds var() indirection.
const maxColorVarDepth = 8

func parseSlowColor(s string, depth int) (RGBA, error) {
	lower := strings.ToLower(s)
	if lower == "transparent" {
		return RGBA{}, nil
	}
	if c, ok := colornames.Map[lower]; ok {
		return RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A) / 255}, nil
	}
	if m := rxHSLColor.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		sat, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		col := colorful.Hsl(h, clamp(sat/100, 0, 1), clamp(l/100, 0, 1))
		c := RGBA{R: col.R * 255, G: col.G * 255, B: col.B * 255, A: 1}
		if m[4] != "" {
			c.A = parseAlpha(m[4])
		}
		return c, nil
	}
	if m := rxVarColor.FindStringSubmatch(s); m != nil && depth < maxColorVarDepth {
		colorMu.Lock()
		v, ok := colorVariables[m[1]]
		colorMu.Unlock()
		if !ok {
			v = m[2]
		}
		if v == "" {
			return RGBA{}, fmt.Errorf("marker: color property %s is not defined", m[1])
		}
		v = strings.TrimSpace(v)
		if rxHexColor.MatchString(v) {
			return parseHexColor(v), nil
		}
		if mm := rxRGBColor.FindStringSubmatch(v); mm != nil {
			return parseRGBMatch(mm), nil
		}
		return parseSlowColor(v, depth+1)
	}
	return RGBA{}, fmt.Errorf("marker: color parsing failed (parsing value: %q)", s)
}

// Luminance returns the relative luminance of c in [0, 1] as defined by
// WCAG 2.0.
func Luminance(c RGBA) float64 {
	return 0.2126*channelLuminance(c.R/255) +
		0.7152*channelLuminance(c.G/255) +
		0.0722*channelLuminance(c.B/255)
}

func channelLuminance(x float64) float64 {
	if x <= 0.03928 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

// labStep is one lightness step on the CIE-LAB L axis (L in [0, 1]),
// roughly one step of the material design palette.
const labStep = 0.18

// Darken lowers the perceptual lightness of c by amount steps.
func Darken(c RGBA, amount float64) RGBA {
	return adjustLightness(c, -amount)
}

// Brighten raises the perceptual lightness of c by amount steps.
func Brighten(c RGBA, amount float64) RGBA {
	return adjustLightness(c, amount)
}

func adjustLightness(c RGBA, amount float64) RGBA {
	col := colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
	l, a, b := col.Lab()
	l = math.Max(0, l+labStep*amount)
	out := colorful.Lab(l, a, b).Clamped()
	return RGBA{R: out.R * 255, G: out.G * 255, B: out.B * 255, A: c.A}
}

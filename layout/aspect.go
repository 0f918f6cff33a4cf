package layout

// This file derives pagination constraints from a card aspect-ratio preset
// and the preview width. Constraints are recomputed as a whole whenever the
// aspect ratio, preview width or locale changes; stale values must never be
// reused across pagination runs.

const (
	// defaultPreviewWidth is the card width (px) used when no preview width is given.
	defaultPreviewWidth = 360
	// contentPadding is the horizontal inset (px) between card edge and content.
	contentPadding = 14
	// charUnitPx is the pixel width of one character-width unit (a full-width
	// glyph at the base font size). MaxCharsPerLine derives from it.
	charUnitPx = 16
)

// aspectRatio is a width:height pair for a card preset.
type aspectRatio struct {
	w, h int
}

var aspectPresets = map[string]aspectRatio{
	"3:4":  {3, 4},
	"1:1":  {1, 1},
	"9:16": {9, 16},
}

// DefaultAspect is the preset used when an unknown aspect name is requested.
const DefaultAspect = "3:4"

// AspectNames lists the supported aspect-ratio preset names.
func AspectNames() []string {
	return []string{"3:4", "1:1", "9:16"}
}

// ConstraintsFor derives pagination constraints from an aspect preset name,
// a preview width in pixels and the fixed chrome height reserved by the
// renderer. Unknown presets fall back to DefaultAspect; non-positive preview
// widths fall back to defaultPreviewWidth.
func ConstraintsFor(aspect string, previewWidth, fixedChrome int) Constraints {
	ar, ok := aspectPresets[aspect]
	if !ok {
		ar = aspectPresets[DefaultAspect]
	}
	if previewWidth <= 0 {
		previewWidth = defaultPreviewWidth
	}
	if fixedChrome < 0 {
		fixedChrome = 0
	}
	contentWidth := previewWidth - 2*contentPadding
	return Constraints{
		ContentWidth:    contentWidth,
		MaxCharsPerLine: float64(contentWidth) / charUnitPx,
		MaxPageHeight:   previewWidth * ar.h / ar.w,
		FixedChrome:     fixedChrome,
	}
}

// PageSize returns the outer card size (px) implied by the constraints:
// content width plus horizontal padding, and the page height budget.
func (c Constraints) PageSize() (width, height int) {
	c = c.normalized()
	return c.ContentWidth + 2*contentPadding, c.MaxPageHeight
}

// ContentLeft returns the x offset (px) of the content area inside the card.
func (c Constraints) ContentLeft() int { return contentPadding }

package elevation

import (
	"math"

	"github.com/visionspec/visionspec/pkg/surface"
)

// LineSpec is one input line of a text block.
type LineSpec struct {
	Text     string
	Font     surface.Font
	BaseSize float64
}

// TextLine is a positioned line with its resolved font size. The baseline
// starts at (X, Y).
type TextLine struct {
	Text     string       `json:"text"`
	Font     surface.Font `json:"font"`
	BaseSize float64      `json:"base_size"`
	Size     float64      `json:"size"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
}

// TextBox is the region a text block is centered in.
type TextBox struct {
	X      float64 // left edge of every line
	Bottom float64
	Height float64 // available height; negative values count as 0
}

// BlockHeight returns the vertical extent of lines at their resolved sizes.
func BlockHeight(lines []TextLine) float64 {
	var h float64
	for _, l := range lines {
		h += l.Size * LineSpacing
	}
	return h
}

// FitSizes resolves the font size of every line so the block fits within
// available points.
//
// A block that fits at base sizes is returned unchanged. Otherwise lines are
// shrunk by a common factor; a line that would drop below MinFontSize is
// pinned there and the remaining space is shared by the other lines. When
// even the pinned block overflows, the floor is dropped and every line is
// scaled by available/required. Sizes are never negative.
func FitSizes(lines []LineSpec, available float64) []float64 {
	available = math.Max(available, 0)

	base := make([]float64, len(lines))
	var required float64
	for i, l := range lines {
		base[i] = math.Max(l.BaseSize, 0)
		required += base[i] * LineSpacing
	}
	if required <= available {
		return base
	}

	sizes := make([]float64, len(lines))
	pinned := make([]bool, len(lines))
	for {
		space, free := available, 0.0
		for i, b := range base {
			if pinned[i] {
				space -= math.Min(b, MinFontSize) * LineSpacing
			} else {
				free += b * LineSpacing
			}
		}
		if space < -eps(available) {
			break
		}

		factor := 0.0
		if free > 0 {
			factor = math.Max(space, 0) / free
		}
		changed := false
		for i, b := range base {
			if !pinned[i] && b*factor < math.Min(b, MinFontSize) {
				pinned[i] = true
				changed = true
			}
		}
		if changed {
			continue
		}

		for i, b := range base {
			if pinned[i] {
				sizes[i] = math.Min(b, MinFontSize)
			} else {
				sizes[i] = b * factor
			}
		}
		return sizes
	}

	factor := available / required
	for i, b := range base {
		sizes[i] = b * factor
	}
	return sizes
}

// FitText resolves sizes with [FitSizes] for box.Height and positions the
// lines top to bottom, vertically centered in the box. Each line occupies
// size*LineSpacing; its baseline sits size*(LineSpacing-1) above the bottom
// of that slot.
func FitText(lines []LineSpec, box TextBox) []TextLine {
	height := math.Max(box.Height, 0)
	sizes := FitSizes(lines, height)

	var block float64
	for _, s := range sizes {
		block += s * LineSpacing
	}

	cursor := box.Bottom + height/2 + block/2
	out := make([]TextLine, len(lines))
	for i, l := range lines {
		slot := sizes[i] * LineSpacing
		cursor -= slot
		out[i] = TextLine{
			Text:     l.Text,
			Font:     l.Font,
			BaseSize: l.BaseSize,
			Size:     sizes[i],
			X:        box.X,
			Y:        cursor + sizes[i]*(LineSpacing-1),
		}
	}
	return out
}

// eps is the comparison tolerance for a value of magnitude v.
func eps(v float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(v))
}

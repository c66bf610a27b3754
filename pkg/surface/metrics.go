package surface

import (
	"github.com/tsawler/tabula/font"
)

// widthTables holds one Standard-14 font per supported face. The font values
// are only read after init, so sharing them across goroutines is safe.
var widthTables = map[Font]*font.Font{
	Helvetica:        font.NewFont("F1", string(Helvetica), "Type1"),
	HelveticaBold:    font.NewFont("F2", string(HelveticaBold), "Type1"),
	HelveticaOblique: font.NewFont("F3", string(HelveticaOblique), "Type1"),
}

// Metrics measures text with the Standard-14 width tables.
// The zero value is ready to use.
type Metrics struct{}

// MeasureText returns the advance width of s in points. Unknown fonts are
// measured as Helvetica.
func (Metrics) MeasureText(s string, f Font, size float64) float64 {
	tbl, ok := widthTables[f]
	if !ok {
		tbl = widthTables[Helvetica]
	}
	return tbl.GetStringWidth(s) * size / 1000
}

var _ Measurer = Metrics{}

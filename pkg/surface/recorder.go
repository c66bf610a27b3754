package surface

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpLine    OpKind = "line"
	OpRect    OpKind = "rect"
	OpText    OpKind = "text"
	OpNewPage OpKind = "new_page"
)

// Op is one recorded drawing call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind  `json:"kind"`
	Page   int     `json:"page"`
	X1     float64 `json:"x1,omitempty"`
	Y1     float64 `json:"y1,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Text   string  `json:"text,omitempty"`
	Font   Font    `json:"font,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Filled bool    `json:"filled,omitempty"`
}

// Recorder is a [Surface] that records calls instead of drawing them.
// Text is measured with [Metrics]. Rect ops store the rectangle as
// (X1, Y1) bottom-left and (X2, Y2) top-right.
type Recorder struct {
	Metrics

	Ops   []Op
	pages int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) ensurePage() {
	if r.pages == 0 {
		r.pages = 1
	}
}

// Line records a line.
func (r *Recorder) Line(x1, y1, x2, y2 float64, _ Stroke) {
	r.ensurePage()
	r.Ops = append(r.Ops, Op{Kind: OpLine, Page: r.pages - 1, X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// Rect records a rectangle.
func (r *Recorder) Rect(x, y, w, h float64, fill, _ *Color, _ float64) {
	r.ensurePage()
	r.Ops = append(r.Ops, Op{Kind: OpRect, Page: r.pages - 1, X1: x, Y1: y, X2: x + w, Y2: y + h, Filled: fill != nil})
}

// Text records a text run.
func (r *Recorder) Text(x, y float64, s string, f Font, size float64, _ Color) {
	r.ensurePage()
	r.Ops = append(r.Ops, Op{Kind: OpText, Page: r.pages - 1, X1: x, Y1: y, Text: s, Font: f, Size: size})
}

// NewPage records a page break.
func (r *Recorder) NewPage() {
	r.pages++
	r.Ops = append(r.Ops, Op{Kind: OpNewPage, Page: r.pages - 1})
}

// Pages returns the number of pages started so far.
func (r *Recorder) Pages() int { return r.pages }

// Filter returns the recorded ops of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// FindText returns the first text op whose text equals s.
func (r *Recorder) FindText(s string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == OpText && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

var _ Surface = (*Recorder)(nil)

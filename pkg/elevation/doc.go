// Package elevation computes the floor-to-ceiling elevation diagram for one
// recommended screen.
//
// # Coordinates
//
// All output coordinates are page points with y growing upward. Every
// vertical coordinate is derived from a single scale (points per meter) and a
// single reference point, the center of the drawing area's inner band. Floor,
// ceiling, eye line and screen therefore stay mutually consistent whatever
// the size of the area.
//
// # Placement
//
// The screen is mounted with its anchored edge [PlacementOffsetM] above the
// seated eye line:
//
//	TVTop    = EyeLineY + 0.10*scale
//	TVBottom = TVTop + screenHeight*scale
//
// TVTop is the edge next to the eye line; in y-up space TVBottom is the
// higher edge.
//
// # Fit and clipping
//
// [Geometry.FitsCeiling] is computed from the unclipped screen and answers
// whether the real screen fits below the ceiling. When the screen would cross
// the ceiling minus [ClipMargin], only the drawn edge is clamped and
// [Geometry.Clipped] is set; FitsCeiling is left untouched.
//
// # Info text
//
// [FitText] shrinks a block of text lines proportionally until it fits the
// gap between floor and eye line, never below [MinFontSize] unless the floor
// itself would overflow the gap.
package elevation

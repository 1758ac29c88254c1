// Package geometry converts field rectangles between the three coordinate
// spaces the engine deals with: page-relative percentages (the persisted
// form), device space (a page rendered at some scale, origin top-left),
// and document space (PDF points, origin bottom-left).
package geometry

// MinFieldSize is the smallest width or height of a field in device units
// at the scale the geometry was captured. Anything smaller is too fiddly
// to select or resize, so every conversion path enforces this floor.
const MinFieldSize = 20.0

// PercentRect locates a field on its page as percentages of the page's
// rendered width and height. X and Y are the top-left corner. Percentages
// survive re-rendering at any scale, which is why geometry is persisted
// in this form and never as absolute pixels.
type PercentRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an absolute rectangle. In device space the origin is the page's
// top-left corner with Y growing downward; in document space the origin
// is the bottom-left corner with Y growing upward. Each function below
// states which space it works in.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ToDeviceRect converts page-relative geometry to device units for a page
// rendered at renderWidth x renderHeight.
func ToDeviceRect(g PercentRect, renderWidth, renderHeight float64) Rect {
	return Rect{
		X:      g.X / 100 * renderWidth,
		Y:      g.Y / 100 * renderHeight,
		Width:  g.Width / 100 * renderWidth,
		Height: g.Height / 100 * renderHeight,
	}
}

// ToPercentRect converts a device-space rectangle back to page-relative
// geometry. It is the exact inverse of ToDeviceRect up to floating-point
// rounding.
func ToPercentRect(r Rect, renderWidth, renderHeight float64) PercentRect {
	return PercentRect{
		X:      r.X / renderWidth * 100,
		Y:      r.Y / renderHeight * 100,
		Width:  r.Width / renderWidth * 100,
		Height: r.Height / renderHeight * 100,
	}
}

// ToDocumentRect converts page-relative geometry to document space for a
// page of the given point size. PDF pages put their origin at the bottom
// left, so the vertical axis flips:
//
//	yPt = pageHeightPt - (g.Y/100)*pageHeightPt - (g.Height/100)*pageHeightPt
//
// which anchors the rectangle to the visual top of the page.
func ToDocumentRect(g PercentRect, pageWidthPt, pageHeightPt float64) Rect {
	h := g.Height / 100 * pageHeightPt
	return Rect{
		X:      g.X / 100 * pageWidthPt,
		Y:      pageHeightPt - g.Y/100*pageHeightPt - h,
		Width:  g.Width / 100 * pageWidthPt,
		Height: h,
	}
}

// FromDocumentRect converts a document-space rectangle back to
// page-relative geometry. It is the inverse of ToDocumentRect and is what
// structured detection applies to widget rectangles.
func FromDocumentRect(r Rect, pageWidthPt, pageHeightPt float64) PercentRect {
	return PercentRect{
		X:      r.X / pageWidthPt * 100,
		Y:      (pageHeightPt - r.Y - r.Height) / pageHeightPt * 100,
		Width:  r.Width / pageWidthPt * 100,
		Height: r.Height / pageHeightPt * 100,
	}
}

// ClampToPage forces geometry inside its page at the given render size:
// width and height never drop below MinFieldSize device units, x and y
// never go negative, and the rectangle never crosses the page's right or
// bottom edge.
func ClampToPage(g PercentRect, renderWidth, renderHeight float64) PercentRect {
	r := ToDeviceRect(g, renderWidth, renderHeight)

	if r.Width < MinFieldSize {
		r.Width = MinFieldSize
	}
	if r.Height < MinFieldSize {
		r.Height = MinFieldSize
	}
	if r.Width > renderWidth {
		r.Width = renderWidth
	}
	if r.Height > renderHeight {
		r.Height = renderHeight
	}

	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > renderWidth {
		r.X = renderWidth - r.Width
	}
	if r.Y+r.Height > renderHeight {
		r.Y = renderHeight - r.Height
	}

	return ToPercentRect(r, renderWidth, renderHeight)
}

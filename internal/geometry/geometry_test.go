package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDeviceRect(t *testing.T) {
	tests := []struct {
		name     string
		geom     PercentRect
		renderW  float64
		renderH  float64
		expected Rect
	}{
		{
			name:     "origin field",
			geom:     PercentRect{X: 0, Y: 0, Width: 10, Height: 10},
			renderW:  600,
			renderH:  800,
			expected: Rect{X: 0, Y: 0, Width: 60, Height: 80},
		},
		{
			name:     "centered field",
			geom:     PercentRect{X: 25, Y: 50, Width: 50, Height: 25},
			renderW:  1000,
			renderH:  400,
			expected: Rect{X: 250, Y: 200, Width: 500, Height: 100},
		},
		{
			name:     "full page",
			geom:     PercentRect{X: 0, Y: 0, Width: 100, Height: 100},
			renderW:  612,
			renderH:  792,
			expected: Rect{X: 0, Y: 0, Width: 612, Height: 792},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDeviceRect(tt.geom, tt.renderW, tt.renderH)
			assert.InDelta(t, tt.expected.X, got.X, 1e-9)
			assert.InDelta(t, tt.expected.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.expected.Width, got.Width, 1e-9)
			assert.InDelta(t, tt.expected.Height, got.Height, 1e-9)
		})
	}
}

func TestDeviceRoundTrip(t *testing.T) {
	renderSizes := []struct{ w, h float64 }{
		{600, 800},
		{612, 792},
		{1536, 2048},
		{123.4, 987.6},
	}
	geoms := []PercentRect{
		{X: 0, Y: 0, Width: 0.1, Height: 0.1},
		{X: 3.7, Y: 91.2, Width: 4.4, Height: 8.8},
		{X: 10, Y: 10, Width: 30, Height: 5},
		{X: 50, Y: 25, Width: 50, Height: 75},
		{X: 99.9, Y: 99.9, Width: 100, Height: 100},
	}

	for _, size := range renderSizes {
		for _, g := range geoms {
			got := ToPercentRect(ToDeviceRect(g, size.w, size.h), size.w, size.h)
			assert.InDelta(t, g.X, got.X, 1e-9)
			assert.InDelta(t, g.Y, got.Y, 1e-9)
			assert.InDelta(t, g.Width, got.Width, 1e-9)
			assert.InDelta(t, g.Height, got.Height, 1e-9)
		}
	}
}

func TestScaleInvariance(t *testing.T) {
	// Capturing at one scale and re-rendering at another must reproduce
	// the same fractional region of the page.
	g := PercentRect{X: 12.5, Y: 40, Width: 25, Height: 10}

	small := ToDeviceRect(g, 600, 800)
	large := ToDeviceRect(g, 1200, 1600)

	assert.InDelta(t, small.X*2, large.X, 1e-9)
	assert.InDelta(t, small.Y*2, large.Y, 1e-9)
	assert.InDelta(t, small.Width*2, large.Width, 1e-9)
	assert.InDelta(t, small.Height*2, large.Height, 1e-9)
}

func TestToDocumentRectFlipsY(t *testing.T) {
	// A field at the visual top-left of the page must anchor to the top
	// of the document-space page, not the bottom.
	g := PercentRect{X: 0, Y: 0, Width: 10, Height: 10}
	got := ToDocumentRect(g, 600, 800)

	assert.InDelta(t, 0.0, got.X, 1e-9)
	assert.InDelta(t, 720.0, got.Y, 1e-9)
	assert.InDelta(t, 60.0, got.Width, 1e-9)
	assert.InDelta(t, 80.0, got.Height, 1e-9)
	assert.InDelta(t, 800.0, got.Y+got.Height, 1e-9, "top edge must sit at the page's full height")
}

func TestToDocumentRect(t *testing.T) {
	tests := []struct {
		name     string
		geom     PercentRect
		pageW    float64
		pageH    float64
		expected Rect
	}{
		{
			name:     "bottom of page",
			geom:     PercentRect{X: 0, Y: 90, Width: 10, Height: 10},
			pageW:    600,
			pageH:    800,
			expected: Rect{X: 0, Y: 0, Width: 60, Height: 80},
		},
		{
			name:     "mid page",
			geom:     PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
			pageW:    600,
			pageH:    800,
			expected: Rect{X: 60, Y: 680, Width: 180, Height: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDocumentRect(tt.geom, tt.pageW, tt.pageH)
			assert.InDelta(t, tt.expected.X, got.X, 1e-9)
			assert.InDelta(t, tt.expected.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.expected.Width, got.Width, 1e-9)
			assert.InDelta(t, tt.expected.Height, got.Height, 1e-9)
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	pages := []struct{ w, h float64 }{
		{612, 792},
		{600, 800},
		{842, 595},
	}
	geoms := []PercentRect{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 33.3, Y: 66.6, Width: 12.5, Height: 6.25},
		{X: 80, Y: 5, Width: 20, Height: 95},
	}

	for _, p := range pages {
		for _, g := range geoms {
			got := FromDocumentRect(ToDocumentRect(g, p.w, p.h), p.w, p.h)
			assert.InDelta(t, g.X, got.X, 1e-9)
			assert.InDelta(t, g.Y, got.Y, 1e-9)
			assert.InDelta(t, g.Width, got.Width, 1e-9)
			assert.InDelta(t, g.Height, got.Height, 1e-9)
		}
	}
}

func TestClampToPage(t *testing.T) {
	tests := []struct {
		name     string
		geom     PercentRect
		renderW  float64
		renderH  float64
		expected PercentRect
	}{
		{
			name:     "already valid",
			geom:     PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
			renderW:  600,
			renderH:  800,
			expected: PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
		},
		{
			name:    "floors tiny sizes",
			geom:    PercentRect{X: 10, Y: 10, Width: 1, Height: 1},
			renderW: 600,
			renderH: 800,
			// 20 device units on a 600x800 render.
			expected: PercentRect{X: 10, Y: 10, Width: 20.0 / 600 * 100, Height: 20.0 / 800 * 100},
		},
		{
			name:     "negative origin moves to zero",
			geom:     PercentRect{X: -5, Y: -10, Width: 20, Height: 20},
			renderW:  600,
			renderH:  800,
			expected: PercentRect{X: 0, Y: 0, Width: 20, Height: 20},
		},
		{
			name:     "right edge clamp",
			geom:     PercentRect{X: 95, Y: 10, Width: 10, Height: 5},
			renderW:  600,
			renderH:  800,
			expected: PercentRect{X: 90, Y: 10, Width: 10, Height: 5},
		},
		{
			name:     "bottom edge clamp",
			geom:     PercentRect{X: 10, Y: 99, Width: 10, Height: 5},
			renderW:  600,
			renderH:  800,
			expected: PercentRect{X: 10, Y: 95, Width: 10, Height: 5},
		},
		{
			name:     "oversized shrinks to page",
			geom:     PercentRect{X: 10, Y: 10, Width: 150, Height: 150},
			renderW:  600,
			renderH:  800,
			expected: PercentRect{X: 0, Y: 0, Width: 100, Height: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToPage(tt.geom, tt.renderW, tt.renderH)
			assert.InDelta(t, tt.expected.X, got.X, 1e-9)
			assert.InDelta(t, tt.expected.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.expected.Width, got.Width, 1e-9)
			assert.InDelta(t, tt.expected.Height, got.Height, 1e-9)
		})
	}
}

func TestClampToPageNeverNegative(t *testing.T) {
	// Even absurd input must come back inside the page with the floor
	// applied.
	got := ClampToPage(PercentRect{X: -200, Y: -200, Width: 0, Height: 0}, 600, 800)

	assert.GreaterOrEqual(t, got.X, 0.0)
	assert.GreaterOrEqual(t, got.Y, 0.0)
	dev := ToDeviceRect(got, 600, 800)
	assert.InDelta(t, MinFieldSize, dev.Width, 1e-9)
	assert.InDelta(t, MinFieldSize, dev.Height, 1e-9)
}

package document

import (
	"bytes"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// The text extractor reports each glyph cluster as its own fragment.
// Fragments that share a baseline and sit within maxRunGap points of the
// previous fragment's end are merged into one run.
const (
	maxRunGap      = 2.5
	baselineSlack  = 0.5
	defaultRunSize = 12.0
)

// attachTextRuns extracts positioned text runs for every page of doc.
// Extraction failures are logged in debug mode and otherwise ignored;
// heuristic detection just has nothing to match on the affected pages.
func (l *Loader) attachTextRuns(doc *Document, data []byte) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if l.debugMode {
			log.Printf("document: text extraction unavailable: %v", err)
		}
		return
	}

	n := reader.NumPage()
	for i := 1; i <= n && i <= len(doc.Pages); i++ {
		doc.Pages[i-1].TextRuns = l.extractPageRuns(reader, i)
	}
}

// extractPageRuns is fenced per page: the underlying parser panics on
// some malformed content streams, and that should only cost the one page
// its runs.
func (l *Loader) extractPageRuns(reader *pdf.Reader, pageNum int) (runs []TextRun) {
	defer func() {
		if r := recover(); r != nil {
			if l.debugMode {
				log.Printf("document: text extraction failed on page %d: %v", pageNum, r)
			}
			runs = nil
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}
	return coalesceRuns(page.Content().Text)
}

// coalesceRuns merges per-fragment text into left-to-right runs sharing a
// baseline, ordered top of page first.
func coalesceRuns(texts []pdf.Text) []TextRun {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > baselineSlack {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var runs []TextRun
	var cur *TextRun
	var curEnd float64

	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		fontSize := t.FontSize
		if fontSize == 0 {
			fontSize = defaultRunSize
		}

		sameBaseline := cur != nil && math.Abs(t.Y-cur.Y) <= baselineSlack
		if sameBaseline && t.X >= curEnd-baselineSlack && t.X-curEnd <= maxRunGap {
			cur.Text += t.S
			curEnd = t.X + t.W
			cur.Width = curEnd - cur.X
			if fontSize > cur.FontSize {
				cur.FontSize = fontSize
			}
			continue
		}

		runs = append(runs, TextRun{Text: t.S, X: t.X, Y: t.Y, Width: t.W, FontSize: fontSize})
		cur = &runs[len(runs)-1]
		curEnd = t.X + t.W
	}

	out := runs[:0]
	for _, r := range runs {
		r.Text = strings.TrimSpace(r.Text)
		if r.Text != "" {
			out = append(out, r)
		}
	}
	return out
}

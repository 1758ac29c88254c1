package detect

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/geometry"
	"github.com/formworks/formfield/internal/schema"
)

const (
	// heuristicMargin offsets a proposed field from the label run that
	// produced it.
	heuristicMargin = 6.0
	// dedupTolerance is the vertical distance within which two proposals
	// with the same label collapse into one.
	dedupTolerance = 20.0
)

// heuristicRule ties label keywords to the field type and display label
// proposed when a text run mentions one of them.
type heuristicRule struct {
	keywords  []string
	fieldType schema.FieldType
	label     string
}

// heuristicRules is ordered: the first rule with a keyword contained in
// the run text claims the run.
var heuristicRules = []heuristicRule{
	{keywords: []string{"name"}, fieldType: schema.FieldText, label: "Name"},
	{keywords: []string{"email"}, fieldType: schema.FieldEmail, label: "Email"},
	{keywords: []string{"phone", "tel", "mobile"}, fieldType: schema.FieldTel, label: "Phone"},
	{keywords: []string{"date", "dob", "birth"}, fieldType: schema.FieldDate, label: "Date"},
	{keywords: []string{"signature"}, fieldType: schema.FieldSignature, label: "Signature"},
	{keywords: []string{"address"}, fieldType: schema.FieldText, label: "Address"},
	{keywords: []string{"city"}, fieldType: schema.FieldText, label: "City"},
	{keywords: []string{"state"}, fieldType: schema.FieldText, label: "State"},
	{keywords: []string{"zip"}, fieldType: schema.FieldText, label: "ZIP"},
	{keywords: []string{"ssn"}, fieldType: schema.FieldText, label: "SSN"},
	{keywords: []string{"employer"}, fieldType: schema.FieldText, label: "Employer"},
	{keywords: []string{"occupation"}, fieldType: schema.FieldText, label: "Occupation"},
}

func matchRule(text string) (heuristicRule, bool) {
	lower := strings.ToLower(text)
	for _, rule := range heuristicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule, true
			}
		}
	}
	return heuristicRule{}, false
}

type acceptedProposal struct {
	label   string
	deviceY float64
}

// heuristicFields proposes fields next to label-looking text runs on a
// page that exposed no widget annotations. Placement happens at a
// one-point-per-unit capture scale: a proposal sits just right of the
// run, its top a little above the baseline.
func (d *Detector) heuristicFields(page *document.Page) []schema.FormField {
	var fields []schema.FormField
	var accepted []acceptedProposal

	for _, run := range page.TextRuns {
		rule, ok := matchRule(run.Text)
		if !ok {
			continue
		}

		x := run.X + run.Width + heuristicMargin
		y := (page.HeightPt - run.Y) - heuristicMargin

		if isDuplicate(accepted, rule.label, y) {
			continue
		}
		accepted = append(accepted, acceptedProposal{label: rule.label, deviceY: y})

		w, h := rule.fieldType.DefaultSize()
		g := geometry.ToPercentRect(
			geometry.Rect{X: x, Y: y, Width: w, Height: h},
			page.WidthPt, page.HeightPt)
		g = geometry.ClampToPage(g, page.WidthPt, page.HeightPt)

		fields = append(fields, schema.FormField{
			ID:       uuid.NewString(),
			Name:     schema.NameFromLabel(rule.label),
			Label:    rule.label,
			Type:     rule.fieldType,
			Page:     page.Number,
			Geometry: g,
		})
	}
	return fields
}

// isDuplicate reports whether an already-accepted proposal on this page
// shares the label and sits within dedupTolerance vertically. First
// match wins; later duplicates are dropped before clamping.
func isDuplicate(accepted []acceptedProposal, label string, deviceY float64) bool {
	for _, a := range accepted {
		if math.Abs(a.deviceY-deviceY) <= dedupTolerance && strings.EqualFold(a.label, label) {
			return true
		}
	}
	return false
}

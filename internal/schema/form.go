package schema

import (
	"fmt"
	"strings"
)

// Form is the persisted aggregate tying a name to its field schema and
// the document it fills. Identity is the backing storage id. Saving an
// edited form replaces the whole schema; there are no partial updates.
type Form struct {
	ID       string `json:"id"`
	FormName string `json:"formName"`
	PDFURL   string `json:"pdfUrl"`
	Schema   Schema `json:"schema"`
}

// Submission records one set of filled values and the document generated
// from them. Submissions are immutable: filling the same form again
// creates a new blob and a new record, never edits an old one.
type Submission struct {
	ID              string                `json:"id"`
	FormID          string                `json:"formId"`
	Values          map[string]FieldValue `json:"values"`
	GeneratedPDFURL string                `json:"generatedPdfUrl"`
}

// ValidationError reports required fields that have no submitted value.
// It is raised by callers before generation; the fill engine itself
// silently skips absent values.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing values for %d required field(s): %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}

// ValidateValues checks that every required field has a value, returning
// a *ValidationError naming the field ids that do not.
func ValidateValues(fields []FormField, values map[string]FieldValue) error {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if v, ok := values[f.ID]; !ok || v.IsZero() {
			missing = append(missing, f.ID)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

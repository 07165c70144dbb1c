package errors

import "encoding/json"

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// MarshalJSON implements json.Marshaler for Category
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// MarshalJSON implements json.Marshaler for Diagnostic
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       int               `json:"id"`
		Line     int               `json:"line"`
		Column   int               `json:"column"`
		Message  string            `json:"message"`
		Category Category          `json:"category"`
		Severity Severity          `json:"severity"`
		Context  map[string]string `json:"context,omitempty"`
	}{
		ID:       d.ID,
		Line:     d.Line,
		Column:   d.Column,
		Message:  d.Message,
		Category: d.Category,
		Severity: d.Severity,
		Context:  d.Context,
	})
}

// ToJSON converts a diagnostic list to a JSON-compatible structure for
// tooling consumers
func ToJSON(diags []Diagnostic) map[string]interface{} {
	out := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		entry := map[string]interface{}{
			"id":       d.ID,
			"line":     d.Line,
			"column":   d.Column,
			"message":  d.Message,
			"category": d.Category.String(),
			"severity": d.Severity.String(),
		}
		if len(d.Context) > 0 {
			entry["context"] = d.Context
		}
		out[i] = entry
	}
	return map[string]interface{}{"diagnostics": out}
}

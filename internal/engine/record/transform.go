package record

import (
	"encoding/json"
	"time"
)

// Payload is the inbound webhook event. Nothing about its shape is
// guaranteed beyond an optional data.attributes mapping and an action string.
type Payload struct {
	Action string       `json:"action"`
	Data   *PayloadData `json:"data"`
}

type PayloadData struct {
	Attributes map[string]interface{} `json:"attributes"`
}

// Record is the fixed three-field shape the remote table expects.
type Record struct {
	Name   string
	Notes  string
	Status string
}

// Field names in the remote table.
const (
	FieldName   = "Name"
	FieldNotes  = "Notes"
	FieldStatus = "Status"
)

// StatusOptions are the select values the Status field is known to accept.
var StatusOptions = []string{"Not started", "In progress", "Done"}

const fallbackNamePrefix = "Planning Center Item - "

// FromPayload maps a webhook payload onto a Record using ordered-priority
// field lookups. A payload with no data object yields a fixed error record
// rather than failing, so malformed events still leave a trace in the table.
func FromPayload(p *Payload, now func() time.Time) Record {
	if p == nil || p.Data == nil {
		return Record{Name: "Unknown", Notes: "No data received", Status: "ERROR"}
	}

	attrs := p.Data.Attributes

	return Record{
		Name:   extractName(attrs, now),
		Notes:  extractNotes(p.Data, attrs),
		Status: extractStatus(p.Action, attrs),
	}
}

// Fields renders the record as the store's field mapping.
func (r Record) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:   r.Name,
		FieldNotes:  r.Notes,
		FieldStatus: r.Status,
	}
}

func extractName(attrs map[string]interface{}, now func() time.Time) string {
	first := stringAttr(attrs, "first_name")
	last := stringAttr(attrs, "last_name")
	if first != "" && last != "" {
		return first + " " + last
	}
	if name := stringAttr(attrs, "name"); name != "" {
		return name
	}
	if title := stringAttr(attrs, "title"); title != "" {
		return title
	}
	return fallbackNamePrefix + now().UTC().Format(time.RFC3339)
}

func extractNotes(data *PayloadData, attrs map[string]interface{}) string {
	if desc := stringAttr(attrs, "description"); desc != "" {
		return desc
	}
	if notes := stringAttr(attrs, "notes"); notes != "" {
		return notes
	}
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("{}")
	}
	return "Raw data: " + string(raw)
}

// extractStatus maps the event action onto a select value. Unknown and absent
// actions fall back to the payload's own status, but only when that status is
// already one the table accepts.
func extractStatus(action string, attrs map[string]interface{}) string {
	switch action {
	case "created":
		return "Not started"
	case "updated":
		return "In progress"
	case "deleted", "completed":
		return "Done"
	}

	if status := stringAttr(attrs, "status"); status != "" {
		for _, allowed := range StatusOptions {
			if status == allowed {
				return status
			}
		}
	}
	return "Not started"
}

// stringAttr returns the attribute when it is a non-empty string; any other
// type falls through to the next extraction priority.
func stringAttr(attrs map[string]interface{}, key string) string {
	if attrs == nil {
		return ""
	}
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

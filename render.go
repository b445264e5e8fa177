package flume

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Renderer converts an Event to its text representation.
//
// Renderers are pure: no I/O, no state beyond static configuration. Each
// sink renders lazily with its own Renderer, so one logger can feed a
// plain-text console and a JSON file at the same time.
type Renderer interface {
	Render(event Event) string
}

// fieldValue normalizes a field's value for serialization. Errors marshal
// to empty objects under encoding/json, so they are flattened to their
// message here.
func fieldValue(f Field) any {
	if f.Type == ErrorType {
		if err, ok := f.Value.(error); ok && err != nil {
			return err.Error()
		}
	}
	return f.Value
}

// PlainRenderer renders events as single human-readable lines:
//
//	[2023-10-20T15:04:05Z] worker [ERROR] Connection lost {"attempt":3}
//
// Each part is optional except the level tag and message:
//   - "[timestamp] " when ShowTimestamp is set, formatted with TimeFormat
//   - "prefix " when the event carries a prefix
//   - trailing " {json-fields}" when the event carries fields
type PlainRenderer struct {
	// ShowTimestamp controls the leading "[timestamp] " part.
	ShowTimestamp bool

	// TimeFormat is the time layout for the timestamp part.
	// Defaults to time.RFC3339 when empty.
	TimeFormat string
}

// Render implements Renderer.
func (r PlainRenderer) Render(event Event) string {
	var b strings.Builder

	if r.ShowTimestamp {
		layout := r.TimeFormat
		if layout == "" {
			layout = time.RFC3339
		}
		b.WriteByte('[')
		b.WriteString(event.Time.Format(layout))
		b.WriteString("] ")
	}

	if event.Prefix != "" {
		b.WriteString(event.Prefix)
		b.WriteByte(' ')
	}

	b.WriteByte('[')
	b.WriteString(string(event.Level))
	b.WriteString("] ")
	b.WriteString(event.Message)

	if len(event.Fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(renderFieldsJSON(event.Fields))
	}

	return b.String()
}

// renderFieldsJSON serializes fields as a JSON object preserving field
// order, which encoding/json's map marshaling would not.
func renderFieldsJSON(fields Fields) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.Key)
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(fieldValue(f))
		if err != nil {
			val, _ = json.Marshal(fmt.Sprintf("%v", f.Value))
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String()
}

// JSONRenderer renders events as flat JSON objects, one per line, in the
// format log aggregation systems expect:
//
//	{"time":"2023-10-20T15:04:05.123Z","level":"INFO","message":"User logged in","user_id":"123"}
//
// Structured fields become top-level properties. This flattens the
// structure but makes fields easily searchable.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(event Event) string {
	entry := map[string]any{
		"time":    event.Time.Format(time.RFC3339Nano),
		"level":   string(event.Level),
		"message": event.Message,
	}

	if event.Prefix != "" {
		entry["prefix"] = event.Prefix
	}

	// Add all structured fields as top-level JSON properties
	for _, field := range event.Fields {
		entry[field.Key] = fieldValue(field)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Marshal failures are limited to exotic field values; degrade to
		// a minimal record rather than dropping the event.
		fallback := map[string]string{
			"time":    event.Time.Format(time.RFC3339Nano),
			"level":   string(event.Level),
			"message": event.Message,
		}
		data, _ = json.Marshal(fallback)
	}
	return string(data)
}

// Package realtime fans Postgres row-change notifications out to per-resource
// subscribers.
package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event is one row change as emitted by notify_row_change(). Record is null
// for deletes and Old is null for inserts. Partial events carry only the
// key and filter columns of rows too large for a NOTIFY payload.
type Event struct {
	Table   string          `json:"table"`
	Type    string          `json:"type"`
	Record  json.RawMessage `json:"record,omitempty"`
	Old     json.RawMessage `json:"old,omitempty"`
	Partial bool            `json:"partial,omitempty"`
}

func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode row change: %w", err)
	}
	if ev.Table == "" || ev.Type == "" {
		return Event{}, fmt.Errorf("row change without table or type")
	}
	return ev, nil
}

// row is the row the event is about: Record, or Old for deletes.
func (e Event) row() json.RawMessage {
	if isNull(e.Record) {
		return e.Old
	}
	return e.Record
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Filter selects events of one table, optionally narrowed to rows whose
// Column equals Value.
type Filter struct {
	Table  string
	Column string
	Value  string
}

func (f Filter) matches(ev Event, fields map[string]interface{}) bool {
	if f.Table != ev.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	v, ok := fields[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

func decodeFields(raw json.RawMessage) map[string]interface{} {
	if isNull(raw) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil
	}
	return fields
}

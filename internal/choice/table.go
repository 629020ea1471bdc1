// Package choice turns decoded list output into sorted key/label tables used for
// selection prompts and membership checks.
package choice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnsupportedShape is returned by DecodeRecords for JSON that is neither an array,
// an object nor null.
var ErrUnsupportedShape = errors.New("list output must be a JSON array or object")

// Record is one decoded list row: field name to raw value.
type Record map[string]any

// Entry is one row of a Table.
type Entry struct {
	Key   string
	Label string
}

// Table maps option keys to display labels. Keys are unique and kept sorted ascending.
type Table struct {
	entries []Entry
	index   map[string]int
}

// NewTable builds a table from entries. Later duplicates override earlier ones.
func NewTable(entries ...Entry) Table {
	byKey := make(map[string]string, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e.Label
	}
	return fromMap(byKey)
}

// BuildTable projects records onto keyField/labelField. Records missing either field, or
// holding null in either, are skipped. Later records with a repeated key override earlier
// ones.
func BuildTable(records []Record, keyField, labelField string) Table {
	byKey := make(map[string]string, len(records))
	for _, rec := range records {
		key, ok := stringValue(rec, keyField)
		if !ok {
			continue
		}
		label, ok := stringValue(rec, labelField)
		if !ok {
			continue
		}
		byKey[key] = label
	}
	return fromMap(byKey)
}

func fromMap(byKey map[string]string) Table {
	t := Table{
		entries: make([]Entry, 0, len(byKey)),
		index:   make(map[string]int, len(byKey)),
	}
	for k, v := range byKey {
		t.entries = append(t.entries, Entry{Key: k, Label: v})
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].Key < t.entries[j].Key })
	for i, e := range t.entries {
		t.index[e.Key] = i
	}
	return t
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.entries) }

// Has reports whether key is present.
func (t Table) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Label returns the label for key, or "" when absent.
func (t Table) Label(key string) string {
	if i, ok := t.index[key]; ok {
		return t.entries[i].Label
	}
	return ""
}

// Keys returns the keys in ascending order.
func (t Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the rows in key order.
func (t Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Map returns the table as a plain map.
func (t Table) Map() map[string]string {
	m := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		m[e.Key] = e.Label
	}
	return m
}

// Without returns a copy of t minus the given keys.
func (t Table) Without(keys ...string) Table {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	byKey := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		if !drop[e.Key] {
			byKey[e.Key] = e.Label
		}
	}
	return fromMap(byKey)
}

// Merge returns a table holding t's entries overridden by other's.
func (t Table) Merge(other Table) Table {
	byKey := t.Map()
	for _, e := range other.entries {
		byKey[e.Key] = e.Label
	}
	return fromMap(byKey)
}

// DecodeRecords decodes list output into records. terminus emits either a JSON array of
// objects or an object keyed by id whose values are objects; null decodes to no records.
// Non-object rows are ignored. Object-shaped output is returned in ascending id order.
func DecodeRecords(raw json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding list output: %w", err)
	}

	switch typed := v.(type) {
	case []any:
		records := make([]Record, 0, len(typed))
		for _, row := range typed {
			if obj, ok := row.(map[string]any); ok {
				records = append(records, Record(obj))
			}
		}
		return records, nil
	case map[string]any:
		ids := make([]string, 0, len(typed))
		for id := range typed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		records := make([]Record, 0, len(ids))
		for _, id := range ids {
			if obj, ok := typed[id].(map[string]any); ok {
				records = append(records, Record(obj))
			}
		}
		return records, nil
	default:
		return nil, ErrUnsupportedShape
	}
}

// stringValue renders rec[field] as a string. Numbers keep their JSON literal.
func stringValue(rec Record, field string) (string, bool) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", false
	}
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	default:
		b, err := json.Marshal(typed)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

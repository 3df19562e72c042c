package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata is a schema-less bag of gateway-supplied fields stored as a JSON
// column. It is merge-only: reconciliation appends audit fields, it never
// replaces the map wholesale.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", src)
	}
	if len(b) == 0 {
		*m = Metadata{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// Merge copies the given fields into a new map, overwriting individual keys
// but keeping everything accumulated earlier.
func (m Metadata) Merge(fields map[string]interface{}) Metadata {
	out := Metadata{}
	for k, v := range m {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// StringList is a []string persisted as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// Int64List is a []int64 persisted as a JSON column.
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Int64List) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	}
	return errors.New("unsupported JSON column type")
}

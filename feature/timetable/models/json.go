package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// HashListing maps a collection name to the ordered entity hashes present
// in a snapshot. Stored as a JSON column.
type HashListing map[string][]string

// DiffEntry is a single change relative to the previous update.
type DiffEntry struct {
	// Type is "+" for added, "-" for removed.
	Type string `json:"type"`
	Hash string `json:"hash"`
}

// DiffListing maps a collection name to its diff entries. Stored as a
// JSON column.
type DiffListing map[string][]DiffEntry

func (l HashListing) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *HashListing) Scan(src any) error {
	return jsonScan(src, l)
}

func (l DiffListing) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *DiffListing) Scan(src any) error {
	return jsonScan(src, l)
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src, dst any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
}

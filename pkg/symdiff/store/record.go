package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the current record format version.
// Increment when making breaking changes to the record structure.
const Version = 1

// Record is one persisted derivation. Trees are kept in their sexpr text form.
type Record struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Variable  string    `json:"variable"`
	Order     int       `json:"order"`
	Result    string    `json:"result"`
	NodeCount int       `json:"node_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord creates a record for the order-th derivative of source.
func NewRecord(source, variable string, order int, result string, nodeCount int) *Record {
	return &Record{
		Version:   Version,
		ID:        uuid.NewString(),
		Source:    source,
		Variable:  variable,
		Order:     order,
		Result:    result,
		NodeCount: nodeCount,
		CreatedAt: time.Now().UTC(),
	}
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version > Version {
		return nil, fmt.Errorf("record version %d is newer than supported version %d", r.Version, Version)
	}
	return &r, nil
}

// prepare validates rec and fills defaults before it is stored.
func prepare(rec *Record) ([]byte, error) {
	if rec == nil || rec.Variable == "" {
		return nil, ErrInvalidRecord
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Version == 0 {
		rec.Version = Version
	}
	data, err := rec.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}

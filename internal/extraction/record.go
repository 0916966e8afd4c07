package extraction

import (
	"bytes"
	"encoding/json"
)

// Pair is one label/value row of a record
type Pair struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Record is the flat output of one document under one schema. Labels keep
// the order in which they were set.
type Record struct {
	pairs  []Pair
	index  map[string]int
	issues []error
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Set stores value under label. Setting an existing label replaces its
// value and keeps its original position.
func (r *Record) Set(label string, value any) {
	if i, ok := r.index[label]; ok {
		r.pairs[i].Value = value
		return
	}
	r.index[label] = len(r.pairs)
	r.pairs = append(r.pairs, Pair{Label: label, Value: value})
}

// Get returns the value stored under label
func (r *Record) Get(label string) (any, bool) {
	i, ok := r.index[label]
	if !ok {
		return nil, false
	}
	return r.pairs[i].Value, true
}

// Labels returns the labels in insertion order
func (r *Record) Labels() []string {
	labels := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		labels[i] = p.Label
	}
	return labels
}

// Pairs returns a copy of the rows in insertion order
func (r *Record) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Len returns the number of labels
func (r *Record) Len() int {
	return len(r.pairs)
}

// Issues returns the recoverable errors met while building the record
func (r *Record) Issues() []error {
	return r.issues
}

func (r *Record) addIssue(err error) {
	r.issues = append(r.issues, err)
}

// MarshalJSON encodes the record as a JSON object whose keys follow
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ResultSet holds one record per analyzed document, in document order
type ResultSet []*Record

// Issues flattens the issues of every record
func (rs ResultSet) Issues() []error {
	var out []error
	for _, r := range rs {
		out = append(out, r.issues...)
	}
	return out
}

package answer

import (
	"bytes"
	"encoding/json"
)

// ResultType enum: bentuk payload di Envelope
type ResultType string

const (
	TypeScalar    ResultType = "scalar"
	TypeSeries    ResultType = "series"
	TypeDataframe ResultType = "dataframe"
	TypeOther     ResultType = "other"
)

// Envelope is the uniform response for every question. Invariant: ResultType
// matches the shape of ResultData (scalar → number, series → ordered mapping,
// dataframe → sequence of row mappings).
type Envelope struct {
	Explanation string     `json:"explanation"`
	Result      string     `json:"result"`
	ResultData  any        `json:"result_data"`
	ResultType  ResultType `json:"result_type"`
	RawResponse string     `json:"raw_response,omitempty"`
}

// ShapeOK reports whether ResultData matches ResultType. Used by tests and
// the HTTP layer's sanity check; handlers must never produce a mismatch.
func (e *Envelope) ShapeOK() bool {
	switch e.ResultType {
	case TypeScalar:
		switch e.ResultData.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case TypeSeries:
		switch e.ResultData.(type) {
		case Series, map[string]any:
			return true
		}
		return false
	case TypeDataframe:
		switch e.ResultData.(type) {
		case []map[string]any, map[string]any, Series:
			return true
		}
		return false
	case TypeOther:
		return true
	}
	return false
}

// Item is one key/value entry of a Series.
type Item struct {
	Key   string
	Value any
}

// Series is an ordered key → value mapping. JSON marshals as an object with
// keys in slice order, so text rendering and payload always agree.
type Series []Item

func (s Series) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, it := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(it.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(it.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Keys returns the keys in order.
func (s Series) Keys() []string {
	out := make([]string, len(s))
	for i, it := range s {
		out[i] = it.Key
	}
	return out
}

// Values returns the values in order.
func (s Series) Values() []any {
	out := make([]any, len(s))
	for i, it := range s {
		out[i] = it.Value
	}
	return out
}

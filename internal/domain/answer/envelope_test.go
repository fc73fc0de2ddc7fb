package answer

import (
	"encoding/json"
	"testing"
)

func TestSeriesMarshalsInOrder(t *testing.T) {
	s := Series{
		{Key: "zulu", Value: 3},
		{Key: "alpha", Value: 1.5},
		{Key: "mike", Value: "x"},
	}
	got, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zulu":3,"alpha":1.5,"mike":"x"}`
	if string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestSeriesEmptyMarshalsAsObject(t *testing.T) {
	got, err := json.Marshal(Series{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("got %s", got)
	}
}

func TestShapeOK(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
		want bool
	}{
		{"scalar float", Envelope{ResultType: TypeScalar, ResultData: 1.5}, true},
		{"scalar int", Envelope{ResultType: TypeScalar, ResultData: 7}, true},
		{"scalar string", Envelope{ResultType: TypeScalar, ResultData: "7"}, false},
		{"series", Envelope{ResultType: TypeSeries, ResultData: Series{{Key: "a", Value: 1}}}, true},
		{"series wrong", Envelope{ResultType: TypeSeries, ResultData: []int{1}}, false},
		{"dataframe rows", Envelope{ResultType: TypeDataframe, ResultData: []map[string]any{{"a": 1}}}, true},
		{"dataframe scalar", Envelope{ResultType: TypeDataframe, ResultData: 1.0}, false},
		{"other anything", Envelope{ResultType: TypeOther, ResultData: struct{}{}}, true},
		{"unknown type", Envelope{ResultType: "table", ResultData: 1}, false},
	}
	for _, tc := range cases {
		if got := tc.env.ShapeOK(); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

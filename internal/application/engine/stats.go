package engine

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// Reductions degrade to zero on empty input instead of erroring; a filtered
// set can legitimately be empty and the caller still needs a number.

func meanOf(vals []float64) float64 {
	v, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return v
}

func medianOf(vals []float64) float64 {
	v, err := stats.Median(vals)
	if err != nil {
		return 0
	}
	return v
}

// modeOf mirrors the usual convention of reporting the smallest value among
// ties for most frequent.
func modeOf(vals []float64) (float64, bool) {
	m, err := stats.Mode(vals)
	if err != nil || len(m) == 0 {
		// all values equally frequent: fall back to the smallest
		if len(vals) == 0 {
			return 0, false
		}
		v, err := stats.Min(vals)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	v, err := stats.Min(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stdOf(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	v, err := stats.StandardDeviationSample(vals)
	if err != nil {
		return 0
	}
	return v
}

func percentileOf(vals []float64, p float64) float64 {
	v, err := stats.Percentile(vals, p)
	if err != nil {
		return 0
	}
	return v
}

func minOf(vals []float64) float64 {
	v, err := stats.Min(vals)
	if err != nil {
		return 0
	}
	return v
}

func maxOf(vals []float64) float64 {
	v, err := stats.Max(vals)
	if err != nil {
		return 0
	}
	return v
}

// describeSeries builds the eight-line descriptive summary for a numeric
// column, in the conventional order.
func describeSeries(vals []float64) answer.Series {
	return answer.Series{
		{Key: "count", Value: float64(len(vals))},
		{Key: "mean", Value: meanOf(vals)},
		{Key: "std", Value: stdOf(vals)},
		{Key: "min", Value: minOf(vals)},
		{Key: "25%", Value: percentileOf(vals, 25)},
		{Key: "50%", Value: medianOf(vals)},
		{Key: "75%", Value: percentileOf(vals, 75)},
		{Key: "max", Value: maxOf(vals)},
	}
}

// seriesText renders a Series the way a printed pandas Series looks: one
// "key  value" line per entry, keys left-aligned.
func seriesText(s answer.Series) string {
	w := 0
	for _, it := range s {
		if len(it.Key) > w {
			w = len(it.Key)
		}
	}
	var b strings.Builder
	for i, it := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.Key)
		b.WriteString(strings.Repeat(" ", w-len(it.Key)+4))
		switch v := it.Value.(type) {
		case float64:
			b.WriteString(dataset.FormatFloat(v))
		default:
			b.WriteString(fmt.Sprintf("%v", v))
		}
	}
	return b.String()
}

// countsSeries converts value frequencies into an ordered Series.
func countsSeries(vc []dataset.ValueCount) answer.Series {
	out := make(answer.Series, len(vc))
	for i, v := range vc {
		out[i] = answer.Item{Key: v.Value, Value: v.Count}
	}
	return out
}

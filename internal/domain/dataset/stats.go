package dataset

import "gonum.org/v1/gonum/stat"

// Pearson computes the correlation between two numeric columns over rows
// where both are non-null (pairwise complete observations). Returns 0 for
// constant columns or fewer than two shared observations.
func Pearson(t *Table, a, b string) float64 {
	ca, ok1 := t.Column(a)
	cb, ok2 := t.Column(b)
	if !ok1 || !ok2 {
		return 0
	}
	var xs, ys []float64
	for i := 0; i < ca.Len(); i++ {
		x, okx := ca.FloatAt(i)
		y, oky := cb.FloatAt(i)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if r != r { // NaN for zero variance
		return 0
	}
	return r
}

// SkewKurtosis returns the bias-corrected sample skewness and excess
// kurtosis. Requires more than two values; ok is false otherwise.
func SkewKurtosis(vals []float64) (skew, kurt float64, ok bool) {
	if len(vals) <= 2 {
		return 0, 0, false
	}
	skew = stat.Skew(vals, nil)
	kurt = stat.ExKurtosis(vals, nil)
	if skew != skew || kurt != kurt {
		return 0, 0, false
	}
	return skew, kurt, true
}

package raster

// SumSquaredDiff computes the exact sum of squared intensity differences
// between two equal-size rasters. The result is an integer, which keeps
// score comparisons exact: the search relies on a zero sum meaning
// pixel-identical rasters.
func SumSquaredDiff(a, b *Raster) (int64, error) {
	if a.W != b.W || a.H != b.H {
		return 0, ErrSizeMismatch
	}
	var sum int64
	for i := range a.Pix {
		d := int64(a.Pix[i]) - int64(b.Pix[i])
		sum += d * d
	}
	return sum, nil
}

// MSE computes the mean squared intensity error between two equal-size
// rasters. It is 0 if and only if the rasters are pixel-identical.
func MSE(a, b *Raster) (float64, error) {
	sum, err := SumSquaredDiff(a, b)
	if err != nil {
		return 0, err
	}
	return float64(sum) / float64(a.W*a.H), nil
}

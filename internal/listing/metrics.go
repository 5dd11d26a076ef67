package listing

import "math"

// PricePerArea returns cost divided by area, rounded to one decimal.
// It is not available unless both are found and positive.
func PricePerArea(cost, area Field[int]) Field[float64] {
	c, okCost := cost.Get()
	a, okArea := area.Get()
	if !okCost || !okArea || c <= 0 || a <= 0 {
		return NotAvailable[float64]()
	}
	return Found(math.Round(float64(c)/float64(a)*10) / 10)
}

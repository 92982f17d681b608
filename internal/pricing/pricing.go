// Package pricing derives read-time price fields for hospital test offerings.
package pricing

import "math"

// Terms are the commercial fields of an offering that affect its price.
type Terms struct {
	Price                   float64
	DiscountAvailable       bool
	DiscountPercentage      *float64
	HomeCollectionAvailable bool
	HomeCollectionFee       *float64
}

// Quote is the set of derived price fields attached to an offering on read.
type Quote struct {
	DiscountedPrice float64 `json:"discounted_price"`
	TotalCost       float64 `json:"total_cost"`
}

// discount returns the active discount fraction, or 0.
func (t Terms) discount() float64 {
	if !t.DiscountAvailable || t.DiscountPercentage == nil || *t.DiscountPercentage <= 0 {
		return 0
	}
	return math.Min(*t.DiscountPercentage, 100) / 100
}

// DiscountedPrice is price reduced by the active discount.
func DiscountedPrice(t Terms) float64 {
	return Round2(t.Price * (1 - t.discount()))
}

// TotalCost adds the home collection fee when requested and offered, then
// applies the discount to the sum.
func TotalCost(t Terms, includeHomeCollection bool) float64 {
	total := t.Price
	if includeHomeCollection && t.HomeCollectionAvailable && t.HomeCollectionFee != nil && *t.HomeCollectionFee > 0 {
		total += *t.HomeCollectionFee
	}
	return Round2(total * (1 - t.discount()))
}

// Price builds the quote for an offering.
func Price(t Terms, includeHomeCollection bool) Quote {
	return Quote{
		DiscountedPrice: DiscountedPrice(t),
		TotalCost:       TotalCost(t, includeHomeCollection),
	}
}

// Round2 rounds half away from zero at two decimal places. The value is nudged
// by 1e-9 first so amounts like 1.005, stored as 1.00499999..., still round up.
func Round2(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100+math.Copysign(1e-9, v)) / 100
}

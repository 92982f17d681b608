package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestDiscountedPrice(t *testing.T) {
	terms := Terms{Price: 1000, DiscountAvailable: true, DiscountPercentage: f(10)}
	assert.Equal(t, 900.0, DiscountedPrice(terms))
}

func TestDiscountedPrice_InactiveDiscount(t *testing.T) {
	assert.Equal(t, 1000.0, DiscountedPrice(Terms{Price: 1000, DiscountAvailable: false, DiscountPercentage: f(10)}))
	assert.Equal(t, 1000.0, DiscountedPrice(Terms{Price: 1000, DiscountAvailable: true}))
	assert.Equal(t, 1000.0, DiscountedPrice(Terms{Price: 1000, DiscountAvailable: true, DiscountPercentage: f(0)}))
}

func TestTotalCost_FeeBeforeDiscount(t *testing.T) {
	terms := Terms{
		Price:                   1000,
		DiscountAvailable:       true,
		DiscountPercentage:      f(10),
		HomeCollectionAvailable: true,
		HomeCollectionFee:       f(50),
	}

	assert.Equal(t, 945.0, TotalCost(terms, true))
	assert.Equal(t, 900.0, TotalCost(terms, false))
	assert.Equal(t, 900.0, DiscountedPrice(terms))
}

func TestTotalCost_FeeIgnoredWhenNotOffered(t *testing.T) {
	terms := Terms{Price: 500, HomeCollectionAvailable: false, HomeCollectionFee: f(80)}
	assert.Equal(t, 500.0, TotalCost(terms, true))

	terms = Terms{Price: 500, HomeCollectionAvailable: true}
	assert.Equal(t, 500.0, TotalCost(terms, true))
}

func TestTotalCost_NoDiscount(t *testing.T) {
	terms := Terms{Price: 750.5, HomeCollectionAvailable: true, HomeCollectionFee: f(100)}
	assert.Equal(t, 850.5, TotalCost(terms, true))
}

func TestPrice_BothFieldsShareRounding(t *testing.T) {
	terms := Terms{Price: 333.33, DiscountAvailable: true, DiscountPercentage: f(15)}
	q := Price(terms, true)

	assert.Equal(t, 283.33, q.DiscountedPrice)
	assert.Equal(t, q.DiscountedPrice, q.TotalCost)
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := map[float64]float64{
		1.005:   1.01,
		2.675:   2.68,
		1.004:   1.0,
		-1.005:  -1.01,
		0.125:   0.13,
		945.0:   945.0,
		0:       0,
		1234.56: 1234.56,
	}
	for in, want := range tests {
		assert.Equal(t, want, Round2(in), "Round2(%v)", in)
	}
}

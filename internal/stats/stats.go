// Package stats reduces full catalog collections into read-only summary views.
package stats

import (
	"cmp"
	"slices"

	"hospital-directory/internal/models"
	"hospital-directory/internal/pricing"
)

// DefaultPopularLimit is the number of tests returned by Popular when n <= 0.
const DefaultPopularLimit = 10

// TestRef names one test inside a category group.
type TestRef struct {
	Name string `json:"name"`
	ID   uint   `json:"id"`
}

// CategoryGroup is one test_category with its members.
type CategoryGroup struct {
	Category models.Department `json:"category"`
	Count    int               `json:"count"`
	Tests    []TestRef         `json:"tests"`
}

// CategoryCount is one test_category with its size.
type CategoryCount struct {
	Category models.Department `json:"category"`
	Count    int               `json:"count"`
}

// TurnaroundCount is one turnaround_time value with its size.
type TurnaroundCount struct {
	TurnaroundTime string `json:"turnaround_time"`
	Count          int    `json:"count"`
}

// Overview holds catalog-wide counters.
type Overview struct {
	TotalTests      int `json:"totalTests"`
	FastingRequired int `json:"fastingRequired"`
	MaleSpecific    int `json:"maleSpecific"`
	FemaleSpecific  int `json:"femaleSpecific"`
	BothGenders     int `json:"bothGenders"`
}

// TestStats is the response of the catalog statistics endpoint.
type TestStats struct {
	Overview         Overview          `json:"overview"`
	ByCategory       []CategoryCount   `json:"byCategory"`
	ByTurnaroundTime []TurnaroundCount `json:"byTurnaroundTime"`
}

// PopularTest is a catalog test with its popularity proxies.
type PopularTest struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	TestCategory    models.Department `json:"test_category"`
	Description     string            `json:"description"`
	TurnaroundTime  string            `json:"turnaround_time"`
	FastingRequired bool              `json:"fasting_required"`
	KeywordCount    int               `json:"keywordCount"`
	AliasCount      int               `json:"aliasCount"`
}

// CategoryBreakdown groups tests by category, ordered by category ascending.
// Members keep the input order.
func CategoryBreakdown(tests []models.MedicalTest) []CategoryGroup {
	index := make(map[models.Department]int)
	groups := []CategoryGroup{}
	for _, t := range tests {
		i, ok := index[t.TestCategory]
		if !ok {
			i = len(groups)
			index[t.TestCategory] = i
			groups = append(groups, CategoryGroup{Category: t.TestCategory, Tests: []TestRef{}})
		}
		groups[i].Count++
		groups[i].Tests = append(groups[i].Tests, TestRef{Name: t.Name, ID: t.ID})
	}
	slices.SortFunc(groups, func(a, b CategoryGroup) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return groups
}

// CategoryCounts counts tests per category, largest first.
func CategoryCounts(tests []models.MedicalTest) []CategoryCount {
	counts := make(map[models.Department]int)
	for _, t := range tests {
		counts[t.TestCategory]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// TurnaroundBreakdown counts tests per turnaround_time, largest first.
func TurnaroundBreakdown(tests []models.MedicalTest) []TurnaroundCount {
	counts := make(map[string]int)
	for _, t := range tests {
		counts[t.TurnaroundTime]++
	}
	out := make([]TurnaroundCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TurnaroundCount{TurnaroundTime: k, Count: n})
	}
	slices.SortFunc(out, func(a, b TurnaroundCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.TurnaroundTime, b.TurnaroundTime)
	})
	return out
}

// Summarize computes the overview counters in one pass.
func Summarize(tests []models.MedicalTest) Overview {
	o := Overview{TotalTests: len(tests)}
	for _, t := range tests {
		if t.FastingRequired {
			o.FastingRequired++
		}
		switch t.GenderSpecific {
		case models.GenderMale:
			o.MaleSpecific++
		case models.GenderFemale:
			o.FemaleSpecific++
		case models.GenderBoth:
			o.BothGenders++
		}
	}
	return o
}

// Stats builds the full statistics view.
func Stats(tests []models.MedicalTest) TestStats {
	return TestStats{
		Overview:         Summarize(tests),
		ByCategory:       CategoryCounts(tests),
		ByTurnaroundTime: TurnaroundBreakdown(tests),
	}
}

// Popular ranks tests by keyword count, then alias count, both descending,
// then name ascending, and returns the first n. Usage telemetry is not
// consulted; list sizes stand in for popularity.
func Popular(tests []models.MedicalTest, n int) []PopularTest {
	if n <= 0 {
		n = DefaultPopularLimit
	}
	ranked := make([]PopularTest, 0, len(tests))
	for _, t := range tests {
		ranked = append(ranked, PopularTest{
			ID:              t.ID,
			Name:            t.Name,
			TestCategory:    t.TestCategory,
			Description:     t.Description,
			TurnaroundTime:  t.TurnaroundTime,
			FastingRequired: t.FastingRequired,
			KeywordCount:    len(t.Keywords),
			AliasCount:      len(t.Aliases),
		})
	}
	slices.SortStableFunc(ranked, func(a, b PopularTest) int {
		if c := cmp.Compare(b.KeywordCount, a.KeywordCount); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AliasCount, a.AliasCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CurrencyPrices summarizes active offering prices in one currency.
type CurrencyPrices struct {
	Currency models.Currency `json:"currency"`
	Count    int             `json:"count"`
	MinPrice float64         `json:"minPrice"`
	MaxPrice float64         `json:"maxPrice"`
	AvgPrice float64         `json:"avgPrice"`
}

// OfferingOverview holds counters over the offering collection.
type OfferingOverview struct {
	TotalOfferings int              `json:"totalOfferings"`
	Active         int              `json:"active"`
	Featured       int              `json:"featured"`
	HomeCollection int              `json:"homeCollection"`
	Discounted     int              `json:"discounted"`
	ByCurrency     []CurrencyPrices `json:"byCurrency"`
}

// SummarizeOfferings computes offering counters in one pass. Price figures
// cover active offerings only and use the discounted price.
func SummarizeOfferings(offerings []models.HospitalTestOffering) OfferingOverview {
	o := OfferingOverview{TotalOfferings: len(offerings), ByCurrency: []CurrencyPrices{}}
	sums := make(map[models.Currency]float64)
	index := make(map[models.Currency]int)

	for _, off := range offerings {
		if off.Featured {
			o.Featured++
		}
		if off.HomeCollectionAvailable {
			o.HomeCollection++
		}
		if off.DiscountAvailable {
			o.Discounted++
		}
		if !off.Active() {
			continue
		}
		o.Active++

		price := pricing.DiscountedPrice(off.PricingTerms())
		i, ok := index[off.Currency]
		if !ok {
			i = len(o.ByCurrency)
			index[off.Currency] = i
			o.ByCurrency = append(o.ByCurrency, CurrencyPrices{Currency: off.Currency, MinPrice: price, MaxPrice: price})
		}
		c := &o.ByCurrency[i]
		c.Count++
		c.MinPrice = min(c.MinPrice, price)
		c.MaxPrice = max(c.MaxPrice, price)
		sums[off.Currency] += price
	}

	for i := range o.ByCurrency {
		c := &o.ByCurrency[i]
		c.AvgPrice = pricing.Round2(sums[c.Currency] / float64(c.Count))
	}
	slices.SortFunc(o.ByCurrency, func(a, b CurrencyPrices) int {
		return cmp.Compare(a.Currency, b.Currency)
	})
	return o
}

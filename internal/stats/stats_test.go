package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-directory/internal/models"
)

func catalog() []models.MedicalTest {
	return []models.MedicalTest{
		{ID: 1, Name: "Lipid Profile", TestCategory: "Cardiology", FastingRequired: true, TurnaroundTime: "24 hours", GenderSpecific: models.GenderBoth, Keywords: []string{"cholesterol", "lipid", "heart"}, Aliases: []string{"LP"}},
		{ID: 2, Name: "Complete Blood Count", TestCategory: "Hematology", TurnaroundTime: "6 hours", GenderSpecific: models.GenderBoth, Keywords: []string{"cbc", "blood", "anemia"}, Aliases: []string{"CBC", "Hemogram"}},
		{ID: 3, Name: "PSA", TestCategory: "Urology", TurnaroundTime: "24 hours", GenderSpecific: models.GenderMale, Keywords: []string{"prostate"}},
		{ID: 4, Name: "Pap Smear", TestCategory: "Gynecology", TurnaroundTime: "3 days", GenderSpecific: models.GenderFemale, Keywords: []string{"cervix"}},
		{ID: 5, Name: "ECG", TestCategory: "Cardiology", TurnaroundTime: "24 hours", GenderSpecific: models.GenderBoth},
		{ID: 6, Name: "Fasting Glucose", TestCategory: "Endocrinology", FastingRequired: true, TurnaroundTime: "6 hours", GenderSpecific: models.GenderBoth, Keywords: []string{"sugar", "diabetes", "glucose"}, Aliases: []string{"FBS", "FBG"}},
	}
}

func TestCategoryBreakdown_SortedByCategory(t *testing.T) {
	groups := CategoryBreakdown(catalog())

	require.Len(t, groups, 5)
	assert.Equal(t, models.Department("Cardiology"), groups[0].Category)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []TestRef{{Name: "Lipid Profile", ID: 1}, {Name: "ECG", ID: 5}}, groups[0].Tests)
	assert.Equal(t, models.Department("Urology"), groups[4].Category)
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	assert.Empty(t, CategoryBreakdown(nil))
	assert.NotNil(t, CategoryBreakdown(nil))
}

func TestSummarize_OnePass(t *testing.T) {
	o := Summarize(catalog())

	assert.Equal(t, Overview{TotalTests: 6, FastingRequired: 2, MaleSpecific: 1, FemaleSpecific: 1, BothGenders: 4}, o)
}

func TestTurnaroundBreakdown_CountDescending(t *testing.T) {
	got := TurnaroundBreakdown(catalog())

	assert.Equal(t, []TurnaroundCount{
		{TurnaroundTime: "24 hours", Count: 3},
		{TurnaroundTime: "6 hours", Count: 2},
		{TurnaroundTime: "3 days", Count: 1},
	}, got)
}

func TestCategoryCounts_CountDescending(t *testing.T) {
	got := CategoryCounts(catalog())

	require.Len(t, got, 5)
	assert.Equal(t, CategoryCount{Category: "Cardiology", Count: 2}, got[0])
	assert.Equal(t, models.Department("Endocrinology"), got[1].Category)
}

func TestStats_Combined(t *testing.T) {
	s := Stats(catalog())

	assert.Equal(t, 6, s.Overview.TotalTests)
	assert.Len(t, s.ByCategory, 5)
	assert.Len(t, s.ByTurnaroundTime, 3)
}

func TestPopular_Ordering(t *testing.T) {
	got := Popular(catalog(), 3)

	require.Len(t, got, 3)
	// three keywords each; alias count then name break the tie
	assert.Equal(t, "Complete Blood Count", got[0].Name)
	assert.Equal(t, "Fasting Glucose", got[1].Name)
	assert.Equal(t, "Lipid Profile", got[2].Name)
	assert.Equal(t, 3, got[2].KeywordCount)
	assert.Equal(t, 1, got[2].AliasCount)
}

func TestPopular_DefaultLimit(t *testing.T) {
	var tests []models.MedicalTest
	for i := 0; i < 15; i++ {
		tests = append(tests, models.MedicalTest{ID: uint(i + 1), Name: string(rune('A' + i))})
	}

	got := Popular(tests, 0)

	require.Len(t, got, DefaultPopularLimit)
	assert.Equal(t, "A", got[0].Name)
}

func TestSummarizeOfferings(t *testing.T) {
	pct := 10.0
	inactive := false
	offerings := []models.HospitalTestOffering{
		{ID: 1, Price: 1000, Currency: "BDT", DiscountAvailable: true, DiscountPercentage: &pct, Featured: true},
		{ID: 2, Price: 500, Currency: "BDT", HomeCollectionAvailable: true},
		{ID: 3, Price: 20, Currency: "USD"},
		{ID: 4, Price: 9999, Currency: "BDT", IsActive: &inactive},
	}

	o := SummarizeOfferings(offerings)

	assert.Equal(t, 4, o.TotalOfferings)
	assert.Equal(t, 3, o.Active)
	assert.Equal(t, 1, o.Featured)
	assert.Equal(t, 1, o.HomeCollection)
	assert.Equal(t, 1, o.Discounted)
	require.Len(t, o.ByCurrency, 2)
	assert.Equal(t, CurrencyPrices{Currency: "BDT", Count: 2, MinPrice: 500, MaxPrice: 900, AvgPrice: 700}, o.ByCurrency[0])
	assert.Equal(t, models.Currency("USD"), o.ByCurrency[1].Currency)
}

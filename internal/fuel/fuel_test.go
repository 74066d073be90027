package fuel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcalc/internal/surcharge"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestComputePercentage(t *testing.T) {
	fs := Compute(d("100.00"), &Rate{Percent: d("16"), Active: true})
	assert.True(t, fs.Amount.Equal(d("16.00")), "amount %s", fs.Amount)
	assert.True(t, fs.Percent.Equal(d("16")))
	assert.True(t, fs.Basis.Equal(d("100.00")))
}

func TestComputeRounds(t *testing.T) {
	fs := Compute(d("123.45"), &Rate{Percent: d("16.5"), Active: true})
	// 123.45 * 0.165 = 20.36925
	assert.True(t, fs.Amount.Equal(d("20.37")), "amount %s", fs.Amount)
}

func TestComputeNilRate(t *testing.T) {
	fs := Compute(d("100.00"), nil)
	assert.True(t, fs.Amount.IsZero())
	assert.True(t, fs.Percent.IsZero())
	assert.True(t, fs.Basis.Equal(d("100.00")))
}

func TestComputeInactiveRate(t *testing.T) {
	fs := Compute(d("100.00"), &Rate{Percent: d("16"), Active: false})
	assert.True(t, fs.Amount.IsZero())
}

func window(from, to time.Time) (*time.Time, *time.Time) {
	return &from, &to
}

func TestComputeFromCategoryWindowedItem(t *testing.T) {
	f1, t1 := window(date(2025, 1, 1), date(2025, 6, 30))
	f2, t2 := window(date(2025, 7, 1), date(2025, 12, 31))
	c := &surcharge.Category{
		Kind: surcharge.KindFuel,
		Items: []surcharge.Item{
			{ID: "fuel_h1", Rate: d("15"), ValidFrom: f1, ValidTo: t1},
			{ID: "fuel_h2", Rate: d("18"), ValidFrom: f2, ValidTo: t2},
		},
	}
	fs, ok := ComputeFromCategory(d("200.00"), c, date(2025, 8, 15))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("36.00")), "amount %s", fs.Amount)
	assert.True(t, fs.Percent.Equal(d("18")))
}

func TestComputeFromCategoryDefaultFallback(t *testing.T) {
	f1, t1 := window(date(2025, 1, 1), date(2025, 6, 30))
	c := &surcharge.Category{
		Kind: surcharge.KindFuel,
		Items: []surcharge.Item{
			{ID: "fuel_h1", Rate: d("15"), ValidFrom: f1, ValidTo: t1},
			{ID: surcharge.ItemFuelDefault, Rate: d("10")},
		},
	}
	// Outside every window: the default item applies.
	fs, ok := ComputeFromCategory(d("200.00"), c, date(2025, 9, 1))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("20.00")), "amount %s", fs.Amount)
}

func TestComputeFromCategoryNoApplicableItem(t *testing.T) {
	f1, t1 := window(date(2025, 1, 1), date(2025, 6, 30))
	c := &surcharge.Category{
		Kind:  surcharge.KindFuel,
		Items: []surcharge.Item{{ID: "fuel_h1", Rate: d("15"), ValidFrom: f1, ValidTo: t1}},
	}
	_, ok := ComputeFromCategory(d("200.00"), c, date(2025, 9, 1))
	assert.False(t, ok)

	_, ok = ComputeFromCategory(d("200.00"), nil, date(2025, 9, 1))
	assert.False(t, ok)

	_, ok = ComputeFromCategory(d("200.00"), &surcharge.Category{Kind: surcharge.KindFuel}, date(2025, 9, 1))
	assert.False(t, ok)
}

func TestComputeFromCategoryFlatMethod(t *testing.T) {
	c := &surcharge.Category{
		Kind:  surcharge.KindFuel,
		Items: []surcharge.Item{{ID: surcharge.ItemFuelDefault, Rate: d("7.50"), Flat: true}},
	}
	fs, ok := ComputeFromCategory(d("9999.00"), c, date(2025, 9, 1))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("7.50")), "amount %s", fs.Amount)
}

func TestComputeFromCategoryMinCharge(t *testing.T) {
	c := &surcharge.Category{
		Kind: surcharge.KindFuel,
		Items: []surcharge.Item{
			{ID: surcharge.ItemFuelDefault, Rate: d("10"), MinCharge: d("5.00")},
		},
	}
	// 10% of 20 is 2.00, floored at the minimum charge.
	fs, ok := ComputeFromCategory(d("20.00"), c, date(2025, 9, 1))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("5.00")), "amount %s", fs.Amount)

	// A large basis clears the floor.
	fs, ok = ComputeFromCategory(d("200.00"), c, date(2025, 9, 1))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("20.00")), "amount %s", fs.Amount)
}

func TestComputeFromCategoryAddsPSS(t *testing.T) {
	c := &surcharge.Category{
		Kind:  surcharge.KindFuel,
		Items: []surcharge.Item{{ID: surcharge.ItemFuelDefault, Rate: d("10")}},
		PSSPeriods: []surcharge.PSSPeriod{
			{Start: date(2025, 11, 1), End: date(2026, 1, 15), Amount: d("1.25")},
		},
	}
	fs, ok := ComputeFromCategory(d("100.00"), c, date(2025, 12, 1))
	require.True(t, ok)
	assert.True(t, fs.Amount.Equal(d("11.25")), "amount %s", fs.Amount)
}

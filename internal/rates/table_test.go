package rates

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveExactMatch(t *testing.T) {
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
	}
	got, err := table.Resolve(2, 80)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("50.00")), "got %s", got)
}

func TestResolveNextTierUp(t *testing.T) {
	// 90 lb between the 80 and 100 bands bills at the 100 lb tier.
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
	}
	got, err := table.Resolve(2, 90)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("70.00")), "got %s", got)
}

func TestResolveBelowLightestBand(t *testing.T) {
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
	}
	got, err := table.Resolve(2, 10)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("50.00")), "got %s", got)
}

func TestResolveAboveHeaviestBand(t *testing.T) {
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
	}
	got, err := table.Resolve(2, 500)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("70.00")), "got %s", got)
}

func TestResolveInterpolatesAcrossGap(t *testing.T) {
	// The 100 lb band does not price zone 2, so 90 lb interpolates between
	// the 80 and 120 bands: 50 + (90-80)/(120-80) * (90-50) = 60.
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{3: d("75.00")}},
		{Weight: 120, Rates: map[int]decimal.Decimal{2: d("90.00")}},
	}
	got, err := table.Resolve(2, 90)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("60.00")), "got %s", got)
}

func TestResolveInterpolationRounds(t *testing.T) {
	table := Table{
		{Weight: 10, Rates: map[int]decimal.Decimal{2: d("10.00")}},
		{Weight: 13, Rates: map[int]decimal.Decimal{3: d("12.00")}},
		{Weight: 20, Rates: map[int]decimal.Decimal{2: d("11.00")}},
	}
	// 10 + (11-10) * 3/10 = 10.30
	got, err := table.Resolve(2, 13)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("10.30")), "got %s", got)
}

func TestResolveUnpricedZone(t *testing.T) {
	table := Table{
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
	}
	_, err := table.Resolve(5, 90)
	var nce *NotConfiguredError
	require.True(t, errors.As(err, &nce))
	assert.Equal(t, 5, nce.Zone)
	assert.Equal(t, float64(90), nce.Weight)
}

func TestResolveEmptyTable(t *testing.T) {
	_, err := Table{}.Resolve(2, 10)
	var nce *NotConfiguredError
	assert.True(t, errors.As(err, &nce))
}

func TestResolveUnsortedInput(t *testing.T) {
	table := Table{
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
		{Weight: 50, Rates: map[int]decimal.Decimal{2: d("30.00")}},
		{Weight: 80, Rates: map[int]decimal.Decimal{2: d("50.00")}},
	}
	got, err := table.Resolve(2, 60)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("50.00")), "got %s", got)
}

func TestResolveDoesNotMutate(t *testing.T) {
	table := Table{
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("70.00")}},
		{Weight: 50, Rates: map[int]decimal.Decimal{2: d("30.00")}},
	}
	_, err := table.Resolve(2, 60)
	require.NoError(t, err)
	assert.Equal(t, float64(100), table[0].Weight, "caller's band order must survive resolution")
}

func TestResolveMonotonicInWeight(t *testing.T) {
	table := Table{
		{Weight: 10, Rates: map[int]decimal.Decimal{2: d("10.00")}},
		{Weight: 50, Rates: map[int]decimal.Decimal{2: d("30.00")}},
		{Weight: 100, Rates: map[int]decimal.Decimal{2: d("60.00")}},
	}
	prev := decimal.Zero
	for _, w := range []float64{5, 10, 20, 50, 70, 100, 150} {
		got, err := table.Resolve(2, w)
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "weight %g: %s < %s", w, got, prev)
		prev = got
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Table{}.Validate())
	assert.Error(t, Table{{Weight: 0, Rates: map[int]decimal.Decimal{2: d("1")}}}.Validate())
	assert.Error(t, Table{{Weight: 10, Rates: map[int]decimal.Decimal{2: d("-1")}}}.Validate())
	assert.NoError(t, Table{{Weight: 10, Rates: map[int]decimal.Decimal{2: d("1.50")}}}.Validate())
}

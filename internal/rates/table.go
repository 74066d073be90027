package rates

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Band prices a single tabulated weight across zones. Zones missing from the
// map are simply unpriced at that weight.
type Band struct {
	Weight float64
	Rates  map[int]decimal.Decimal
}

// Table is an ordered rate schedule. Resolution always works on a copy
// sorted by weight ascending, so callers may hand bands over in any order.
type Table []Band

// NotConfiguredError reports that a zone is unpriced for a weight in every
// candidate band.
type NotConfiguredError struct {
	Zone   int
	Weight float64
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("no rate configured for zone %d at %g lb", e.Zone, e.Weight)
}

// Validate rejects tables that cannot price anything at all.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("rate table is empty")
	}
	for _, b := range t {
		if b.Weight <= 0 {
			return fmt.Errorf("rate band weight must be positive, got %g", b.Weight)
		}
		for zone, r := range b.Rates {
			if r.IsNegative() {
				return fmt.Errorf("negative rate for zone %d at %g lb", zone, b.Weight)
			}
		}
	}
	return nil
}

// Resolve finds the base rate for a zone and chargeable weight.
//
// Priority: exact weight match, then the next tier up (shippers are never
// billed below their weight), then clamping at the table boundaries. When
// the next tier does not price the zone, the rate is linearly interpolated
// between the nearest lower and upper bands that do, rounded to 2 decimals.
func (t Table) Resolve(zone int, weight float64) (decimal.Decimal, error) {
	if len(t) == 0 {
		return decimal.Zero, &NotConfiguredError{Zone: zone, Weight: weight}
	}

	bands := make(Table, len(t))
	copy(bands, t)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Weight < bands[j].Weight })

	// Exact match.
	for _, b := range bands {
		if b.Weight == weight {
			if r, ok := b.Rates[zone]; ok {
				return r, nil
			}
		}
	}

	// Next tier up.
	next := sort.Search(len(bands), func(i int) bool { return bands[i].Weight >= weight })
	if next < len(bands) {
		if r, ok := bands[next].Rates[zone]; ok {
			return r, nil
		}
	}

	// Below the lightest band: charge the lowest priced band.
	if weight < bands[0].Weight {
		for _, b := range bands {
			if r, ok := b.Rates[zone]; ok {
				return r, nil
			}
		}
		return decimal.Zero, &NotConfiguredError{Zone: zone, Weight: weight}
	}

	// Above the heaviest band: charge the highest priced band.
	if weight > bands[len(bands)-1].Weight {
		for i := len(bands) - 1; i >= 0; i-- {
			if r, ok := bands[i].Rates[zone]; ok {
				return r, nil
			}
		}
		return decimal.Zero, &NotConfiguredError{Zone: zone, Weight: weight}
	}

	// The next tier exists but does not price this zone: interpolate between
	// the nearest bands that do.
	var lower, upper *Band
	for i := range bands {
		if _, ok := bands[i].Rates[zone]; !ok {
			continue
		}
		if bands[i].Weight < weight {
			lower = &bands[i]
		} else if upper == nil {
			upper = &bands[i]
		}
	}
	if lower != nil && upper != nil {
		lowRate := lower.Rates[zone]
		highRate := upper.Rates[zone]
		ratio := decimal.NewFromFloat((weight - lower.Weight) / (upper.Weight - lower.Weight))
		return lowRate.Add(highRate.Sub(lowRate).Mul(ratio)).Round(2), nil
	}
	if upper != nil {
		return upper.Rates[zone], nil
	}
	if lower != nil {
		return lower.Rates[zone], nil
	}

	return decimal.Zero, &NotConfiguredError{Zone: zone, Weight: weight}
}

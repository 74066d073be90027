package fuel

import (
	"time"

	"github.com/shopspring/decimal"

	"freightcalc/internal/surcharge"
)

// Rate is the product-independent fuel surcharge record. At most one record
// is active and current at calculation time; the caller supplies it as part
// of the snapshot.
type Rate struct {
	Percent   decimal.Decimal
	Effective time.Time
	Expiry    *time.Time
	Active    bool
}

// Surcharge is a computed fuel charge.
type Surcharge struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
	Basis   decimal.Decimal
}

// Compute applies the active fuel rate as a percentage of basis (base rate
// plus arbitrated surcharges), rounded to 2 decimals. A nil or inactive rate
// yields a zero charge at rate 0%, which is not an error.
func Compute(basis decimal.Decimal, r *Rate) Surcharge {
	if r == nil || !r.Active {
		return Surcharge{Amount: decimal.Zero, Percent: decimal.Zero, Basis: basis}
	}
	amount := basis.Mul(r.Percent).Div(decimal.NewFromInt(100)).Round(2)
	return Surcharge{Amount: amount, Percent: r.Percent, Basis: basis}
}

// ComputeFromCategory prices fuel from a product's own fuel category: the
// item whose validity window covers the date (falling back to the default
// item), percentage or flat per the item, floored at the item's minimum
// charge, plus the category's active PSS amount. When the catalog carries a
// fuel category this mode supersedes Compute.
//
// ok is false when no item applies; the caller then falls back to Compute.
func ComputeFromCategory(basis decimal.Decimal, c *surcharge.Category, at time.Time) (Surcharge, bool) {
	if c == nil || len(c.Items) == 0 {
		return Surcharge{}, false
	}

	var item *surcharge.Item
	for i := range c.Items {
		if c.Items[i].InEffect(at) {
			item = &c.Items[i]
			break
		}
	}
	if item == nil {
		if def, ok := c.Item(surcharge.ItemFuelDefault); ok {
			item = def
		}
	}
	if item == nil {
		return Surcharge{}, false
	}

	var amount decimal.Decimal
	if item.Flat {
		amount = item.Rate
	} else {
		amount = basis.Mul(item.Rate).Div(decimal.NewFromInt(100))
	}
	if item.MinCharge.IsPositive() && amount.LessThan(item.MinCharge) {
		amount = item.MinCharge
	}
	amount = amount.Add(surcharge.ApplyPSS(c, at)).Round(2)

	return Surcharge{Amount: amount, Percent: item.Rate, Basis: basis}, true
}

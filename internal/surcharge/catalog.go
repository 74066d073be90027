package surcharge

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RuleKind is the closed set of surcharge categories a product catalog may
// carry. Categories are matched structurally by kind, never by title text.
type RuleKind string

const (
	KindHandling            RuleKind = "handling"
	KindOversizeResidential RuleKind = "oversize_residential"
	KindOversizeCommercial  RuleKind = "oversize_commercial"
	KindResidential         RuleKind = "residential"
	KindRemote              RuleKind = "remote"
	KindUnauthorized        RuleKind = "unauthorized"
	KindFuel                RuleKind = "fuel"
)

// KnownKind reports whether k is one of the closed catalog kinds.
func KnownKind(k RuleKind) bool {
	switch k {
	case KindHandling, KindOversizeResidential, KindOversizeCommercial,
		KindResidential, KindRemote, KindUnauthorized, KindFuel:
		return true
	}
	return false
}

// Stable item identifiers. Items are looked up by ID, never by list position.
const (
	ItemHandlingWeight      = "handling_weight"
	ItemHandlingLongSide    = "handling_longest_side"
	ItemHandlingLengthGirth = "handling_length_girth"
	ItemHandlingSecondSide  = "handling_second_side"

	ItemOversizeLengthGirth = "oversize_length_girth"
	ItemOversizeLongSide    = "oversize_longest_side"

	ItemHomeDelivery     = "home_delivery"
	ItemCommercialGround = "commercial_ground"

	ItemDASResidential       = "das_residential"
	ItemDASExtResidential    = "das_ext_residential"
	ItemDASRemoteResidential = "das_remote_residential"
	ItemDASCommercial        = "das_commercial"
	ItemDASExtCommercial     = "das_ext_commercial"
	ItemDASRemoteCommercial  = "das_remote_commercial"
	ItemDASAlaskaCommercial  = "das_alaska_commercial"
	ItemDASHawaiiCommercial  = "das_hawaii_commercial"

	ItemUnauthorizedWeight      = "unauthorized_weight"
	ItemUnauthorizedLength      = "unauthorized_length"
	ItemUnauthorizedLengthGirth = "unauthorized_length_girth"

	ItemFuelDefault = "fuel_default"
)

// FlatRateZone is the zone key residential, remote-area and
// unauthorized-package fees are read at, regardless of the destination zone.
// The source rate cards price these flat; preserved literally.
const FlatRateZone = 2

// PSSPeriod is a peak-season surcharge window. Amount is added on top of a
// category's base fee while the calculation date falls inside the window.
type PSSPeriod struct {
	Start  time.Time
	End    time.Time
	Amount decimal.Decimal
}

// Contains compares by calendar date, inclusive on both ends.
func (p PSSPeriod) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(dateOnly(p.Start)) && !d.After(dateOnly(p.End))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Item is one priced entry inside a category. Fees are keyed by zone.
// The fuel category uses Rate/MinCharge/Flat and the validity window instead
// of per-zone fees.
type Item struct {
	ID    string
	Label string
	Fees  map[int]decimal.Decimal

	Rate      decimal.Decimal
	MinCharge decimal.Decimal
	Flat      bool
	ValidFrom *time.Time
	ValidTo   *time.Time
}

// Fee returns the item's fee at a zone, zero when unpriced there.
func (i *Item) Fee(zone int) decimal.Decimal {
	return i.Fees[zone]
}

// InEffect reports whether the item's validity window covers the date.
// Items without a window are never date-selected (see fuel category mode).
func (i *Item) InEffect(at time.Time) bool {
	if i.ValidFrom == nil || i.ValidTo == nil {
		return false
	}
	d := dateOnly(at)
	return !d.Before(dateOnly(*i.ValidFrom)) && !d.After(dateOnly(*i.ValidTo))
}

// Category groups the items and PSS windows of one surcharge kind.
type Category struct {
	Kind       RuleKind
	Title      string
	Items      []Item
	PSSPeriods []PSSPeriod
}

// Item returns the category item with the given stable ID.
func (c *Category) Item(id string) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// Catalog is a product's full surcharge configuration, loaded once and
// treated as immutable for the duration of a calculation.
type Catalog []Category

// Category returns the first category of the given kind.
func (c Catalog) Category(kind RuleKind) (*Category, bool) {
	for i := range c {
		if c[i].Kind == kind {
			return &c[i], true
		}
	}
	return nil, false
}

// ApplyPSS returns the peak-season amount active on the date, scanning the
// category's periods in declaration order and taking the first match.
// Overlaps resolve to the first declared period; no "latest wins" semantics.
func ApplyPSS(c *Category, at time.Time) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	for _, p := range c.PSSPeriods {
		if p.Contains(at) {
			return p.Amount
		}
	}
	return decimal.Zero
}

// MissingError reports that a rule fired but the catalog lacks the category
// or item needed to price it.
type MissingError struct {
	Kind   RuleKind
	ItemID string
}

func (e *MissingError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("surcharge catalog has no %q category", e.Kind)
	}
	return fmt.Sprintf("surcharge catalog %q category has no %q item", e.Kind, e.ItemID)
}

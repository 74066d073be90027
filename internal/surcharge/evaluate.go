package surcharge

import (
	"time"

	"github.com/shopspring/decimal"

	"freightcalc/internal/billing"
	"freightcalc/internal/zones"
)

// Input carries everything a rule evaluator may inspect. Weight conditions
// test actual pounds; the chargeable weight only drives the rate table and
// the residential service tier cutoff happens on actual pounds as well.
type Input struct {
	Dims        billing.Dimensions
	Zone        int
	Residential bool
	Remote      bool
	RemoteClass zones.RemoteClass
	Date        time.Time
}

// Result is one fired surcharge: the base fee plus any active peak-season
// amount, with the matched item and a human-readable reason.
type Result struct {
	Kind   RuleKind
	ItemID string
	Reason string
	Base   decimal.Decimal
	PSS    decimal.Decimal
}

// Total is the charged amount: base fee plus PSS.
func (r *Result) Total() decimal.Decimal {
	return r.Base.Add(r.PSS)
}

// Unauthorized-package rejection reasons, in check priority order. The
// labels are the carrier rate card's clause names.
const (
	ReasonOverLengthGirth = "c)最长边+周长＞165英寸"
	ReasonOverLength      = "b)最长边＞108英寸"
	ReasonOverweight      = "a)实重＞150磅"
)

// EvaluateHandling checks the four additional-handling variants and, when
// several fire, charges the one with the highest total fee.
func EvaluateHandling(c Catalog, in Input) (*Result, error) {
	type variant struct {
		itemID string
		reason string
		fires  bool
	}
	d := in.Dims
	variants := []variant{
		{ItemHandlingWeight, "additional handling (weight 50-150 lb)", d.ActualWeightLb > 50 && d.ActualWeightLb < 150},
		{ItemHandlingLongSide, "additional handling (longest side 48-96 in)", d.LengthIn > 48 && d.LengthIn <= 96},
		{ItemHandlingLengthGirth, "additional handling (length+girth 105-130 in)", d.LengthPlusGirthIn > 105 && d.LengthPlusGirthIn <= 130},
		{ItemHandlingSecondSide, "additional handling (second-longest side over 30 in)", d.WidthIn > 30},
	}

	any := false
	for _, v := range variants {
		any = any || v.fires
	}
	if !any {
		return nil, nil
	}

	cat, ok := c.Category(KindHandling)
	if !ok {
		return nil, &MissingError{Kind: KindHandling}
	}
	pss := ApplyPSS(cat, in.Date)

	var best *Result
	for _, v := range variants {
		if !v.fires {
			continue
		}
		item, ok := cat.Item(v.itemID)
		if !ok {
			return nil, &MissingError{Kind: KindHandling, ItemID: v.itemID}
		}
		r := &Result{
			Kind:   KindHandling,
			ItemID: v.itemID,
			Reason: v.reason,
			Base:   item.Fee(in.Zone),
			PSS:    pss,
		}
		if best == nil || r.Total().GreaterThan(best.Total()) {
			best = r
		}
	}
	return best, nil
}

// EvaluateOversize checks the oversize thresholds against the residential or
// commercial item set depending on the address type.
func EvaluateOversize(c Catalog, in Input) (*Result, error) {
	d := in.Dims
	if in.Dims.ActualWeightLb >= 150 {
		return nil, nil
	}

	var itemID, reason string
	switch {
	case d.LengthGirthOversize():
		itemID = ItemOversizeLengthGirth
		reason = "oversize (length+girth 130-165 in)"
	case d.LongSideOversize():
		itemID = ItemOversizeLongSide
		reason = "oversize (longest side 96-108 in)"
	default:
		return nil, nil
	}

	kind := KindOversizeCommercial
	if in.Residential {
		kind = KindOversizeResidential
	}
	cat, ok := c.Category(kind)
	if !ok {
		return nil, &MissingError{Kind: kind}
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return nil, &MissingError{Kind: kind, ItemID: itemID}
	}
	return &Result{
		Kind:   kind,
		ItemID: itemID,
		Reason: reason,
		Base:   item.Fee(in.Zone),
		PSS:    ApplyPSS(cat, in.Date),
	}, nil
}

// EvaluateResidential fires whenever the address is residential. Parcels at
// or under 70 lb price at the Home Delivery tier, heavier ones at Commercial
// Ground. The fee is always read at FlatRateZone.
func EvaluateResidential(c Catalog, in Input) (*Result, error) {
	if !in.Residential {
		return nil, nil
	}
	cat, ok := c.Category(KindResidential)
	if !ok {
		return nil, &MissingError{Kind: KindResidential}
	}

	itemID := ItemHomeDelivery
	reason := "residential delivery (Home Delivery)"
	if in.Dims.ActualWeightLb > 70 {
		itemID = ItemCommercialGround
		reason = "residential delivery (Commercial Ground)"
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return nil, &MissingError{Kind: KindResidential, ItemID: itemID}
	}
	return &Result{
		Kind:   KindResidential,
		ItemID: itemID,
		Reason: reason,
		Base:   item.Fee(FlatRateZone),
		PSS:    ApplyPSS(cat, in.Date),
	}, nil
}

// remoteItems maps (remote class, address type) to the catalog item carrying
// that service variant. Alaska and Hawaii only exist commercially; a
// residential shipment into those classes yields no remote fee.
var remoteItems = map[zones.RemoteClass][2]string{
	// [residential, commercial]
	zones.RemoteDAS:      {ItemDASResidential, ItemDASCommercial},
	zones.RemoteExtended: {ItemDASExtResidential, ItemDASExtCommercial},
	zones.RemoteRemote:   {ItemDASRemoteResidential, ItemDASRemoteCommercial},
	zones.RemoteAlaska:   {"", ItemDASAlaskaCommercial},
	zones.RemoteHawaii:   {"", ItemDASHawaiiCommercial},
}

// EvaluateRemote fires for remote-classified destinations, selecting the
// service variant for the (class, address type) pair. The fee is always read
// at FlatRateZone.
func EvaluateRemote(c Catalog, in Input) (*Result, error) {
	if !in.Remote {
		return nil, nil
	}
	pair, ok := remoteItems[in.RemoteClass]
	if !ok {
		return nil, nil
	}
	itemID := pair[1]
	if in.Residential {
		itemID = pair[0]
	}
	if itemID == "" {
		return nil, nil
	}

	cat, ok := c.Category(KindRemote)
	if !ok {
		return nil, &MissingError{Kind: KindRemote}
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return nil, &MissingError{Kind: KindRemote, ItemID: itemID}
	}
	return &Result{
		Kind:   KindRemote,
		ItemID: itemID,
		Reason: "remote area delivery (" + item.Label + ")",
		Base:   item.Fee(FlatRateZone),
		PSS:    ApplyPSS(cat, in.Date),
	}, nil
}

// EvaluateUnauthorized checks the non-shippable thresholds in priority order
// (length+girth, then longest side, then weight; first match wins). A result
// here overrides the whole calculation. The fee is always read at
// FlatRateZone.
func EvaluateUnauthorized(c Catalog, in Input) (*Result, error) {
	d := in.Dims
	var itemID, reason string
	switch {
	case d.LengthPlusGirthIn > 165:
		itemID = ItemUnauthorizedLengthGirth
		reason = ReasonOverLengthGirth
	case d.LengthIn > 108:
		itemID = ItemUnauthorizedLength
		reason = ReasonOverLength
	case d.ActualWeightLb > 150:
		itemID = ItemUnauthorizedWeight
		reason = ReasonOverweight
	default:
		return nil, nil
	}

	cat, ok := c.Category(KindUnauthorized)
	if !ok {
		return nil, &MissingError{Kind: KindUnauthorized}
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return nil, &MissingError{Kind: KindUnauthorized, ItemID: itemID}
	}
	return &Result{
		Kind:   KindUnauthorized,
		ItemID: itemID,
		Reason: reason,
		Base:   item.Fee(FlatRateZone),
		PSS:    ApplyPSS(cat, in.Date),
	}, nil
}

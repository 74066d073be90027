package engine

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"freightcalc/internal/billing"
	"freightcalc/internal/fuel"
	"freightcalc/internal/rates"
	"freightcalc/internal/surcharge"
	"freightcalc/internal/zones"
)

// Product is the rate snapshot a calculation runs against: the rate table,
// the surcharge catalog and the volumetric divisor. Loaded by the caller and
// treated as immutable.
type Product struct {
	ID        int64
	Name      string
	Carrier   string
	DimFactor float64
	Rates     rates.Table
	Catalog   surcharge.Catalog
}

// Shipment is one parcel in metric units.
type Shipment struct {
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	WeightKg    float64
	Residential bool
}

// Engine computes itemized freight quotes. It holds no state between calls;
// concurrent use is safe because every call works on its own snapshot.
type Engine struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

func validate(s Shipment) error {
	switch {
	case !(s.LengthCm > 0):
		return invalid("length", "must be greater than 0")
	case !(s.WidthCm > 0):
		return invalid("width", "must be greater than 0")
	case !(s.HeightCm > 0):
		return invalid("height", "must be greater than 0")
	case !(s.WeightKg > 0):
		return invalid("weight", "must be greater than 0")
	}
	return nil
}

// Quote computes the breakdown for a single resolved zone. The order is
// fixed: unauthorized check (short-circuit), base rate, surcharges,
// arbitration, fuel.
func (e *Engine) Quote(p *Product, s Shipment, z zones.Info, fr *fuel.Rate, at time.Time) (*Breakdown, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	dims := billing.Convert(s.LengthCm, s.WidthCm, s.HeightCm, s.WeightKg, p.DimFactor)
	in := surcharge.Input{
		Dims:        dims,
		Zone:        z.Zone,
		Residential: s.Residential,
		Remote:      z.Remote,
		RemoteClass: z.Class,
		Date:        at,
	}

	unauthorized, err := surcharge.EvaluateUnauthorized(p.Catalog, in)
	if err != nil {
		return nil, err
	}
	if unauthorized != nil {
		e.log.Info("package unauthorized",
			"zone", z.Zone,
			"reason", unauthorized.Reason,
			"fee", unauthorized.Total())
		fee := round2(unauthorized.Total())
		return &Breakdown{
			Zone:           z.Zone,
			IsRemote:       z.Remote,
			PackageInfo:    packageInfo(dims),
			IsUnauthorized: true,
			Reason:         unauthorized.Reason,
			Fee:            &fee,
			Details: &UnauthorizedDetail{
				BaseFee: round2(unauthorized.Base),
				PSSFee:  round2(unauthorized.PSS),
			},
		}, nil
	}

	baseRate, err := p.Rates.Resolve(z.Zone, float64(dims.ChargeableWeightLb))
	if err != nil {
		return nil, err
	}
	e.log.Debug("base rate resolved",
		"zone", z.Zone,
		"chargeable_weight_lb", dims.ChargeableWeightLb,
		"amount", baseRate)

	handling, err := surcharge.EvaluateHandling(p.Catalog, in)
	if err != nil {
		return nil, err
	}
	oversize, err := surcharge.EvaluateOversize(p.Catalog, in)
	if err != nil {
		return nil, err
	}
	residential, err := surcharge.EvaluateResidential(p.Catalog, in)
	if err != nil {
		return nil, err
	}
	remote, err := surcharge.EvaluateRemote(p.Catalog, in)
	if err != nil {
		return nil, err
	}
	for _, r := range []*surcharge.Result{handling, oversize, residential, remote} {
		if r != nil {
			e.log.Debug("surcharge fired",
				"kind", r.Kind, "item", r.ItemID, "amount", r.Total())
		}
	}

	if handling != nil && oversize != nil {
		e.log.Debug("arbitrating handling vs oversize",
			"handling", handling.Total(), "oversize", oversize.Total())
	}
	handling, oversize = surcharge.Arbitrate(handling, oversize)

	surchargeTotal := decimal.Zero
	for _, r := range []*surcharge.Result{handling, oversize, residential, remote} {
		if r != nil {
			surchargeTotal = surchargeTotal.Add(r.Total())
		}
	}

	basis := baseRate.Add(surchargeTotal)
	fs, ok := fuel.Surcharge{}, false
	if cat, found := p.Catalog.Category(surcharge.KindFuel); found {
		fs, ok = fuel.ComputeFromCategory(basis, cat, at)
	}
	if !ok {
		fs = fuel.Compute(basis, fr)
	}
	e.log.Debug("fuel applied",
		"rate", fs.Percent, "basis", fs.Basis, "amount", fs.Amount)

	total := round2(basis.Add(fs.Amount))

	bd := &Breakdown{
		Zone:        z.Zone,
		IsRemote:    z.Remote,
		PackageInfo: packageInfo(dims),
		BaseRate:    &Money{Amount: round2(baseRate)},
		SurchargeDetails: &SurchargeDetails{
			HandlingFee:            line(handling, "additional handling"),
			OversizeFeeCommercial:  line(pick(oversize, !s.Residential), "oversize (commercial)"),
			OversizeFeeResidential: line(pick(oversize, s.Residential), "oversize (residential)"),
			ResidentialFee:         line(residential, "residential delivery"),
			RemoteFee:              line(remote, "remote area delivery"),
		},
		FuelSurcharge: &FuelDetail{
			Amount: round2(fs.Amount),
			Rate:   fs.Percent.String() + "%",
			Basis:  round2(fs.Basis),
		},
		TotalAmount: &total,
	}
	return bd, nil
}

// QuoteAllZones runs the single-zone calculation for every zone 2 through 8.
// A zone that fails (typically unpriced) is logged and skipped so partial
// results still come back.
func (e *Engine) QuoteAllZones(p *Product, s Shipment, fr *fuel.Rate, at time.Time) (*AllZones, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	out := &AllZones{AllZones: true, Results: make([]*Breakdown, 0, zones.MaxZone-zones.MinZone+1)}
	for zone := zones.MinZone; zone <= zones.MaxZone; zone++ {
		bd, err := e.Quote(p, s, zones.Info{Zone: zone}, fr, at)
		if err != nil {
			e.log.Warn("zone skipped", "zone", zone, "error", err)
			continue
		}
		out.Results = append(out.Results, bd)
	}
	return out, nil
}

func packageInfo(d billing.Dimensions) PackageInfo {
	return PackageInfo{
		Weight: WeightInfo{
			ActualWeight:     d.ActualWeightLb,
			VolumeWeight:     d.VolumetricWeightLb,
			ChargeableWeight: d.ChargeableWeightLb,
		},
		Dimensions: DimensionInfo{
			Length:           d.LengthIn,
			Width:            d.WidthIn,
			Height:           d.HeightIn,
			Girth:            d.GirthIn,
			TotalLengthGirth: d.LengthPlusGirthIn,
		},
	}
}

// pick nils out a result unless it belongs to the requested address type's
// output line.
func pick(r *surcharge.Result, want bool) *surcharge.Result {
	if !want {
		return nil
	}
	return r
}

func line(r *surcharge.Result, defaultReason string) SurchargeLine {
	if r == nil {
		return SurchargeLine{Details: FeeDetail{Reason: defaultReason}}
	}
	return SurchargeLine{
		Amount: round2(r.Total()),
		Details: FeeDetail{
			BaseFee: round2(r.Base),
			PSSFee:  round2(r.PSS),
			Reason:  r.Reason,
		},
	}
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

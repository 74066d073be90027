package billing

import "math"

// Carrier billing constants. Dimensions are billed in inches and pounds,
// always rounded up so a fraction of a unit bills as a full unit.
const (
	InchesPerCm = 0.393701
	PoundsPerKg = 2.20462

	// DefaultDimFactor divides cubic inches into volumetric pounds when the
	// product does not carry its own factor.
	DefaultDimFactor = 250
)

// oversizeFloorLb is the minimum chargeable weight for oversize-shaped
// parcels (carrier billing policy).
const oversizeFloorLb = 90

// Dimensions is a shipment converted to billing units. It is derived once
// per calculation and never mutated afterwards.
type Dimensions struct {
	LengthIn int
	WidthIn  int
	HeightIn int

	GirthIn           int
	LengthPlusGirthIn int

	ActualWeightLb     int
	VolumetricWeightLb int
	ChargeableWeightLb int
}

// Convert derives billing dimensions from raw metric measurements.
// dimFactor <= 0 falls back to DefaultDimFactor. Inputs are assumed to be
// validated (positive) upstream.
func Convert(lengthCm, widthCm, heightCm, weightKg, dimFactor float64) Dimensions {
	if dimFactor <= 0 {
		dimFactor = DefaultDimFactor
	}

	d := Dimensions{
		LengthIn: ceilInches(lengthCm),
		WidthIn:  ceilInches(widthCm),
		HeightIn: ceilInches(heightCm),
	}
	d.GirthIn = 2 * (d.WidthIn + d.HeightIn)
	d.LengthPlusGirthIn = d.LengthIn + d.GirthIn

	d.ActualWeightLb = int(math.Ceil(weightKg * PoundsPerKg))
	d.VolumetricWeightLb = int(math.Ceil(float64(d.LengthIn*d.WidthIn*d.HeightIn) / dimFactor))

	d.ChargeableWeightLb = d.ActualWeightLb
	if d.VolumetricWeightLb > d.ChargeableWeightLb {
		d.ChargeableWeightLb = d.VolumetricWeightLb
	}

	// Oversize-shaped parcels bill at 90 lb minimum. This must happen before
	// any rate-table lookup.
	if (d.LengthGirthOversize() || d.LongSideOversize()) && d.ChargeableWeightLb < oversizeFloorLb {
		d.ChargeableWeightLb = oversizeFloorLb
	}

	return d
}

// LengthGirthOversize reports whether length+girth falls in the oversize
// band (130, 165] inches.
func (d Dimensions) LengthGirthOversize() bool {
	return d.LengthPlusGirthIn > 130 && d.LengthPlusGirthIn <= 165
}

// LongSideOversize reports whether the longest side falls in (96, 108] inches.
func (d Dimensions) LongSideOversize() bool {
	return d.LengthIn > 96 && d.LengthIn <= 108
}

func ceilInches(cm float64) int {
	return int(math.Ceil(cm * InchesPerCm))
}

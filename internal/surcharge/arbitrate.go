package surcharge

// Arbitrate enforces mutual exclusivity between the handling and oversize
// surcharges: when both fire only the larger total is charged (oversize wins
// ties). Residential and remote-area surcharges are not arbitrated and stack
// with the survivor.
func Arbitrate(handling, oversize *Result) (*Result, *Result) {
	if handling == nil || oversize == nil {
		return handling, oversize
	}
	if handling.Total().GreaterThan(oversize.Total()) {
		return handling, nil
	}
	return nil, oversize
}

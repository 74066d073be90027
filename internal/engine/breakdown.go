package engine

// Output DTOs. A Breakdown is assembled once per zone and never mutated
// afterwards; amounts are rounded to 2 decimals at assembly.

type Money struct {
	Amount float64 `json:"amount"`
}

type WeightInfo struct {
	ActualWeight     int `json:"actualWeight"`
	VolumeWeight     int `json:"volumeWeight"`
	ChargeableWeight int `json:"chargeableWeight"`
}

type DimensionInfo struct {
	Length           int `json:"length"`
	Width            int `json:"width"`
	Height           int `json:"height"`
	Girth            int `json:"girth"`
	TotalLengthGirth int `json:"totalLengthGirth"`
}

type PackageInfo struct {
	Weight     WeightInfo    `json:"weight"`
	Dimensions DimensionInfo `json:"dimensions"`
}

type FeeDetail struct {
	BaseFee float64 `json:"baseFee"`
	PSSFee  float64 `json:"pssFee"`
	Reason  string  `json:"reason"`
}

type SurchargeLine struct {
	Amount  float64   `json:"amount"`
	Details FeeDetail `json:"details"`
}

type SurchargeDetails struct {
	HandlingFee            SurchargeLine `json:"handlingFee"`
	OversizeFeeCommercial  SurchargeLine `json:"oversizeFeeCommercial"`
	OversizeFeeResidential SurchargeLine `json:"oversizeFeeResidential"`
	ResidentialFee         SurchargeLine `json:"residentialFee"`
	RemoteFee              SurchargeLine `json:"remoteFee"`
}

type FuelDetail struct {
	Amount float64 `json:"amount"`
	Rate   string  `json:"rate"`
	Basis  float64 `json:"basis"`
}

// UnauthorizedDetail keeps the source contract's snake_case keys.
type UnauthorizedDetail struct {
	BaseFee float64 `json:"base_fee"`
	PSSFee  float64 `json:"pss_fee"`
}

// Breakdown is the itemized result for one zone. The normal-path fields and
// the unauthorized-path fields are mutually exclusive: an unauthorized
// package short-circuits the calculation and carries only its own fee.
type Breakdown struct {
	Zone        int         `json:"zone"`
	IsRemote    bool        `json:"isRemote"`
	PackageInfo PackageInfo `json:"packageInfo"`

	BaseRate         *Money            `json:"baseRate,omitempty"`
	SurchargeDetails *SurchargeDetails `json:"surchargeDetails,omitempty"`
	FuelSurcharge    *FuelDetail       `json:"fuelSurcharge,omitempty"`
	TotalAmount      *float64          `json:"totalAmount,omitempty"`

	IsUnauthorized bool                `json:"isUnauthorized,omitempty"`
	Reason         string              `json:"reason,omitempty"`
	Fee            *float64            `json:"fee,omitempty"`
	Details        *UnauthorizedDetail `json:"details,omitempty"`
}

// AllZones collects per-zone breakdowns when no destination is given.
type AllZones struct {
	AllZones bool         `json:"allZones"`
	Results  []*Breakdown `json:"results"`
}

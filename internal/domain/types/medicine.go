package types

// MedicineStatus is the outcome reported by the identify-medicine endpoint.
type MedicineStatus string

const (
	MedicineSuccess       MedicineStatus = "success"
	MedicineLowConfidence MedicineStatus = "low_confidence"
	MedicineError         MedicineStatus = "error"
)

// MedicineData holds the catalog fields of a confident match.
type MedicineData struct {
	BrandName    string `json:"brand_name"`
	Composition  string `json:"composition"`
	Manufacturer string `json:"manufacturer"`
	PriceINR     any    `json:"price_inr,omitempty"`
	PackSize     string `json:"pack_size,omitempty"`
}

// MedicineResult is the identify-medicine response.
type MedicineResult struct {
	Status          MedicineStatus `json:"status"`
	MatchConfidence *float64       `json:"match_confidence,omitempty"`
	Data            *MedicineData  `json:"data,omitempty"`
	Message         string         `json:"message,omitempty"`
	ClosestMatch    string         `json:"closest_match,omitempty"`
}

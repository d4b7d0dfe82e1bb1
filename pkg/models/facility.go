package models

// FacilityData is a snapshot of measurements taken at a camp or facility.
// Every measurement is optional; the Sphere assessor only scores indicators
// whose inputs are present, so pointer fields distinguish "not measured"
// from a measured zero.
type FacilityData struct {
	Location            string   `json:"location,omitempty"`
	Population          *int     `json:"population,omitempty"`
	WaterSupplyLiters   *float64 `json:"waterSupplyLiters,omitempty"`
	ToiletCount         *int     `json:"toiletCount,omitempty"`
	CoveredAreaM2       *float64 `json:"coveredAreaM2,omitempty"`
	DailyKcalPerPerson  *float64 `json:"dailyKcalPerPerson,omitempty"`
	DrugAvailabilityPct *float64 `json:"drugAvailabilityPct,omitempty"`
}

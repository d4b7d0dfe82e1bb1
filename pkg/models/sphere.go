package models

import "time"

// SphereCategory is a Sphere Handbook minimum-standard category.
type SphereCategory string

// Sphere standard categories.
const (
	SphereWASH         SphereCategory = "WASH"
	SphereShelter      SphereCategory = "Shelter"
	SphereFoodSecurity SphereCategory = "Food Security"
	SphereHealth       SphereCategory = "Health"
	SphereProtection   SphereCategory = "Protection"
)

// IsValid returns true if the category is one of the five Sphere categories.
func (c SphereCategory) IsValid() bool {
	switch c {
	case SphereWASH, SphereShelter, SphereFoodSecurity, SphereHealth, SphereProtection:
		return true
	default:
		return false
	}
}

// ThresholdType says which side of the threshold is compliant.
type ThresholdType string

// Threshold comparison directions.
const (
	ThresholdMin ThresholdType = "min" // compliant when measured >= threshold
	ThresholdMax ThresholdType = "max" // compliant when measured <= threshold
)

// SphereIndicator is one published minimum-standard threshold.
type SphereIndicator struct {
	Threshold   float64       `json:"threshold" yaml:"threshold"`
	Type        ThresholdType `json:"type" yaml:"type"`
	Unit        string        `json:"unit" yaml:"unit"`
	Description string        `json:"description" yaml:"description"`
}

// SphereAssessment is the result of comparing one facility measurement
// against its minimum-standard threshold.
type SphereAssessment struct {
	Category  SphereCategory `json:"category"`
	Indicator string         `json:"indicator"`
	Target    string         `json:"target"`
	Actual    string         `json:"actual"`
	Compliant bool           `json:"compliant"`
	Notes     string         `json:"notes,omitempty"`
}

// SphereComplianceReport aggregates all assessments for one facility
// snapshot. OverallCompliance is a 0-100 integer percentage and is 0 when
// no assessments could be computed. Recommendations is derived one-to-one
// from the non-compliant assessments, in assessment order.
type SphereComplianceReport struct {
	AssessedAt        time.Time          `json:"assessedAt"`
	Location          string             `json:"location"`
	Assessor          string             `json:"assessor"`
	OverallCompliance int                `json:"overallCompliance"`
	Assessments       []SphereAssessment `json:"assessments"`
	Recommendations   []string           `json:"recommendations"`
}

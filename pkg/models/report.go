package models

import (
	"encoding/json"

	"github.com/reliefworks/relief-engine/pkg/jsonutil"
)

// DisasterReport is a field report about a disaster event.
// Only ID and CreatedAt are guaranteed by the calling layer.
type DisasterReport struct {
	ID             string   `json:"id"`
	ReportType     string   `json:"reportType,omitempty"`
	Severity       string   `json:"severity,omitempty"`
	County         string   `json:"county,omitempty"`
	City           string   `json:"city,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	AffectedPeople int      `json:"affectedPeople,omitempty"`
	Description    string   `json:"description,omitempty"`
	Status         string   `json:"status,omitempty"`
	CreatedAt      string   `json:"createdAt"`
}

// UnmarshalJSON accepts reports whose affected-people count arrives as a
// string, which happens when reports are filed through the SMS gateway.
func (r *DisasterReport) UnmarshalJSON(data []byte) error {
	type reportAlias DisasterReport
	aux := struct {
		*reportAlias
		AffectedPeople json.RawMessage `json:"affectedPeople,omitempty"`
	}{reportAlias: (*reportAlias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.AffectedPeople = int(jsonutil.FlexibleInt64(aux.AffectedPeople))
	return nil
}

// ResourceDistribution records delivery of relief supplies to a location.
type ResourceDistribution struct {
	ID               string `json:"id"`
	ResourceType     string `json:"resourceType,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
	Unit             string `json:"unit,omitempty"`
	Organization     string `json:"organization,omitempty"`
	County           string `json:"county,omitempty"`
	BeneficiaryCount int    `json:"beneficiaryCount,omitempty"`
	Date             string `json:"date,omitempty"`
	Status           string `json:"status,omitempty"`
}

// OrganizationName returns the distributing organization's name, falling back
// to the supplied default when absent.
func (d *ResourceDistribution) OrganizationName(fallback string) string {
	if d.Organization != "" {
		return d.Organization
	}
	return fallback
}

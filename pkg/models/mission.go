// Package models contains domain types for relief-engine.
package models

import (
	"encoding/json"

	"github.com/reliefworks/relief-engine/pkg/jsonutil"
)

// Organization identifies the group running a mission.
type Organization struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// MissionLocation is the optional location sub-record of a mission.
// Latitude/Longitude are pointers so "not captured" is distinguishable
// from a genuine zero coordinate.
type MissionLocation struct {
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	County    string   `json:"county,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Mission is a relief mission record as supplied by the platform's API layer.
// Only ID and CreatedAt are guaranteed; every other field is optional and the
// exporters substitute documented defaults for anything missing. Date fields
// arrive as ISO-8601 timestamp strings.
type Mission struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	Title            string           `json:"title,omitempty"`
	Description      string           `json:"description,omitempty"`
	Status           string           `json:"status,omitempty"`
	DisasterType     string           `json:"disasterType,omitempty"`
	Organization     *Organization    `json:"organization,omitempty"`
	Location         *MissionLocation `json:"location,omitempty"`
	Budget           float64          `json:"budget,omitempty"`
	BeneficiaryCount int              `json:"beneficiaryCount,omitempty"`
	StartDate        string           `json:"startDate,omitempty"`
	EndDate          string           `json:"endDate,omitempty"`
	CreatedAt        string           `json:"createdAt"`
}

// DisplayName returns the first non-empty of Name and Title.
// All "first non-empty of several candidate fields" lookups for missions
// live here so the fallback logic stays auditable.
func (m *Mission) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Title
}

// OrganizationName returns the mission's organization name, falling back to
// the supplied default when the organization sub-record or its name is absent.
func (m *Mission) OrganizationName(fallback string) string {
	if m.Organization != nil && m.Organization.Name != "" {
		return m.Organization.Name
	}
	return fallback
}

// UnmarshalJSON accepts missions whose numeric fields arrive as strings.
// Dashboard forms and older API clients serialize budget and beneficiary
// counts inconsistently, so both shapes must parse.
func (m *Mission) UnmarshalJSON(data []byte) error {
	type missionAlias Mission
	aux := struct {
		*missionAlias
		Budget           json.RawMessage `json:"budget,omitempty"`
		BeneficiaryCount json.RawMessage `json:"beneficiaryCount,omitempty"`
	}{missionAlias: (*missionAlias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.Budget = jsonutil.FlexibleFloat64(aux.Budget)
	m.BeneficiaryCount = int(jsonutil.FlexibleInt64(aux.BeneficiaryCount))
	return nil
}

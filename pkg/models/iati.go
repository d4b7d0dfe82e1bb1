package models

// ActivityStatus is an IATI activity lifecycle code (codelist ActivityStatus).
type ActivityStatus string

// IATI activity status codes.
const (
	StatusPipeline       ActivityStatus = "1"
	StatusImplementation ActivityStatus = "2"
	StatusFinalisation   ActivityStatus = "3"
	StatusClosed         ActivityStatus = "4"
	StatusCancelled      ActivityStatus = "5"
	StatusSuspended      ActivityStatus = "6"
)

// Code returns the numeric codelist value as a string.
func (s ActivityStatus) Code() string {
	return string(s)
}

// IsValid returns true if the status is one of the six defined codes.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case StatusPipeline, StatusImplementation, StatusFinalisation,
		StatusClosed, StatusCancelled, StatusSuspended:
		return true
	default:
		return false
	}
}

// IATISector is a sector classification on an activity.
type IATISector struct {
	Code       string `json:"code"`
	Vocabulary string `json:"vocabulary"`
	Narrative  string `json:"narrative,omitempty"`
}

// IATILocation is a place where activity work happens. Latitude and
// Longitude are pointers; the XML <point> element is omitted when either
// is absent.
type IATILocation struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// IATIParticipatingOrg is an organization involved in an activity.
// Type and Role are IATI codelist values (OrganisationType, OrganisationRole).
type IATIParticipatingOrg struct {
	Ref  string `json:"ref"`
	Type string `json:"type"`
	Role string `json:"role"`
	Name string `json:"name"`
}

// IATITransaction is a financial flow on an activity. Type is an IATI
// TransactionType code; Date is an ISO-8601 date string.
type IATITransaction struct {
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Value       float64 `json:"value"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
}

// IATIActivity is one IATI 2.03 activity report. It is a value object built
// fresh per export from a mission snapshot and never mutated afterwards.
type IATIActivity struct {
	Identifier        string                 `json:"identifier"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	Status            ActivityStatus         `json:"status"`
	StartDate         string                 `json:"startDate,omitempty"`
	EndDate           string                 `json:"endDate,omitempty"`
	Sectors           []IATISector           `json:"sectors"`
	Locations         []IATILocation         `json:"locations,omitempty"`
	ParticipatingOrgs []IATIParticipatingOrg `json:"participatingOrgs"`
	Transactions      []IATITransaction      `json:"transactions,omitempty"`
}

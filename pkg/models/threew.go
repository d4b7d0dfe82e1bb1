package models

import "time"

// ActivityProgress is the 3W view of how far along an activity is.
// This is a coarser classification than IATI's lifecycle codes and is
// mapped by different rules; the two must not be unified.
type ActivityProgress string

// 3W activity progress values.
const (
	ProgressPlanned   ActivityProgress = "Planned"
	ProgressOngoing   ActivityProgress = "Ongoing"
	ProgressCompleted ActivityProgress = "Completed"
)

// ThreeWWho identifies the responding organization.
type ThreeWWho struct {
	Organization string `json:"organization"`
	OrgType      string `json:"orgType"`
	Cluster      string `json:"cluster,omitempty"`
}

// ThreeWWhat describes the activity being carried out.
type ThreeWWhat struct {
	Activity      string           `json:"activity"`
	Sector        string           `json:"sector"`
	Beneficiaries int              `json:"beneficiaries,omitempty"`
	StartDate     string           `json:"startDate,omitempty"`
	EndDate       string           `json:"endDate,omitempty"`
	Status        ActivityProgress `json:"status"`
}

// ThreeWWhere locates the activity. Admin levels follow the OCHA convention;
// coordinates are included only when both were captured.
type ThreeWWhere struct {
	Country   string   `json:"country"`
	Admin1    string   `json:"admin1"`
	Admin2    string   `json:"admin2"`
	Admin3    string   `json:"admin3"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ThreeWEntry is one Who/What/Where coordination row.
type ThreeWEntry struct {
	Who   ThreeWWho   `json:"who"`
	What  ThreeWWhat  `json:"what"`
	Where ThreeWWhere `json:"where"`
}

// ReportingPeriod bounds the matrix. Start and End are ISO-8601 date strings
// supplied by the caller.
type ReportingPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ThreeWSummary holds statistics derived from the entry list. It is never
// set independently of the entries.
type ThreeWSummary struct {
	TotalOrganizations int            `json:"totalOrganizations"`
	TotalActivities    int            `json:"totalActivities"`
	TotalBeneficiaries int            `json:"totalBeneficiaries"`
	ByCluster          map[string]int `json:"byCluster"`
	ByLocation         map[string]int `json:"byLocation"`
}

// ThreeWMatrix is a complete Who-What-Where coordination matrix for one
// reporting period.
type ThreeWMatrix struct {
	GeneratedAt     time.Time       `json:"generatedAt"`
	ReportingPeriod ReportingPeriod `json:"reportingPeriod"`
	Entries         []ThreeWEntry   `json:"entries"`
	Summary         ThreeWSummary   `json:"summary"`
}

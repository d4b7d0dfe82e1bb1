package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reliefworks/relief-engine/pkg/config"
	"github.com/reliefworks/relief-engine/pkg/models"
)

// IATIVersion is the IATI standard version this exporter produces.
const IATIVersion = "2.03"

// IATI codelist values used by the mapper.
const (
	iatiOrgTypeINGO           = "21" // OrganisationType: International NGO
	iatiRoleImplementing      = "4"  // OrganisationRole: Implementing
	iatiTransactionCommitment = "2"  // TransactionType: Outgoing Commitment
	iatiDateTypeStart         = "1"  // ActivityDateType: Planned start
	iatiDateTypeEnd           = "3"  // ActivityDateType: Planned end
	iatiVocabularyDAC         = "1"  // SectorVocabulary: OECD DAC CRS 5-digit
)

// missionStatusMap maps platform mission statuses (lower-cased) to IATI
// activity status codes. Unrecognized or absent statuses default to
// Implementation.
var missionStatusMap = map[string]models.ActivityStatus{
	"planning":  models.StatusPipeline,
	"active":    models.StatusImplementation,
	"standby":   models.StatusSuspended,
	"completed": models.StatusClosed,
	"cancelled": models.StatusCancelled,
}

// defaultSectors is the fixed DAC sector pair reported on every activity.
// Sectors are not derived from mission content yet; see the known-gap note
// in DESIGN.md.
var defaultSectors = []models.IATISector{
	{Code: "52010", Vocabulary: iatiVocabularyDAC, Narrative: "Food assistance"},
	{Code: "73010", Vocabulary: iatiVocabularyDAC, Narrative: "Immediate post-emergency reconstruction and rehabilitation"},
}

// IATIExportResult is the envelope returned to the API layer.
type IATIExportResult struct {
	XML     string `json:"xml"`
	Version string `json:"version"`
}

// IATIValidationResult reports completeness problems on an activity.
// Valid is true iff Issues is empty.
type IATIValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// IATIActivityService maps missions to IATI-standard activity reports.
type IATIActivityService interface {
	// MapMission builds the IATI activity value object for one mission.
	MapMission(mission models.Mission) models.IATIActivity

	// GenerateXML maps the mission and serializes it as an IATI 2.03
	// activities document.
	GenerateXML(mission models.Mission) IATIExportResult

	// ValidateCompliance checks an activity for the fields IATI publication
	// requires. It returns the issues rather than failing, so callers decide
	// whether to block on incomplete data.
	ValidateCompliance(activity models.IATIActivity) IATIValidationResult
}

// iatiActivityService implements IATIActivityService.
type iatiActivityService struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewIATIActivityService creates a new IATI activity service.
func NewIATIActivityService(cfg *config.Config, logger *zap.Logger) IATIActivityService {
	return &iatiActivityService{
		cfg:    cfg,
		logger: logger.Named("iati-activity"),
		now:    time.Now,
	}
}

var _ IATIActivityService = (*iatiActivityService)(nil)

// MapMission builds an IATI activity from a mission snapshot. Every optional
// mission field degrades to a documented default rather than failing.
func (s *iatiActivityService) MapMission(mission models.Mission) models.IATIActivity {
	activity := models.IATIActivity{
		Identifier:  s.cfg.IATI.ActivityPrefix + "-" + mission.ID,
		Title:       mission.DisplayName(),
		Description: mission.Description,
		Status:      mapMissionStatus(mission.Status),
		StartDate:   dateOnly(mission.StartDate),
		EndDate:     dateOnly(mission.EndDate),
		Sectors:     append([]models.IATISector(nil), defaultSectors...),
		ParticipatingOrgs: []models.IATIParticipatingOrg{
			{
				Ref:  s.cfg.IATI.ReportingOrgRef,
				Type: iatiOrgTypeINGO,
				Role: iatiRoleImplementing,
				Name: mission.OrganizationName(s.cfg.OrganizationName),
			},
		},
	}

	if mission.Location != nil {
		activity.Locations = []models.IATILocation{
			{
				Name:      s.locationName(mission.Location),
				Latitude:  mission.Location.Latitude,
				Longitude: mission.Location.Longitude,
			},
		}
	}

	if mission.Budget > 0 {
		activity.Transactions = []models.IATITransaction{
			{
				Type:        iatiTransactionCommitment,
				Date:        dateOnly(mission.CreatedAt),
				Value:       mission.Budget,
				Currency:    s.cfg.IATI.DefaultCurrency,
				Description: "Mission budget commitment",
			},
		}
	}

	return activity
}

// GenerateXML serializes the mission as an IATI activities document.
func (s *iatiActivityService) GenerateXML(mission models.Mission) IATIExportResult {
	activity := s.MapMission(mission)
	xml := s.renderActivitiesXML(activity)

	s.logger.Info("Generated IATI activity XML",
		zap.String("export_id", uuid.NewString()),
		zap.String("activity_identifier", activity.Identifier),
		zap.String("iati_version", IATIVersion))

	return IATIExportResult{XML: xml, Version: IATIVersion}
}

// ValidateCompliance runs the publication completeness checklist.
func (s *iatiActivityService) ValidateCompliance(activity models.IATIActivity) IATIValidationResult {
	var issues []string

	if activity.Identifier == "" {
		issues = append(issues, "missing activity identifier")
	}
	if activity.Title == "" {
		issues = append(issues, "missing activity title")
	}
	if activity.StartDate == "" {
		issues = append(issues, "missing activity start date")
	}
	if len(activity.ParticipatingOrgs) == 0 {
		issues = append(issues, "no participating organizations")
	}
	if len(activity.Sectors) == 0 {
		issues = append(issues, "no sector classification")
	}

	return IATIValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// locationName returns the best available name for a mission location,
// falling back to the configured country label.
func (s *iatiActivityService) locationName(loc *models.MissionLocation) string {
	switch {
	case loc.Address != "":
		return loc.Address
	case loc.City != "":
		return loc.City
	case loc.County != "":
		return loc.County
	default:
		return s.cfg.DefaultCountry
	}
}

// mapMissionStatus resolves a mission status to an IATI activity status
// code, case-insensitively, defaulting to Implementation.
func mapMissionStatus(status string) models.ActivityStatus {
	if mapped, ok := missionStatusMap[strings.ToLower(strings.TrimSpace(status))]; ok {
		return mapped
	}
	return models.StatusImplementation
}

// renderActivitiesXML hand-builds the <iati-activities> document. The
// serializer writes elements in IATI 2.03 schema order and escapes all
// free-text content.
func (s *iatiActivityService) renderActivitiesXML(activity models.IATIActivity) string {
	var sb strings.Builder
	now := s.now().UTC().Format(time.RFC3339)

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(fmt.Sprintf(`<iati-activities version="%s" generated-datetime="%s">`, IATIVersion, now))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(`  <iati-activity default-currency="%s" last-updated-datetime="%s">`,
		escapeXML(s.cfg.IATI.DefaultCurrency), now))
	sb.WriteString("\n")

	sb.WriteString("    <iati-identifier>" + escapeXML(activity.Identifier) + "</iati-identifier>\n")
	sb.WriteString(fmt.Sprintf(`    <reporting-org ref="%s" type="%s">`,
		escapeXML(s.cfg.IATI.ReportingOrgRef), iatiOrgTypeINGO))
	sb.WriteString("\n      <narrative>" + escapeXML(s.cfg.OrganizationName) + "</narrative>\n")
	sb.WriteString("    </reporting-org>\n")

	sb.WriteString("    <title>\n      <narrative>" + escapeXML(activity.Title) + "</narrative>\n    </title>\n")
	if activity.Description != "" {
		sb.WriteString("    <description>\n      <narrative>" + escapeXML(activity.Description) + "</narrative>\n    </description>\n")
	}

	for _, org := range activity.ParticipatingOrgs {
		sb.WriteString(fmt.Sprintf(`    <participating-org ref="%s" role="%s" type="%s">`,
			escapeXML(org.Ref), org.Role, org.Type))
		sb.WriteString("\n      <narrative>" + escapeXML(org.Name) + "</narrative>\n")
		sb.WriteString("    </participating-org>\n")
	}

	sb.WriteString(fmt.Sprintf("    <activity-status code=\"%s\"/>\n", activity.Status.Code()))

	if activity.StartDate != "" {
		sb.WriteString(fmt.Sprintf("    <activity-date iso-date=\"%s\" type=\"%s\"/>\n",
			activity.StartDate, iatiDateTypeStart))
	}
	if activity.EndDate != "" {
		sb.WriteString(fmt.Sprintf("    <activity-date iso-date=\"%s\" type=\"%s\"/>\n",
			activity.EndDate, iatiDateTypeEnd))
	}

	for _, sector := range activity.Sectors {
		sb.WriteString(fmt.Sprintf(`    <sector vocabulary="%s" code="%s">`,
			sector.Vocabulary, sector.Code))
		sb.WriteString("\n      <narrative>" + escapeXML(sector.Narrative) + "</narrative>\n")
		sb.WriteString("    </sector>\n")
	}

	for _, loc := range activity.Locations {
		sb.WriteString("    <location>\n")
		sb.WriteString("      <name>\n        <narrative>" + escapeXML(loc.Name) + "</narrative>\n      </name>\n")
		if loc.Latitude != nil && loc.Longitude != nil {
			sb.WriteString(`      <point srsName="http://www.opengis.net/def/crs/EPSG/0/4326">`)
			sb.WriteString(fmt.Sprintf("\n        <pos>%s %s</pos>\n", formatScalar(*loc.Latitude), formatScalar(*loc.Longitude)))
			sb.WriteString("      </point>\n")
		}
		sb.WriteString("    </location>\n")
	}

	for _, tx := range activity.Transactions {
		sb.WriteString("    <transaction>\n")
		sb.WriteString(fmt.Sprintf("      <transaction-type code=\"%s\"/>\n", tx.Type))
		sb.WriteString(fmt.Sprintf("      <transaction-date iso-date=\"%s\"/>\n", tx.Date))
		sb.WriteString(fmt.Sprintf(`      <value currency="%s" value-date="%s">%.2f</value>`,
			escapeXML(tx.Currency), tx.Date, tx.Value))
		sb.WriteString("\n")
		if tx.Description != "" {
			sb.WriteString("      <description>\n        <narrative>" + escapeXML(tx.Description) + "</narrative>\n      </description>\n")
		}
		sb.WriteString("    </transaction>\n")
	}

	sb.WriteString("  </iati-activity>\n")
	sb.WriteString("</iati-activities>\n")
	return sb.String()
}

// xmlEscaper escapes the standard XML entities. Apostrophes are left alone
// to match what downstream IATI consumers already accept from this platform.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeXML escapes free-text content before insertion into the document.
func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

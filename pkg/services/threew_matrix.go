package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reliefworks/relief-engine/pkg/config"
	"github.com/reliefworks/relief-engine/pkg/models"
)

// clusterRule classifies a disaster type onto an OCHA cluster by keyword.
// Rules are evaluated top to bottom; the first matching keyword wins.
type clusterRule struct {
	keywords []string
	cluster  string
}

// clusterRules is the ordered keyword classifier for cluster inference.
// The default bucket for anything unmatched is defaultCluster.
var clusterRules = []clusterRule{
	{keywords: []string{"flood", "water"}, cluster: "WASH"},
	{keywords: []string{"earthquake", "building"}, cluster: "Shelter"},
	{keywords: []string{"medical", "health"}, cluster: "Health"},
	{keywords: []string{"food"}, cluster: "Food Security"},
}

// defaultCluster is the bucket for disaster types no rule matches.
const defaultCluster = "Emergency Shelter and NFI"

// clusterSectors maps a cluster to its reporting sector. Clusters outside
// the table report as Multi-Sector.
var clusterSectors = map[string]string{
	"WASH":          "Water, Sanitation, and Hygiene",
	"Shelter":       "Emergency Shelter",
	"Health":        "Health",
	"Food Security": "Food Security and Livelihoods",
}

// defaultSector is the sector for clusters not in clusterSectors.
const defaultSector = "Multi-Sector"

// progressRule maps a mission status keyword to a 3W progress value.
// These rules are deliberately different from the IATI status mapping:
// 3W wants a coarse operational picture, not a funding lifecycle.
type progressRule struct {
	keywords []string
	progress models.ActivityProgress
}

// progressRules is the ordered status classifier; anything unmatched,
// including an absent status, reports as Ongoing.
var progressRules = []progressRule{
	{keywords: []string{"completed", "closed"}, progress: models.ProgressCompleted},
	{keywords: []string{"planning", "pending"}, progress: models.ProgressPlanned},
}

// threeWCSVHeader is the fixed 14-column schema for 3W CSV export. This is
// plain CSV, not HXL; no tag row is emitted.
var threeWCSVHeader = []string{
	"Organization", "Org Type", "Cluster", "Activity", "Sector",
	"Beneficiaries", "Start Date", "End Date", "Status",
	"Country", "Admin1", "Admin2", "Admin3", "Coordinates",
}

// ThreeWMatrixService builds Who-What-Where coordination matrices from
// mission collections.
type ThreeWMatrixService interface {
	// GenerateMatrix maps each mission to a 3W entry and derives the
	// summary statistics. Every mission yields exactly one entry; missing
	// fields degrade to documented defaults.
	GenerateMatrix(missions []models.Mission, period models.ReportingPeriod) models.ThreeWMatrix

	// ExportCSV serializes a matrix in the fixed 14-column schema.
	ExportCSV(matrix models.ThreeWMatrix) ExportResult
}

// threeWMatrixService implements ThreeWMatrixService.
type threeWMatrixService struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewThreeWMatrixService creates a new 3W matrix service.
func NewThreeWMatrixService(cfg *config.Config, logger *zap.Logger) ThreeWMatrixService {
	return &threeWMatrixService{
		cfg:    cfg,
		logger: logger.Named("threew-matrix"),
		now:    time.Now,
	}
}

var _ ThreeWMatrixService = (*threeWMatrixService)(nil)

// GenerateMatrix builds the full coordination matrix for one reporting
// period.
func (s *threeWMatrixService) GenerateMatrix(missions []models.Mission, period models.ReportingPeriod) models.ThreeWMatrix {
	entries := make([]models.ThreeWEntry, 0, len(missions))
	for _, mission := range missions {
		entries = append(entries, s.mapMission(mission))
	}

	matrix := models.ThreeWMatrix{
		GeneratedAt:     s.now().UTC(),
		ReportingPeriod: period,
		Entries:         entries,
		Summary:         summarize(entries),
	}

	s.logger.Info("Generated 3W matrix",
		zap.String("export_id", uuid.NewString()),
		zap.Int("mission_count", len(missions)),
		zap.Int("organization_count", matrix.Summary.TotalOrganizations))
	return matrix
}

// ExportCSV serializes the matrix as plain CSV in the fixed column order.
func (s *threeWMatrixService) ExportCSV(matrix models.ThreeWMatrix) ExportResult {
	var sb strings.Builder

	header := make([]string, 0, len(threeWCSVHeader))
	for _, h := range threeWCSVHeader {
		header = append(header, escapeCSVField(h))
	}
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")

	for _, e := range matrix.Entries {
		coords := ""
		if e.Where.Latitude != nil && e.Where.Longitude != nil {
			coords = formatScalar(*e.Where.Latitude) + "," + formatScalar(*e.Where.Longitude)
		}
		fields := []string{
			e.Who.Organization,
			e.Who.OrgType,
			e.Who.Cluster,
			e.What.Activity,
			e.What.Sector,
			formatScalar(e.What.Beneficiaries),
			dateOnly(e.What.StartDate),
			dateOnly(e.What.EndDate),
			string(e.What.Status),
			e.Where.Country,
			e.Where.Admin1,
			e.Where.Admin2,
			e.Where.Admin3,
			coords,
		}
		for i, f := range fields {
			fields[i] = escapeCSVField(f)
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}

	s.logger.Info("Exported 3W matrix CSV",
		zap.String("export_id", uuid.NewString()),
		zap.Int("entry_count", len(matrix.Entries)))
	return ExportResult{Data: sb.String(), Format: FormatCSV}
}

// mapMission converts one mission to a 3W entry.
func (s *threeWMatrixService) mapMission(mission models.Mission) models.ThreeWEntry {
	cluster := inferCluster(mission.DisasterType)

	entry := models.ThreeWEntry{
		Who: models.ThreeWWho{
			Organization: mission.OrganizationName(s.cfg.OrganizationName),
			OrgType:      "NGO",
			Cluster:      cluster,
		},
		What: models.ThreeWWhat{
			Activity:      mission.DisplayName(),
			Sector:        sectorForCluster(cluster),
			Beneficiaries: mission.BeneficiaryCount,
			StartDate:     mission.StartDate,
			EndDate:       mission.EndDate,
			Status:        inferProgress(mission.Status),
		},
		Where: models.ThreeWWhere{
			Country: s.cfg.DefaultCountry,
		},
	}

	if loc := mission.Location; loc != nil {
		switch {
		case loc.County != "":
			entry.Where.Admin1 = loc.County
		case loc.City != "":
			entry.Where.Admin1 = loc.City
		}
		if loc.Latitude != nil && loc.Longitude != nil && *loc.Latitude != 0 && *loc.Longitude != 0 {
			entry.Where.Latitude = loc.Latitude
			entry.Where.Longitude = loc.Longitude
		}
	}

	return entry
}

// inferCluster runs the ordered keyword rules over the lower-cased disaster
// type.
func inferCluster(disasterType string) string {
	needle := strings.ToLower(disasterType)
	for _, rule := range clusterRules {
		for _, kw := range rule.keywords {
			if strings.Contains(needle, kw) {
				return rule.cluster
			}
		}
	}
	return defaultCluster
}

// sectorForCluster resolves the reporting sector for a cluster.
func sectorForCluster(cluster string) string {
	if sector, ok := clusterSectors[cluster]; ok {
		return sector
	}
	return defaultSector
}

// inferProgress runs the ordered status rules over the lower-cased mission
// status.
func inferProgress(status string) models.ActivityProgress {
	needle := strings.ToLower(status)
	for _, rule := range progressRules {
		for _, kw := range rule.keywords {
			if strings.Contains(needle, kw) {
				return rule.progress
			}
		}
	}
	return models.ProgressOngoing
}

// summarize derives the matrix statistics from the entry list. The summary
// is never settable independently of the entries.
func summarize(entries []models.ThreeWEntry) models.ThreeWSummary {
	summary := models.ThreeWSummary{
		TotalActivities: len(entries),
		ByCluster:       make(map[string]int),
		ByLocation:      make(map[string]int),
	}

	orgs := make(map[string]struct{})
	for _, e := range entries {
		orgs[e.Who.Organization] = struct{}{}
		summary.TotalBeneficiaries += e.What.Beneficiaries

		cluster := e.Who.Cluster
		if cluster == "" {
			cluster = "Other"
		}
		summary.ByCluster[cluster]++

		location := e.Where.Admin1
		if location == "" {
			location = "Unknown"
		}
		summary.ByLocation[location]++
	}
	summary.TotalOrganizations = len(orgs)

	return summary
}

package services

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reliefworks/relief-engine/pkg/models"
)

//go:embed sphere_standards.yaml
var sphereStandardsYAML []byte

// sphereStandards is the parsed minimum-standard reference table.
// Protection has a published threshold but no assessment logic yet; calling
// AssessCompliance with it yields an empty list.
var sphereStandards = mustLoadSphereStandards()

// mustLoadSphereStandards parses the embedded threshold table. A parse
// failure is a build defect, not a runtime condition, so it panics at init.
func mustLoadSphereStandards() map[models.SphereCategory]map[string]models.SphereIndicator {
	standards := make(map[models.SphereCategory]map[string]models.SphereIndicator)
	if err := yaml.Unmarshal(sphereStandardsYAML, &standards); err != nil {
		panic(fmt.Sprintf("invalid embedded sphere standards table: %v", err))
	}
	return standards
}

// reportCategories fixes the category order for full compliance reports.
var reportCategories = []models.SphereCategory{
	models.SphereWASH,
	models.SphereShelter,
	models.SphereFoodSecurity,
	models.SphereHealth,
	models.SphereProtection,
}

// SphereComplianceService scores facility measurements against Sphere
// minimum standards.
type SphereComplianceService interface {
	// AssessCompliance scores one category. Indicators whose inputs are
	// missing are skipped, so partial data yields a shorter list, never a
	// padded one. An unrecognized category yields an empty list.
	AssessCompliance(data models.FacilityData, category models.SphereCategory) []models.SphereAssessment

	// GenerateReport assesses every category and aggregates the results
	// into one compliance report for the facility snapshot.
	GenerateReport(data models.FacilityData, assessor string) models.SphereComplianceReport

	// StandardsReference returns the threshold table as a defensive copy.
	StandardsReference() map[models.SphereCategory]map[string]models.SphereIndicator
}

// sphereComplianceService implements SphereComplianceService.
type sphereComplianceService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSphereComplianceService creates a new Sphere compliance service.
func NewSphereComplianceService(logger *zap.Logger) SphereComplianceService {
	return &sphereComplianceService{
		logger: logger.Named("sphere-compliance"),
		now:    time.Now,
	}
}

var _ SphereComplianceService = (*sphereComplianceService)(nil)

// AssessCompliance scores the facility against one category's indicators.
func (s *sphereComplianceService) AssessCompliance(data models.FacilityData, category models.SphereCategory) []models.SphereAssessment {
	switch category {
	case models.SphereWASH:
		return s.assessWASH(data)
	case models.SphereShelter:
		return s.assessShelter(data)
	case models.SphereFoodSecurity:
		return s.assessFoodSecurity(data)
	case models.SphereHealth:
		return s.assessHealth(data)
	default:
		// Protection has thresholds but no computed assessment yet;
		// unknown categories degrade the same way.
		return []models.SphereAssessment{}
	}
}

// GenerateReport assesses every category and derives the overall score and
// recommendations.
func (s *sphereComplianceService) GenerateReport(data models.FacilityData, assessor string) models.SphereComplianceReport {
	assessments := make([]models.SphereAssessment, 0)
	for _, category := range reportCategories {
		assessments = append(assessments, s.AssessCompliance(data, category)...)
	}

	compliant := 0
	recommendations := make([]string, 0)
	for _, a := range assessments {
		if a.Compliant {
			compliant++
			continue
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Improve %s: Current %s, Target %s", a.Indicator, a.Actual, a.Target))
	}

	overall := 0
	if len(assessments) > 0 {
		overall = int(math.Round(100 * float64(compliant) / float64(len(assessments))))
	}

	report := models.SphereComplianceReport{
		AssessedAt:        s.now().UTC(),
		Location:          data.Location,
		Assessor:          assessor,
		OverallCompliance: overall,
		Assessments:       assessments,
		Recommendations:   recommendations,
	}

	s.logger.Info("Generated Sphere compliance report",
		zap.String("export_id", uuid.NewString()),
		zap.String("location", data.Location),
		zap.Int("assessment_count", len(assessments)),
		zap.Int("overall_compliance", overall))
	return report
}

// StandardsReference returns a fresh copy of the threshold table so callers
// cannot mutate the shared reference data.
func (s *sphereComplianceService) StandardsReference() map[models.SphereCategory]map[string]models.SphereIndicator {
	ref := make(map[models.SphereCategory]map[string]models.SphereIndicator, len(sphereStandards))
	for category, indicators := range sphereStandards {
		copied := make(map[string]models.SphereIndicator, len(indicators))
		for name, indicator := range indicators {
			copied[name] = indicator
		}
		ref[category] = copied
	}
	return ref
}

// assessWASH scores water supply per person and the toilet-sharing ratio.
func (s *sphereComplianceService) assessWASH(data models.FacilityData) []models.SphereAssessment {
	assessments := make([]models.SphereAssessment, 0, 2)

	if data.WaterSupplyLiters != nil && data.Population != nil && *data.Population > 0 {
		perPerson := *data.WaterSupplyLiters / float64(*data.Population)
		assessments = append(assessments,
			s.scoreIndicator(models.SphereWASH, "Water supply", perPerson))
	}

	if data.ToiletCount != nil && data.Population != nil && *data.ToiletCount > 0 {
		ratio := float64(*data.Population) / float64(*data.ToiletCount)
		assessments = append(assessments,
			s.scoreIndicator(models.SphereWASH, "Toilet ratio", ratio))
	}

	return assessments
}

// assessShelter scores covered living space per person.
func (s *sphereComplianceService) assessShelter(data models.FacilityData) []models.SphereAssessment {
	if data.CoveredAreaM2 == nil || data.Population == nil || *data.Population <= 0 {
		return []models.SphereAssessment{}
	}
	perPerson := *data.CoveredAreaM2 / float64(*data.Population)
	return []models.SphereAssessment{
		s.scoreIndicator(models.SphereShelter, "Covered living space", perPerson),
	}
}

// assessFoodSecurity scores daily energy intake.
func (s *sphereComplianceService) assessFoodSecurity(data models.FacilityData) []models.SphereAssessment {
	if data.DailyKcalPerPerson == nil {
		return []models.SphereAssessment{}
	}
	return []models.SphereAssessment{
		s.scoreIndicator(models.SphereFoodSecurity, "Daily energy intake", *data.DailyKcalPerPerson),
	}
}

// assessHealth scores essential drug availability.
func (s *sphereComplianceService) assessHealth(data models.FacilityData) []models.SphereAssessment {
	if data.DrugAvailabilityPct == nil {
		return []models.SphereAssessment{}
	}
	return []models.SphereAssessment{
		s.scoreIndicator(models.SphereHealth, "Essential drug availability", *data.DrugAvailabilityPct),
	}
}

// scoreIndicator compares a measured value against its published threshold.
func (s *sphereComplianceService) scoreIndicator(category models.SphereCategory, indicator string, measured float64) models.SphereAssessment {
	std := sphereStandards[category][indicator]

	compliant := measured >= std.Threshold
	comparator := ">="
	if std.Type == models.ThresholdMax {
		compliant = measured <= std.Threshold
		comparator = "<="
	}

	return models.SphereAssessment{
		Category:  category,
		Indicator: indicator,
		Target:    fmt.Sprintf("%s %s %s", comparator, formatScalar(std.Threshold), std.Unit),
		Actual:    fmt.Sprintf("%s %s", formatScalar(measured), std.Unit),
		Compliant: compliant,
		Notes:     std.Description,
	}
}

package services

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reliefworks/relief-engine/pkg/config"
	"github.com/reliefworks/relief-engine/pkg/models"
)

// hxlTags is the controlled vocabulary of HXL hashtags this platform emits,
// keyed by semantic field name. The tag strings are part of the export
// contract with downstream HXL consumers and must not drift.
var hxlTags = map[string]string{
	"country":       "#country+name",
	"admin1":        "#adm1+name",
	"location":      "#loc+name",
	"latitude":      "#geo+lat",
	"longitude":     "#geo+lon",
	"date":          "#date+reported",
	"eventType":     "#event+type",
	"severity":      "#severity+type",
	"affected":      "#affected+ind",
	"organisation":  "#org+name",
	"resourceType":  "#item+type",
	"quantity":      "#item+quantity",
	"unit":          "#item+unit",
	"beneficiaries": "#beneficiary+ind",
	"status":        "#status+type",
}

// disasterReportColumns is the fixed column schema for disaster-report
// exports. Column order matters to downstream consumers.
var disasterReportColumns = []models.HXLColumn{
	{Header: "Report ID", Tag: "#meta+id"},
	{Header: "Date Reported", Tag: hxlTags["date"]},
	{Header: "Event Type", Tag: hxlTags["eventType"]},
	{Header: "Severity", Tag: hxlTags["severity"]},
	{Header: "County", Tag: hxlTags["admin1"]},
	{Header: "Latitude", Tag: hxlTags["latitude"]},
	{Header: "Longitude", Tag: hxlTags["longitude"]},
	{Header: "People Affected", Tag: hxlTags["affected"]},
	{Header: "Status", Tag: hxlTags["status"]},
}

// distributionColumns is the fixed column schema for resource-distribution
// exports.
var distributionColumns = []models.HXLColumn{
	{Header: "Distribution ID", Tag: "#meta+id"},
	{Header: "Date", Tag: hxlTags["date"]},
	{Header: "Organisation", Tag: hxlTags["organisation"]},
	{Header: "Resource Type", Tag: hxlTags["resourceType"]},
	{Header: "Quantity", Tag: hxlTags["quantity"]},
	{Header: "Unit", Tag: hxlTags["unit"]},
	{Header: "County", Tag: hxlTags["admin1"]},
	{Header: "Beneficiaries", Tag: hxlTags["beneficiaries"]},
}

// HXLExportOptions controls output formatting. A nil options value means
// CSV with headers.
type HXLExportOptions struct {
	// Format selects "csv" (default) or "json".
	Format string `json:"format,omitempty"`

	// IncludeHeaders controls whether the human-readable header row is
	// emitted before the HXL tag row. Defaults to true when nil.
	IncludeHeaders *bool `json:"includeHeaders,omitempty"`

	// DateFormat is accepted for forward compatibility with the API layer
	// but does not yet affect output.
	DateFormat string `json:"dateFormat,omitempty"`
}

// HXLExportService converts disaster-report and resource-distribution
// records to HXL-hashtagged tabular output.
type HXLExportService interface {
	// ExportDisasterReports renders the reports as HXL-tagged CSV or JSON.
	// Missing fields degrade to documented defaults; no input yields a
	// well-formed empty dataset rather than an error.
	ExportDisasterReports(reports []models.DisasterReport, opts *HXLExportOptions) ExportResult

	// ExportResourceDistributions renders the distributions as HXL-tagged
	// CSV or JSON.
	ExportResourceDistributions(dists []models.ResourceDistribution, opts *HXLExportOptions) ExportResult

	// Tags returns the HXL tag vocabulary as a defensive copy.
	Tags() map[string]string
}

// hxlExportService implements HXLExportService.
type hxlExportService struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHXLExportService creates a new HXL export service.
func NewHXLExportService(cfg *config.Config, logger *zap.Logger) HXLExportService {
	return &hxlExportService{
		cfg:    cfg,
		logger: logger.Named("hxl-export"),
	}
}

var _ HXLExportService = (*hxlExportService)(nil)

// ExportDisasterReports renders disaster reports as HXL output.
func (s *hxlExportService) ExportDisasterReports(reports []models.DisasterReport, opts *HXLExportOptions) ExportResult {
	dataset := s.buildDisasterReportDataset(reports)
	result := s.render(dataset, opts)

	s.logger.Info("Exported disaster reports",
		zap.String("export_id", uuid.NewString()),
		zap.Int("report_count", len(reports)),
		zap.String("format", result.Format))
	return result
}

// ExportResourceDistributions renders resource distributions as HXL output.
func (s *hxlExportService) ExportResourceDistributions(dists []models.ResourceDistribution, opts *HXLExportOptions) ExportResult {
	dataset := s.buildDistributionDataset(dists)
	result := s.render(dataset, opts)

	s.logger.Info("Exported resource distributions",
		zap.String("export_id", uuid.NewString()),
		zap.Int("distribution_count", len(dists)),
		zap.String("format", result.Format))
	return result
}

// Tags returns a fresh copy of the HXL tag vocabulary so callers cannot
// mutate the shared table.
func (s *hxlExportService) Tags() map[string]string {
	tags := make(map[string]string, len(hxlTags))
	for key, tag := range hxlTags {
		tags[key] = tag
	}
	return tags
}

// buildDisasterReportDataset projects reports onto the fixed column schema.
// Missing numerics become 0 and missing strings become empty fields.
func (s *hxlExportService) buildDisasterReportDataset(reports []models.DisasterReport) models.HXLDataset {
	rows := make([]map[string]any, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]any{
			"Report ID":       r.ID,
			"Date Reported":   dateOnly(r.CreatedAt),
			"Event Type":      r.ReportType,
			"Severity":        r.Severity,
			"County":          r.County,
			"Latitude":        floatOrNil(r.Latitude),
			"Longitude":       floatOrNil(r.Longitude),
			"People Affected": r.AffectedPeople,
			"Status":          r.Status,
		})
	}
	return models.HXLDataset{Columns: disasterReportColumns, Rows: rows}
}

// buildDistributionDataset projects distributions onto the fixed column
// schema, substituting the platform organization when none was recorded.
func (s *hxlExportService) buildDistributionDataset(dists []models.ResourceDistribution) models.HXLDataset {
	rows := make([]map[string]any, 0, len(dists))
	for _, d := range dists {
		rows = append(rows, map[string]any{
			"Distribution ID": d.ID,
			"Date":            dateOnly(d.Date),
			"Organisation":    d.OrganizationName(s.cfg.OrganizationName),
			"Resource Type":   d.ResourceType,
			"Quantity":        d.Quantity,
			"Unit":            d.Unit,
			"County":          d.County,
			"Beneficiaries":   d.BeneficiaryCount,
		})
	}
	return models.HXLDataset{Columns: distributionColumns, Rows: rows}
}

// render serializes a dataset according to the requested options.
func (s *hxlExportService) render(dataset models.HXLDataset, opts *HXLExportOptions) ExportResult {
	format := FormatCSV
	includeHeaders := true
	if opts != nil {
		if opts.Format == FormatJSON {
			format = FormatJSON
		}
		if opts.IncludeHeaders != nil {
			includeHeaders = *opts.IncludeHeaders
		}
	}

	if format == FormatJSON {
		return ExportResult{Data: renderHXLJSON(dataset), Format: FormatJSON}
	}
	return ExportResult{Data: renderHXLCSV(dataset, includeHeaders), Format: FormatCSV}
}

// renderHXLCSV emits the optional header row, the mandatory HXL tag row,
// and one data row per record. Every row has exactly one field per column.
func renderHXLCSV(dataset models.HXLDataset, includeHeaders bool) string {
	var sb strings.Builder

	if includeHeaders {
		writeCSVRow(&sb, dataset.Columns, func(c models.HXLColumn) string { return c.Header })
	}
	writeCSVRow(&sb, dataset.Columns, func(c models.HXLColumn) string { return c.Tag })

	for _, row := range dataset.Rows {
		fields := make([]string, 0, len(dataset.Columns))
		for _, col := range dataset.Columns {
			fields = append(fields, escapeCSVField(formatScalar(row[col.Header])))
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeCSVRow writes one escaped row derived from the column list.
func writeCSVRow(sb *strings.Builder, columns []models.HXLColumn, value func(models.HXLColumn) string) {
	fields := make([]string, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, escapeCSVField(value(col)))
	}
	sb.WriteString(strings.Join(fields, ","))
	sb.WriteString("\n")
}

// renderHXLJSON emits the dataset as a single pretty-printed object. The
// tags travel with each column, so no tag row is needed.
func renderHXLJSON(dataset models.HXLDataset) string {
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		// Datasets are built from scalars only; marshaling cannot fail.
		return "{}"
	}
	return string(data)
}

// floatOrNil unwraps an optional coordinate for row projection.
func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

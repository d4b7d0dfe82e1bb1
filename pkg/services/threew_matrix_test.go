package services

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reliefworks/relief-engine/pkg/models"
)

func samplePeriod() models.ReportingPeriod {
	return models.ReportingPeriod{Start: "2024-01-01", End: "2024-06-30"}
}

func sampleMissions() []models.Mission {
	return []models.Mission{
		{
			ID:               "m-1",
			Name:             "Flood Response Tana",
			Status:           "active",
			DisasterType:     "Major Flood Event",
			Organization:     &models.Organization{Name: "Kenya Red Cross"},
			Location:         &models.MissionLocation{County: "Tana River", Latitude: floatPtr(-1.5), Longitude: floatPtr(40.03)},
			BeneficiaryCount: 3000,
			StartDate:        "2024-02-01T00:00:00Z",
			CreatedAt:        "2024-01-15T00:00:00Z",
		},
		{
			ID:           "m-2",
			Name:         "Clinic Restock",
			Status:       "completed",
			DisasterType: "Medical supply shortage",
			Organization: &models.Organization{Name: "Kenya Red Cross"},
			Location:     &models.MissionLocation{City: "Garissa"},
			CreatedAt:    "2024-01-20T00:00:00Z",
		},
		{
			ID:               "m-3",
			Name:             "Drought Relief",
			Status:           "planning",
			DisasterType:     "Drought",
			BeneficiaryCount: 1200,
			CreatedAt:        "2024-02-01T00:00:00Z",
		},
	}
}

func TestInferCluster(t *testing.T) {
	tests := []struct {
		name         string
		disasterType string
		want         string
	}{
		{name: "flood keyword", disasterType: "Major Flood Event", want: "WASH"},
		{name: "water keyword", disasterType: "water contamination", want: "WASH"},
		{name: "earthquake keyword", disasterType: "Earthquake aftermath", want: "Shelter"},
		{name: "building keyword", disasterType: "building collapse", want: "Shelter"},
		{name: "medical keyword", disasterType: "Medical emergency", want: "Health"},
		{name: "health keyword", disasterType: "public health crisis", want: "Health"},
		{name: "food keyword", disasterType: "Food shortage", want: "Food Security"},
		{name: "flood beats food by rule order", disasterType: "flood destroyed food stores", want: "WASH"},
		{name: "unmatched default", disasterType: "Drought", want: "Emergency Shelter and NFI"},
		{name: "empty default", disasterType: "", want: "Emergency Shelter and NFI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCluster(tt.disasterType))
		})
	}
}

func TestInferProgress(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   models.ActivityProgress
	}{
		{name: "completed", status: "completed", want: models.ProgressCompleted},
		{name: "closed", status: "Closed", want: models.ProgressCompleted},
		{name: "planning", status: "planning", want: models.ProgressPlanned},
		{name: "pending", status: "PENDING", want: models.ProgressPlanned},
		{name: "active is ongoing", status: "active", want: models.ProgressOngoing},
		{name: "absent is ongoing", status: "", want: models.ProgressOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferProgress(tt.status))
		})
	}
}

func TestGenerateMatrix_ClusterAndSector(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix(sampleMissions()[:1], samplePeriod())

	require.Len(t, matrix.Entries, 1)
	entry := matrix.Entries[0]
	assert.Equal(t, "WASH", entry.Who.Cluster)
	assert.Equal(t, "Water, Sanitation, and Hygiene", entry.What.Sector)
	assert.Equal(t, "NGO", entry.Who.OrgType)
	assert.Equal(t, "Tana River", entry.Where.Admin1)
	assert.Equal(t, "Kenya", entry.Where.Country)
	require.NotNil(t, entry.Where.Latitude)
}

func TestGenerateMatrix_Defaults(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix([]models.Mission{{ID: "m-x", CreatedAt: "2024-01-01T00:00:00Z"}}, samplePeriod())

	require.Len(t, matrix.Entries, 1)
	entry := matrix.Entries[0]
	assert.Equal(t, "ReliefWorks", entry.Who.Organization)
	assert.Equal(t, "Emergency Shelter and NFI", entry.Who.Cluster)
	assert.Equal(t, models.ProgressOngoing, entry.What.Status)
	assert.Equal(t, "", entry.Where.Admin1)
	assert.Nil(t, entry.Where.Latitude)
}

func TestGenerateMatrix_CityFallsBackToAdmin1(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix(sampleMissions()[1:2], samplePeriod())
	assert.Equal(t, "Garissa", matrix.Entries[0].Where.Admin1)
}

func TestGenerateMatrix_Summary(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix(sampleMissions(), samplePeriod())

	want := models.ThreeWSummary{
		TotalOrganizations: 2, // Kenya Red Cross + ReliefWorks fallback
		TotalActivities:    3,
		TotalBeneficiaries: 4200,
		ByCluster: map[string]int{
			"WASH":                      1,
			"Health":                    1,
			"Emergency Shelter and NFI": 1,
		},
		ByLocation: map[string]int{
			"Tana River": 1,
			"Garissa":    1,
			"Unknown":    1,
		},
	}
	if diff := cmp.Diff(want, matrix.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMatrix_SummaryConsistency(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix(sampleMissions(), samplePeriod())

	assert.Equal(t, len(matrix.Entries), matrix.Summary.TotalActivities)
	clusterTotal := 0
	for _, count := range matrix.Summary.ByCluster {
		clusterTotal += count
	}
	assert.Equal(t, len(matrix.Entries), clusterTotal)
	assert.False(t, matrix.GeneratedAt.IsZero())
	assert.Equal(t, samplePeriod(), matrix.ReportingPeriod)
}

func TestSummarize_EmptyClusterBucketsAsOther(t *testing.T) {
	summary := summarize([]models.ThreeWEntry{
		{Who: models.ThreeWWho{Organization: "Org A"}},
	})
	assert.Equal(t, 1, summary.ByCluster["Other"])
	assert.Equal(t, 1, summary.ByLocation["Unknown"])
}

func TestExportCSV(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	matrix := svc.GenerateMatrix(sampleMissions(), samplePeriod())
	result := svc.ExportCSV(matrix)
	require.Equal(t, "csv", result.Format)

	records, err := csv.NewReader(strings.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 entries
	for _, record := range records {
		assert.Len(t, record, 14)
	}
	assert.Equal(t, threeWCSVHeader, records[0])

	// Coordinates collapse into one "lat,lon" field, quoted on the wire.
	assert.Equal(t, "-1.5,40.03", records[1][13])
	assert.Equal(t, "", records[2][13])

	// Dates truncate to YYYY-MM-DD.
	assert.Equal(t, "2024-02-01", records[1][6])
}

func TestExportCSV_EmptyMatrix(t *testing.T) {
	svc := NewThreeWMatrixService(newTestConfig(t), zap.NewNop())

	result := svc.ExportCSV(svc.GenerateMatrix(nil, samplePeriod()))
	lines := csvLines(result.Data)
	require.Len(t, lines, 1) // header only
}

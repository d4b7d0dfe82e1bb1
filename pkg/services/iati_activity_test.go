package services

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reliefworks/relief-engine/pkg/models"
)

// requireWellFormedXML walks every token in the document and fails on the
// first syntax error.
func requireWellFormedXML(t *testing.T, doc string) {
	t.Helper()
	decoder := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func sampleMission() models.Mission {
	return models.Mission{
		ID:           "m-100",
		Name:         "Tana River Flood Response",
		Description:  "Emergency response to seasonal flooding",
		Status:       "active",
		DisasterType: "Flood",
		Organization: &models.Organization{Name: "Kenya Red Cross"},
		Location: &models.MissionLocation{
			City:      "Hola",
			County:    "Tana River",
			Latitude:  floatPtr(-1.5),
			Longitude: floatPtr(40.03),
		},
		Budget:    250000,
		StartDate: "2024-03-01T10:00:00Z",
		EndDate:   "2024-09-30T00:00:00Z",
		CreatedAt: "2024-02-20T14:00:00Z",
	}
}

func TestMapMission_StatusMapping(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	tests := []struct {
		name   string
		status string
		want   models.ActivityStatus
	}{
		{name: "planning", status: "planning", want: models.StatusPipeline},
		{name: "active", status: "active", want: models.StatusImplementation},
		{name: "standby", status: "standby", want: models.StatusSuspended},
		{name: "completed", status: "completed", want: models.StatusClosed},
		{name: "cancelled", status: "cancelled", want: models.StatusCancelled},
		{name: "case insensitive", status: "  COMPLETED ", want: models.StatusClosed},
		{name: "absent defaults to implementation", status: "", want: models.StatusImplementation},
		{name: "unrecognized defaults to implementation", status: "paused", want: models.StatusImplementation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mission := sampleMission()
			mission.Status = tt.status
			activity := svc.MapMission(mission)
			assert.Equal(t, tt.want, activity.Status)
		})
	}
}

func TestMapMission_Defaults(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	activity := svc.MapMission(models.Mission{ID: "m-1", Title: "Only a title", CreatedAt: "2024-01-01T00:00:00Z"})

	assert.Equal(t, "RW-KE-m-1", activity.Identifier)
	assert.Equal(t, "Only a title", activity.Title)
	assert.Equal(t, models.StatusImplementation, activity.Status)
	require.Len(t, activity.Sectors, 2)
	assert.Equal(t, "52010", activity.Sectors[0].Code)
	assert.Equal(t, "73010", activity.Sectors[1].Code)
	require.Len(t, activity.ParticipatingOrgs, 1)
	assert.Equal(t, "ReliefWorks", activity.ParticipatingOrgs[0].Name)
	assert.Empty(t, activity.Locations)    // no location sub-record
	assert.Empty(t, activity.Transactions) // no budget
}

func TestMapMission_NamePrecedesTitle(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	activity := svc.MapMission(models.Mission{ID: "m-2", Name: "Name", Title: "Title", CreatedAt: "2024-01-01T00:00:00Z"})
	assert.Equal(t, "Name", activity.Title)
}

func TestMapMission_LocationNameFallsBackToCountry(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	mission := sampleMission()
	mission.Location = &models.MissionLocation{}
	activity := svc.MapMission(mission)

	require.Len(t, activity.Locations, 1)
	assert.Equal(t, "Kenya", activity.Locations[0].Name)
	assert.Nil(t, activity.Locations[0].Latitude)
}

func TestMapMission_TransactionFromBudget(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	activity := svc.MapMission(sampleMission())

	require.Len(t, activity.Transactions, 1)
	tx := activity.Transactions[0]
	assert.Equal(t, "2", tx.Type) // outgoing commitment
	assert.Equal(t, "2024-02-20", tx.Date)
	assert.Equal(t, 250000.0, tx.Value)
	assert.Equal(t, "USD", tx.Currency)
}

func TestGenerateXML_WellFormed(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	result := svc.GenerateXML(sampleMission())
	require.Equal(t, IATIVersion, result.Version)
	requireWellFormedXML(t, result.XML)
}

func TestGenerateXML_EscapesFreeText(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	mission := sampleMission()
	mission.Name = `Flood <relief> & "recovery"`
	result := svc.GenerateXML(mission)

	assert.Contains(t, result.XML, "Flood &lt;relief&gt; &amp; &quot;recovery&quot;")
	assert.NotContains(t, result.XML, `<narrative>Flood <relief>`)

	// The document must still parse after escaping.
	requireWellFormedXML(t, result.XML)
}

func TestGenerateXML_DatesTruncated(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	result := svc.GenerateXML(sampleMission())

	assert.Contains(t, result.XML, `<activity-date iso-date="2024-03-01" type="1"/>`)
	assert.Contains(t, result.XML, `<activity-date iso-date="2024-09-30" type="3"/>`)
}

func TestGenerateXML_PointOmittedWithoutCoordinates(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	mission := sampleMission()
	mission.Location = &models.MissionLocation{City: "Hola"}
	result := svc.GenerateXML(mission)

	assert.Contains(t, result.XML, "<location>")
	assert.NotContains(t, result.XML, "<point")
}

func TestValidateCompliance(t *testing.T) {
	svc := NewIATIActivityService(newTestConfig(t), zap.NewNop())

	t.Run("complete activity is valid", func(t *testing.T) {
		result := svc.ValidateCompliance(svc.MapMission(sampleMission()))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Issues)
	})

	t.Run("empty activity reports every issue", func(t *testing.T) {
		result := svc.ValidateCompliance(models.IATIActivity{})
		assert.False(t, result.Valid)
		assert.Len(t, result.Issues, 5)
	})

	t.Run("missing start date only", func(t *testing.T) {
		activity := svc.MapMission(sampleMission())
		activity.StartDate = ""
		result := svc.ValidateCompliance(activity)
		assert.False(t, result.Valid)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "missing activity start date", result.Issues[0])
	})
}

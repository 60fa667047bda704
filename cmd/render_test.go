package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"drishti-cli/internal/escalation"
	"drishti-cli/internal/notify"
	"drishti-cli/internal/view"
	"drishti-cli/pkg/models"
)

func sampleView() view.View {
	return view.Build(view.Input{
		Detections: []models.Detection{{BBox: []float64{10, 20, 110, 70}, Label: "person", Confidence: 0.91}},
		Soldiers: []models.PersonnelRecord{
			{ID: "S001", Name: "Lt. Kumar", Status: models.StatusCritical, HeartRate: 132, GPS: models.GPS{Lat: 28.6139, Lon: 77.209}, LastUpdate: 1000},
		},
		Alerts: []models.Alert{
			{Severity: models.SeverityHigh, Type: models.AlertSoldierEmergency, Message: "CRITICAL: Lt. Kumar", Timestamp: 995,
				Meta: models.SoldierMeta{SoldierID: "S001", SoldierName: "Lt. Kumar", HeartRate: 132}},
		},
		Banner:     notify.BannerState{Active: true, Text: notify.BannerText, Detail: "CRITICAL: Lt. Kumar", Since: time.Unix(995, 0)},
		Escalation: escalation.State{Watermark: 995, BannerActive: true},
	}, time.Unix(1000, 0))
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	renderDashboard(&buf, sampleView())
	out := buf.String()

	assert.Contains(t, out, notify.BannerText)
	assert.Contains(t, out, "filter=all")
	assert.Contains(t, out, "person")
	assert.Contains(t, out, "91%")
	assert.Contains(t, out, "132 bpm !")
	assert.Contains(t, out, "28.6139, 77.2090")
	assert.Contains(t, out, "CRITICAL: Lt. Kumar")
	assert.Contains(t, out, "5s ago")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	v := view.Build(view.Input{}, time.Unix(0, 0))
	renderDashboard(&buf, v)
	out := buf.String()

	assert.NotContains(t, out, notify.BannerText)
	assert.Contains(t, out, "No detections in the current frame.")
	assert.Contains(t, out, "No soldiers reported.")
	assert.Contains(t, out, "No alerts in the current window.")
}

func TestPrintStructured(t *testing.T) {
	defer func() { jsonOutput, yamlOutput = false, false }()

	var buf bytes.Buffer
	assert.False(t, printStructured(&buf, 1))
	assert.Empty(t, buf.String())

	jsonOutput = true
	require.True(t, printStructured(&buf, sampleView().Alerts))
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	alert := rows[0]["alert"].(map[string]any)
	assert.Equal(t, "HIGH", alert["severity"])
	assert.Equal(t, "S001", alert["meta"].(map[string]any)["soldier_id"])

	jsonOutput, yamlOutput = false, true
	buf.Reset()
	require.True(t, printStructured(&buf, sampleView().Soldiers))
	var soldiers []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &soldiers))
	require.Len(t, soldiers, 1)
	assert.Equal(t, true, soldiers[0]["heart_rate_anomalous"])
}

func TestPrintFrame_OneLinePerJSONFrame(t *testing.T) {
	defer func() { jsonOutput, yamlOutput = false, false }()
	jsonOutput = true

	var buf bytes.Buffer
	require.True(t, printFrame(&buf, sampleView()))
	require.True(t, printFrame(&buf, sampleView()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var frame map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &frame))
		assert.Equal(t, "all", frame["filter"])
	}
}

func TestPrintFrame_YAMLDocuments(t *testing.T) {
	defer func() { jsonOutput, yamlOutput = false, false }()
	yamlOutput = true

	var buf bytes.Buffer
	require.True(t, printFrame(&buf, map[string]int{"n": 1}))
	require.True(t, printFrame(&buf, map[string]int{"n": 2}))

	dec := yaml.NewDecoder(&buf)
	var got []int
	for {
		var doc map[string]int
		if err := dec.Decode(&doc); err != nil {
			break
		}
		got = append(got, doc["n"])
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestRenderMap(t *testing.T) {
	soldiers := []models.PersonnelRecord{
		{ID: "S001", Status: models.StatusOK},
		{ID: "S002", Status: models.StatusAtRisk},
		{ID: "S003", Status: models.StatusCritical},
		{ID: "S004", Status: models.StatusOK},
	}
	v := view.Build(view.Input{Soldiers: soldiers}, time.Unix(0, 0))

	var buf bytes.Buffer
	renderMap(&buf, v.Soldiers)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "S001")
	assert.Contains(t, lines[0], "S003")
	assert.Contains(t, lines[1], "S004")

	buf.Reset()
	renderMap(&buf, nil)
	assert.Equal(t, "No soldier data.\n", buf.String())
}

package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

var reportTime = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func peerGroup() []model.DistrictRecord {
	return []model.DistrictRecord{
		{State: "Andhra Pradesh", District: "anantapur", DEI: 0.45, AHS: 0.6, UBS: 0.3, SRS: 0.2},
		{State: "Andhra Pradesh", District: "chittoor", DEI: 0.85, AHS: 0.8, UBS: 0.2, SRS: 0.2},
		{State: "Andhra Pradesh", District: "guntur", DEI: 0.65, AHS: 0.55, UBS: 0.5, SRS: 0.4},
	}
}

func TestWriteDistrict(t *testing.T) {
	peers := peerGroup()
	var sb strings.Builder

	err := WriteDistrict(&sb, peers[0], peers, reportTime)
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, "AADHAAR N.E.X.U.S - DISTRICT REPORT")
	assert.Contains(t, out, "STATE: Andhra Pradesh")
	assert.Contains(t, out, "DISTRICT: Anantapur")
	assert.Contains(t, out, "REPORT DATE: 2026-03-14 10:30")

	// Four score rows in fixed order.
	deiIdx := strings.Index(out, "Digital Equity Index")
	ahsIdx := strings.Index(out, "Access Health Score")
	ubsIdx := strings.Index(out, "Update Load Score")
	srsIdx := strings.Index(out, "Stability Score")
	require.True(t, deiIdx >= 0 && ahsIdx >= 0 && ubsIdx >= 0 && srsIdx >= 0)
	assert.True(t, deiIdx < ahsIdx && ahsIdx < ubsIdx && ubsIdx < srsIdx, "metric rows must keep canonical order")

	// Mean DEI is 0.650; signed difference for anantapur is -0.200.
	assert.Contains(t, out, "0.650")
	assert.Contains(t, out, "-0.200")

	// DEI 0.45 triggers the critical assessment and its detailed block.
	assert.Contains(t, out, "STATUS: Critical Equity Gap")
	assert.Contains(t, out, "immediate, comprehensive intervention")

	assert.Contains(t, out, "END OF REPORT")
}

func TestWriteDistrictEmptyPeers(t *testing.T) {
	var sb strings.Builder
	err := WriteDistrict(&sb, model.DistrictRecord{State: "X", District: "p"}, nil, reportTime)
	require.Error(t, err)
}

func TestWriteState(t *testing.T) {
	var sb strings.Builder

	err := WriteState(&sb, "Andhra Pradesh", peerGroup(), reportTime)
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, "AADHAAR N.E.X.U.S - STATE REPORT")
	assert.Contains(t, out, "STATE: Andhra Pradesh")
	assert.Contains(t, out, "DISTRICTS: 3")
	assert.Contains(t, out, "OVERALL TIER: Warning")

	// Insight lines are present with markdown markers stripped.
	assert.Contains(t, out, "Best performer: Chittoor")
	assert.NotContains(t, out, "**")

	// Representative rows: worst, median, best.
	antIdx := strings.Index(out, "Anantapur")
	gunIdx := strings.Index(out, "Guntur")
	_ = strings.Index(out, "Chittoor")
	interventionIdx := strings.Index(out, "INTERVENTION MAPPING")
	require.True(t, interventionIdx >= 0)
	assert.True(t, antIdx > interventionIdx || gunIdx > interventionIdx)
	assert.Contains(t, out, "DOMINANT RISK")
}

func TestWriteStateEmpty(t *testing.T) {
	var sb strings.Builder
	err := WriteState(&sb, "Nowhere", nil, reportTime)
	require.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	groups := map[string][]model.DistrictRecord{
		"Goa": {
			{State: "Goa", District: "south goa", DEI: 0.79, AHS: 0.74, UBS: 0.33, SRS: 0.28},
			{State: "Goa", District: "north goa", DEI: 0.81, AHS: 0.77, UBS: 0.3, SRS: 0.25},
		},
		"Kerala": {
			{State: "Kerala", District: "idukki", DEI: 0.9, AHS: 0.85, UBS: 0.1, SRS: 0.1},
		},
	}

	err := WriteXLSX(path, []string{"Goa", "Kerala"}, groups)
	require.NoError(t, err)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, "Goa", f.Sheets[0].Name)

	goa := f.Sheets[0]
	require.GreaterOrEqual(t, len(goa.Rows), 3)
	assert.Equal(t, "District", goa.Rows[0].Cells[0].String())
	// Sorted by DEI descending: north goa first.
	assert.Equal(t, "North Goa", goa.Rows[1].Cells[0].String())
	assert.Equal(t, "Healthy", goa.Rows[1].Cells[5].String())
}

func TestWriteXLSXNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	err := WriteXLSX(path, []string{"Goa"}, map[string][]model.DistrictRecord{})
	require.Error(t, err)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

func testDataset() []model.DistrictRecord {
	return []model.DistrictRecord{
		{State: "Andhra Pradesh", District: "anantapur", DEI: 0.45, AHS: 0.6, UBS: 0.3, SRS: 0.2},
		{State: "Andhra Pradesh", District: "chittoor", DEI: 0.85, AHS: 0.8, UBS: 0.2, SRS: 0.2},
		{State: "Kerala", District: "idukki", DEI: 0.9, AHS: 0.85, UBS: 0.1, SRS: 0.1},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(testDataset(), Options{})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	var body map[string]any
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["districts"])
}

func TestNational(t *testing.T) {
	_, ts := newTestServer(t)

	var view struct {
		TotalDistricts int `json:"total_districts"`
		TotalStates    int `json:"total_states"`
		States         []struct {
			State string `json:"state"`
		} `json:"states"`
	}
	status := getJSON(t, ts.URL+"/api/national", &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, view.TotalDistricts)
	assert.Equal(t, 2, view.TotalStates)
	require.Len(t, view.States, 2)
	// Kerala (0.9) outranks Andhra Pradesh (0.65).
	assert.Equal(t, "Kerala", view.States[0].State)
}

func TestNationalTopBottomStates(t *testing.T) {
	s := New(testDataset(), Options{TopStates: 1})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	var view struct {
		Top []struct {
			State string `json:"state"`
		} `json:"top_states"`
		Bottom []struct {
			State string `json:"state"`
		} `json:"bottom_states"`
	}
	status := getJSON(t, ts.URL+"/api/national", &view)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, view.Top, 1)
	require.Len(t, view.Bottom, 1)
	assert.Equal(t, "Kerala", view.Top[0].State)
	assert.Equal(t, "Andhra Pradesh", view.Bottom[0].State)
}

func TestNationalEmptyDataset(t *testing.T) {
	s := New(nil, Options{})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	status := getJSON(t, ts.URL+"/api/national", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestDistribution(t *testing.T) {
	_, ts := newTestServer(t)

	var dist struct {
		Mean    float64 `json:"mean"`
		Buckets []any   `json:"buckets"`
	}
	status := getJSON(t, ts.URL+"/api/distribution?bins=5", &dist)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.7333, dist.Mean, 0.001)
	assert.Len(t, dist.Buckets, 5)
}

func TestDistributionBadBins(t *testing.T) {
	_, ts := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/distribution?bins=zero", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/distribution?bins=0", nil))
}

func TestState(t *testing.T) {
	_, ts := newTestServer(t)

	var state struct {
		State    string         `json:"state"`
		Category string         `json:"category"`
		RiskMix   map[string]int `json:"risk_mix"`
		Insights  []string       `json:"insights"`
		Districts []struct {
			District string `json:"district"`
		} `json:"districts"`
	}
	// Lookup is case-insensitive.
	status := getJSON(t, ts.URL+"/api/states/andhra%20pradesh", &state)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Andhra Pradesh", state.State)
	assert.Equal(t, "Warning", state.Category)
	assert.Equal(t, 1, state.RiskMix["Healthy"])
	assert.NotEmpty(t, state.Insights)
	// Districts worst DEI first.
	require.Len(t, state.Districts, 2)
	assert.Equal(t, "anantapur", state.Districts[0].District)
}

func TestStateNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/states/Nowhere", nil))
}

func TestDistrict(t *testing.T) {
	_, ts := newTestServer(t)

	var district struct {
		Record struct {
			District string  `json:"district"`
			DEI      float64 `json:"dei"`
		} `json:"record"`
		RiskCategory   string `json:"risk_category"`
		IssueType      string `json:"issue_type"`
		Recommendation struct {
			Level string `json:"level"`
		} `json:"recommendation"`
		Badges map[string]struct {
			Label string `json:"label"`
		} `json:"badges"`
		Intervention struct {
			DominantRisk string `json:"dominant_risk"`
		} `json:"intervention"`
	}
	status := getJSON(t, ts.URL+"/api/states/Andhra%20Pradesh/districts/anantapur", &district)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anantapur", district.Record.District)
	// DEI 0.45 with no metric breach: critical issue, healthy risk.
	assert.Equal(t, "critical", district.IssueType)
	assert.Equal(t, "Healthy", district.RiskCategory)
	assert.Equal(t, "critical", district.Recommendation.Level)
	assert.Len(t, district.Badges, 4)
	assert.NotEmpty(t, district.Intervention.DominantRisk)
}

func TestDistrictNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/states/Kerala/districts/nowhere", nil))
}

func TestSetRecordsSwapsDataset(t *testing.T) {
	s, ts := newTestServer(t)

	s.SetRecords([]model.DistrictRecord{
		{State: "Goa", District: "north goa", DEI: 0.81, AHS: 0.77, UBS: 0.3, SRS: 0.25},
	})

	var view struct {
		TotalDistricts int `json:"total_districts"`
	}
	status := getJSON(t, ts.URL+"/api/national", &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, view.TotalDistricts)
}

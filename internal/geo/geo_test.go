package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/time/rate"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

const boundaryFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"ST_NM": "Kerala"},
			"geometry": {"type": "Point", "coordinates": [76.3, 10.0]}
		},
		{
			"type": "Feature",
			"properties": {"ST_NM": "Jammu & Kashmir"},
			"geometry": {"type": "Point", "coordinates": [74.8, 34.1]}
		},
		{
			"type": "Feature",
			"properties": {"ST_NM": "Lakshadweep"},
			"geometry": {"type": "Point", "coordinates": [72.6, 10.6]}
		}
	]
}`

func testRollups(t *testing.T) []aggregate.StateRollup {
	t.Helper()
	records := []model.DistrictRecord{
		{State: "Kerala", District: "idukki", DEI: 0.9, AHS: 0.85, UBS: 0.1, SRS: 0.1},
		{State: "Kerala", District: "wayanad", DEI: 0.8, AHS: 0.75, UBS: 0.2, SRS: 0.15},
		{State: "Jammu and Kashmir", District: "srinagar", DEI: 0.55, AHS: 0.6, UBS: 0.4, SRS: 0.3},
		{State: "Sikkim", District: "gangtok", DEI: 0.7, AHS: 0.7, UBS: 0.3, SRS: 0.2},
	}
	view, err := aggregate.National(records)
	require.NoError(t, err)
	return view.States
}

func TestBoundaryName(t *testing.T) {
	assert.Equal(t, "Jammu & Kashmir", BoundaryName("Jammu and Kashmir"))
	assert.Equal(t, "Kerala", BoundaryName("Kerala"))
}

func TestJoinStates(t *testing.T) {
	var fc geojson.FeatureCollection
	require.NoError(t, fc.UnmarshalJSON([]byte(boundaryFixture)))

	result := JoinStates(&fc, testRollups(t))

	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, []string{"Sikkim"}, result.MissingStates)
	assert.Equal(t, []string{"Lakshadweep"}, result.OrphanFeatures)

	kerala := fc.Features[0]
	require.Equal(t, "Kerala", kerala.Properties["ST_NM"])
	assert.InDelta(t, 0.85, kerala.Properties["dei"].(float64), 1e-9)
	assert.Equal(t, 2, kerala.Properties["districts"])
	assert.Equal(t, "Good", kerala.Properties["tier"])
	mix := kerala.Properties["risk_mix"].(map[string]int)
	assert.Equal(t, 2, mix["Healthy"])

	// The dataset spelling joined against the boundary spelling.
	jk := fc.Features[1]
	assert.InDelta(t, 0.55, jk.Properties["dei"].(float64), 1e-9)

	// Feature without data is left untouched.
	assert.NotContains(t, fc.Features[2].Properties, "dei")
}

func TestJoinStatesWriteRoundTrip(t *testing.T) {
	var fc geojson.FeatureCollection
	require.NoError(t, fc.UnmarshalJSON([]byte(boundaryFixture)))
	JoinStates(&fc, testRollups(t))

	path := filepath.Join(t.TempDir(), "states.geojson")
	require.NoError(t, WriteStates(path, &fc))

	reloaded, err := LoadStates(path)
	require.NoError(t, err)
	require.Len(t, reloaded.Features, 3)
	assert.InDelta(t, 0.85, reloaded.Features[0].Properties["dei"].(float64), 1e-9)

	pt, ok := reloaded.Features[0].Geometry.(*geom.Point)
	require.True(t, ok)
	assert.InDelta(t, 76.3, pt.X(), 1e-9)
}

func TestFetchStates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nexus-cli/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(boundaryFixture)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{})
	fc, err := c.FetchStates(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 3)
}

func TestFetchStatesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(boundaryFixture)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{MaxRetries: 3, Limiter: rate.NewLimiter(rate.Inf, 1)})
	fc, err := c.FetchStates(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 3)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchStatesEmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{})
	_, err := c.FetchStates(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no features")
}

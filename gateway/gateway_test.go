package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"web/lodcluster/cluster"
	"web/lodcluster/itemsource"
	"web/lodcluster/metrics"
	"web/lodcluster/proto"
	"web/lodcluster/runner"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogue, err := itemsource.NewCatalogue(t.TempDir())
	require.NoError(t, err)
	p := metrics.NewPrometheus()
	r := runner.NewClusterRunner(catalogue, 2, runner.WithMetrics(p))
	t.Cleanup(r.Close)

	return NewServer(runner.LocalClient(r)).Router(p.Handler())
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createDataset(t *testing.T, router http.Handler, n int) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/datasets", `{"numPoints": `+strconv.Itoa(n)+`, "seed": 11}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var info proto.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.NotEmpty(t, info.Id)
	return info.Id
}

func finestScale() string {
	return strconv.FormatFloat(cluster.LODForLevel(cluster.MaxLevel).Scale, 'f', -1, 64)
}

func TestDatasetLifecycle(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/datasets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	id := createDataset(t, router, 200)

	w = do(t, router, http.MethodGet, "/api/datasets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []proto.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].Id)

	w = do(t, router, http.MethodPost, "/api/datasets/"+id+"/load", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"itemCount":200`)

	w = do(t, router, http.MethodGet, "/api/datasets/"+id+"/clusters?scale="+finestScale()+"&coverages=true", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "19", w.Header().Get("X-LOD-Level"))
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, fc.Features)

	w = do(t, router, http.MethodGet, "/api/datasets/"+id+"/summary?scale=591657527.591555&minClusterCount=1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		TotalPoints     int                               `json:"totalPoints"`
		MetadataSummary map[string]map[string]interface{} `json:"metadataSummary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 200, summary.TotalPoints)
	assert.Contains(t, summary.MetadataSummary["category"], "distribution")
	assert.Contains(t, summary.MetadataSummary["timeRange"], "earliest")

	w = do(t, router, http.MethodDelete, "/api/datasets/"+id+"/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":200}`, w.Body.String())
}

func TestErrorStatuses(t *testing.T) {
	router := newTestRouter(t)
	id := createDataset(t, router, 20)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"missing scale", http.MethodGet, "/api/datasets/" + id + "/clusters", "", http.StatusBadRequest},
		{"nan scale", http.MethodGet, "/api/datasets/" + id + "/clusters?scale=NaN", "", http.StatusBadRequest},
		{"negative scale", http.MethodGet, "/api/datasets/" + id + "/summary?scale=-5", "", http.StatusBadRequest},
		{"bad count", http.MethodGet, "/api/datasets/" + id + "/clusters?scale=5000&minClusterCount=x", "", http.StatusBadRequest},
		{"bad coverages", http.MethodGet, "/api/datasets/" + id + "/clusters?scale=5000&coverages=maybe", "", http.StatusBadRequest},
		{"scale miss", http.MethodGet, "/api/datasets/" + id + "/clusters?scale=10", "", http.StatusNotFound},
		{"unknown dataset", http.MethodPost, "/api/datasets/deadbeef/load", "", http.StatusNotFound},
		{"bad body", http.MethodPost, "/api/datasets", "{", http.StatusBadRequest},
		{"too few points", http.MethodPost, "/api/datasets", `{"numPoints": 0}`, http.StatusBadRequest},
		{"points overflow int32", http.MethodPost, "/api/datasets", `{"numPoints": 4294967297}`, http.StatusBadRequest},
		{"too many points", http.MethodPost, "/api/datasets", `{"numPoints": 5000001}`, http.StatusBadRequest},
		{"count overflow int32", http.MethodGet, "/api/datasets/" + id + "/clusters?scale=5000&minClusterCount=4294967297", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	w := do(t, router, http.MethodGet, "/api/datasets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []proto.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1, "rejected requests create nothing")
}

func TestCORSAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodOptions, "/api/datasets", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	createDataset(t, router, 5)
	w = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lodcluster_datasets_loaded 1")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, httpStatus(codes.InvalidArgument))
	assert.Equal(t, http.StatusNotFound, httpStatus(codes.NotFound))
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(codes.Unavailable))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(codes.Internal))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(codes.Unknown))
}

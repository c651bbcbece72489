package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlin-del/SiteSheets/batch"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/models"
)

// stubAggregator fabricates records without touching the network.
type stubAggregator struct{}

func (s *stubAggregator) Aggregate(ctx context.Context, q models.SiteQuery) (*models.SiteRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	record := models.NewSiteRecord(q)
	record.Postcode = "SW1A 1AA"
	return record, nil
}

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	logger := &log.Logger{Handler: discard.New(), Level: log.ErrorLevel}
	agg := &stubAggregator{}
	runner := batch.NewRunner(agg, 2, logger)
	cfg := &config.Config{Port: "0", FastKW: 22, RapidKW: 60, UltraKW: 150}
	return New(cfg, logger, agg, runner)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeSite(t *testing.T) {
	srv := newTestServer()

	body := strings.NewReader(`{"latitude":51.5,"longitude":-0.12,"fast_count":2}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var record models.SiteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "SW1A 1AA", record.Postcode)
	assert.Equal(t, 2, record.FastCount)
}

func TestAnalyzeSiteInvalidCoordinates(t *testing.T) {
	srv := newTestServer()

	body := strings.NewReader(`{"latitude":95,"longitude":0}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func uploadCSV(t *testing.T, srv *Server, csvBody string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "sites.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestBatchLifecycle(t *testing.T) {
	srv := newTestServer()

	w := uploadCSV(t, srv, "latitude,longitude\n51.50,-0.12\nbad,-0.12\n53.48,-2.24\n")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID     string `json:"id"`
		Total  int    `json:"total"`
		Failed int    `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 3, created.Total)
	assert.Equal(t, 1, created.Failed)

	// Fetch the stored job.
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+created.ID, nil)
	srv.Router().ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var job Job
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &job))
	require.Len(t, job.Items, 3)
	assert.False(t, job.Items[0].Failed())
	assert.True(t, job.Items[1].Failed())
	assert.False(t, job.Items[2].Failed())

	// Download the CSV rendering.
	w3 := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+created.ID+"/csv", nil)
	srv.Router().ServeHTTP(w3, req)
	require.Equal(t, http.StatusOK, w3.Code)
	assert.Contains(t, w3.Header().Get("Content-Disposition"), created.ID)
	assert.Contains(t, w3.Body.String(), "Latitude,Longitude")
}

func TestBatchMissingColumns(t *testing.T) {
	srv := newTestServer()
	w := uploadCSV(t, srv, "easting,northing\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBatchUnknownID(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/nope", nil)
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Package server exposes the aggregation pipeline over HTTP. This is the
// only contract the external UI and exporters may depend on: SiteRecord
// JSON, BatchItem sequences, and their CSV/GeoJSON renderings.
package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/kaitlin-del/SiteSheets/batch"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/storage"
)

// Server wires the aggregator and batch runner into a gin router.
type Server struct {
	cfg    *config.Config
	logger log.Interface
	agg    batch.SiteAggregator
	runner *batch.Runner
	store  *JobStore
	router *gin.Engine
}

// New creates a Server with all routes registered.
func New(cfg *config.Config, logger log.Interface, agg batch.SiteAggregator, runner *batch.Runner) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		agg:    agg,
		runner: runner,
		store:  NewJobStore(),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api/v1")
	api.POST("/sites/analyze", s.analyzeSite)
	api.GET("/sites/analyze/geojson", s.analyzeSiteGeoJSON)
	api.POST("/batches", s.createBatch)
	api.GET("/batches/:id", s.getBatch)
	api.GET("/batches/:id/csv", s.getBatchCSV)
}

// Run starts the HTTP listener.
func (s *Server) Run() error {
	s.logger.Infof("[server] listening on :%s", s.cfg.Port)
	return s.router.Run(":" + s.cfg.Port)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyzeSite runs the pipeline for one site.
func (s *Server) analyzeSite(c *gin.Context) {
	var query models.SiteQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	record, err := s.agg.Aggregate(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// analyzeSiteGeoJSON runs the pipeline and renders the result as a GeoJSON
// feature collection for the map layer.
func (s *Server) analyzeSiteGeoJSON(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	record, err := s.agg.Aggregate(c.Request.Context(), models.SiteQuery{Latitude: lat, Longitude: lon})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, storage.SiteFeatureCollection(record))
}

// createBatch accepts an uploaded CSV, runs the batch synchronously and
// stores the result under a fresh job ID.
func (s *Server) createBatch(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open upload: " + err.Error()})
		return
	}
	defer file.Close()

	defaults := models.SiteQuery{
		FastKW:            s.cfg.FastKW,
		RapidKW:           s.cfg.RapidKW,
		UltraKW:           s.cfg.UltraKW,
		CompetitorRadiusM: s.cfg.CompetitorRadiusM,
		AmenitiesRadiusM:  s.cfg.AmenitiesRadiusM,
	}
	queries, err := storage.ReadQueries(file, defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := s.runner.Run(c.Request.Context(), queries, func(done, total int) {
		s.logger.Infof("[server] batch progress %d/%d", done, total)
	})

	job := s.store.Put(items)
	c.JSON(http.StatusCreated, gin.H{
		"id":     job.ID,
		"total":  job.Total,
		"failed": job.Failed,
	})
}

func (s *Server) getBatch(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown batch id"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// getBatchCSV renders a stored batch through the CSV schema as a download.
func (s *Server) getBatchCSV(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown batch id"})
		return
	}

	var buf bytes.Buffer
	w, err := storage.NewCSVWriter(&buf)
	if err == nil {
		err = w.AppendAll(job.Items)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=site_results_%s.csv", job.ID))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TomTomAPIKey string
	PlacesAPIKey string

	PostcodesBaseURL string
	NominatimBaseURL string
	RoadsBaseURL     string
	PlacesBaseURL    string
	TrafficBaseURL   string
	ElevationBaseURL string

	UserAgent      string
	HTTPTimeoutSec int
	MaxRetries     int

	FastKW      float64
	RapidKW     float64
	UltraKW     float64
	PowerFactor float64

	CompetitorRadiusM int
	AmenitiesRadiusM  int

	// EVKeywords marks place names that are charging stations, so amenity
	// counts do not include competitors. Comma-separated in the env var.
	EVKeywords []string

	IncludeElevation  bool
	IncludeStreetView bool
	IncludeAmenities  bool

	MaxConcurrency int
	DetailRPS      float64

	RedisAddr     string
	CSVOutputPath string
	Port          string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		TomTomAPIKey: getEnv("TOMTOM_API_KEY", ""),
		PlacesAPIKey: getEnv("PLACES_API_KEY", ""),

		PostcodesBaseURL: getEnv("POSTCODES_BASE_URL", "https://api.postcodes.io"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		RoadsBaseURL:     getEnv("ROADS_BASE_URL", "https://roads.googleapis.com"),
		PlacesBaseURL:    getEnv("PLACES_BASE_URL", "https://maps.googleapis.com"),
		TrafficBaseURL:   getEnv("TRAFFIC_BASE_URL", "https://api.tomtom.com"),
		ElevationBaseURL: getEnv("ELEVATION_BASE_URL", "https://api.open-elevation.com"),

		UserAgent:      getEnv("USER_AGENT", "SiteSheets/1.0 (ev-site-evaluation)"),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 10),
		MaxRetries:     getEnvInt("MAX_RETRIES", 2),

		FastKW:      getEnvFloat("FAST_KW", 22),
		RapidKW:     getEnvFloat("RAPID_KW", 60),
		UltraKW:     getEnvFloat("ULTRA_KW", 150),
		PowerFactor: getEnvFloat("POWER_FACTOR", 0.95),

		CompetitorRadiusM: getEnvInt("COMPETITOR_RADIUS_M", 1500),
		AmenitiesRadiusM:  getEnvInt("AMENITIES_RADIUS_M", 1000),

		EVKeywords: getEnvList("EV_KEYWORDS", defaultEVKeywords),

		IncludeElevation:  getEnvBool("INCLUDE_ELEVATION", true),
		IncludeStreetView: getEnvBool("INCLUDE_STREET_VIEW", true),
		IncludeAmenities:  getEnvBool("INCLUDE_AMENITIES", true),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		DetailRPS:      getEnvFloat("DETAIL_RPS", 4),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/site_results.csv"),
		Port:          getEnv("PORT", "8080"),
	}
}

// defaultEVKeywords is the reference exclusion list; override via EV_KEYWORDS.
var defaultEVKeywords = []string{
	"charging", "charger", "chargers", "supercharger", "electric vehicle",
	"ev charge", "pod point", "instavolt", "gridserve", "bp pulse", "ionity",
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

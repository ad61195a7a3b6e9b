package server

import (
	"fmt"
	"net/http"
	"time"

	"deepseek2api/internal/cache"
	"deepseek2api/internal/core"
	"deepseek2api/internal/metrics"

	"github.com/gin-gonic/gin"
)

func (s *Server) getStatsData(c *gin.Context) {
	stats := s.metricsService.GetRequestStats()
	periodStats := metrics.GetPeriodStats(stats.RequestHistory, 24, 24*7, 24*30)
	currentQPS := s.metricsService.GetQPS()

	c.JSON(http.StatusOK, gin.H{
		"currentTime":   time.Now().Format(core.TimeFormatDateTime),
		"currentQPS":    fmt.Sprintf("%.3f", currentQPS),
		"totalRecords":  len(stats.RequestHistory),
		"totalRequests": stats.TotalRequests,
		"stats24h":      periodStats[24],
		"stats7d":       periodStats[24*7],
		"stats30d":      periodStats[24*30],
	})
}

// validateKey probes the backend with the submitted key. Exactly one
// outbound request per call; the key itself never appears in the response
// or the logs.
func (s *Server) validateKey(c *gin.Context) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": core.ReasonMissingCredential})
		return
	}

	result := s.validator.Validate(c.Request.Context(), body.APIKey)
	s.cache.SetProbeResult(cache.GenerateProbeCacheKey(body.APIKey), result, core.KeyProbeCacheTTL)

	if result.Valid {
		c.JSON(http.StatusOK, gin.H{"valid": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": false, "error": result.Reason})
}

// getAPIModels is the dashboard's view of the catalog. Unlike /v1/models it
// accepts ?fetch=true to force a live refresh, and reports where the
// snapshot came from.
func (s *Server) getAPIModels(c *gin.Context) {
	forceRefresh := c.Query("fetch") == "true"

	snapshot := s.catalogService.GetModels(c.Request.Context(), s.dashboardCredential(c), forceRefresh)

	if snapshot.Source == core.SourceCache {
		s.metricsService.RecordCacheHit()
	} else {
		s.metricsService.RecordCacheMiss()
	}

	c.JSON(http.StatusOK, gin.H{
		"object": core.ModelListObjectType,
		"data":   snapshot.Models,
		"source": snapshot.Source,
	})
}

// getStatus reports proxy health for the dashboard: whether a server-side
// key is configured, whether it currently works against the backend, and
// the catalog cache state. Probe results are cached briefly so a dashboard
// poll loop does not hammer the backend.
func (s *Server) getStatus(c *gin.Context) {
	apiConnection := "not_configured"
	keyConfigured := s.config.DeepseekAPIKey != ""

	if keyConfigured {
		probeKey := cache.GenerateProbeCacheKey(s.config.DeepseekAPIKey)
		result, ok := s.cache.GetProbeResult(probeKey)
		if !ok {
			result = s.validator.Validate(c.Request.Context(), s.config.DeepseekAPIKey)
			s.cache.SetProbeResult(probeKey, result, core.KeyProbeCacheTTL)
			s.metricsService.RecordCacheMiss()
		} else {
			s.metricsService.RecordCacheHit()
		}

		if result.Valid {
			apiConnection = "connected"
		} else {
			apiConnection = result.Reason
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"service":            "deepseek2api",
		"timestamp":          time.Now().Format(core.TimeFormatDateTime),
		"api_key_configured": keyConfigured,
		"api_connection":     apiConnection,
		"cache_valid":        s.catalogService.CacheValid(),
		"cache_size":         s.catalogService.CacheSize(),
		"proxy_url":          s.config.DeepseekAPIBase,
		"models_endpoint":    "/v1/models",
		"chat_endpoint":      "/v1/chat/completions",
	})
}

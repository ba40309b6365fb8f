package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrocampo/ganadero-api/internal/service"
)

func TestMetricsHandlerSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordCacheOperation(true, 2*time.Millisecond)
	metrics.RecordCacheOperation(false, 3*time.Millisecond)
	handler := NewMetricsHandler(metrics)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics/snapshot", nil)

	handler.Snapshot(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.EqualValues(t, 1, envelope.Data["cache_hits"])
	assert.EqualValues(t, 1, envelope.Data["cache_misses"])
	assert.EqualValues(t, 0.5, envelope.Data["cache_hit_ratio"])
}

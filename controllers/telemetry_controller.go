package controllers

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type TelemetryController struct {
	Svc *services.TelemetryService
	RT  *services.RealtimeHub
}

func NewTelemetryController(svc *services.TelemetryService, rt *services.RealtimeHub) *TelemetryController {
	return &TelemetryController{Svc: svc, RT: rt}
}

// Ingest accepts one reading. Validation failures come back as 400 with the
// reason; device mismatches as 404.
func (t *TelemetryController) Ingest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.TelemetryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := t.Svc.Ingest(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !out.Accepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": out.Reason})
		return
	}

	if t.RT != nil {
		t.RT.BroadcastEvent(userID, "telemetry.ingested", req)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "telemetry accepted", "sample_id": out.SampleID})
}

type batchInput struct {
	Items []services.TelemetryItemRequest `json:"items" binding:"required"`
}

// IngestBatch commits per item and always reports per-item outcomes.
func (t *TelemetryController) IngestBatch(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input batchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := t.Svc.IngestBatch(c.Request.Context(), userID, input.Items)
	if err != nil {
		if errors.Is(err, services.ErrBatchSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if t.RT != nil && report.Accepted > 0 {
		t.RT.BroadcastEvent(userID, "telemetry.batch", gin.H{"batch_id": report.BatchID, "accepted": report.Accepted})
	}
	c.JSON(http.StatusOK, report)
}

func (t *TelemetryController) AddSleepRecord(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.SleepRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, res, err := t.Svc.AddSleepRecord(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !res.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (t *TelemetryController) AddTrainingSession(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.TrainingSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, res, err := t.Svc.AddTrainingSession(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !res.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason})
		return
	}
	c.JSON(http.StatusCreated, sess)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrBatchSize      = errors.New("batch must contain between 1 and 1000 items")
)

const maxBatchSize = 1000

// Accepted resting-to-max heart rate range for a wearable reading, bpm.
const (
	heartRateMin = 40.0
	heartRateMax = 220.0
)

const (
	sleepMinutesMin = 0.0
	sleepMinutesMax = 1440.0
	sleepQualityMax = 100.0
)

// MetaTotalSleepMinutes is the metadata key sleep-derived readings must carry.
const MetaTotalSleepMinutes = "TotalSleepMinutes"

// ValidationResult is a value outcome: validation never panics, callers
// decide what to do with rejected items.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason,omitempty"`
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// NormalizeTelemetry validates and canonicalizes one raw reading.
func NormalizeTelemetry(t models.TelemetryType, value float64) ValidationResult {
	if !models.KnownTelemetryType(t) {
		return invalid(fmt.Sprintf("unknown telemetry type %q", t))
	}
	// Blood pressure readings may legitimately encode signed deltas.
	if value < 0 && t != models.TelemetryBloodPressure {
		return invalid(fmt.Sprintf("negative value %.2f not allowed for %s", value, t))
	}

	switch t {
	case models.TelemetryHeartRate:
		if value < heartRateMin || value > heartRateMax {
			return invalid(fmt.Sprintf("heart rate %.0f bpm outside valid range [%.0f, %.0f]", value, heartRateMin, heartRateMax))
		}
		return ValidationResult{Valid: true, Value: math.Round(value)}
	case models.TelemetrySteps:
		return ValidationResult{Valid: true, Value: math.Round(value)}
	case models.TelemetryDistance, models.TelemetryCalories, models.TelemetryWeight,
		models.TelemetryBloodPressure, models.TelemetryBloodSugar,
		models.TelemetryTemperature, models.TelemetryOther:
		return ValidationResult{Valid: true, Value: round2(value)}
	}
	return invalid(fmt.Sprintf("unknown telemetry type %q", t))
}

// ValidateSleepMetadata checks the metadata map of a sleep-derived reading.
// TotalSleepMinutes is mandatory and must be a plausible day fraction; the
// remaining sleep fields are clamped elsewhere instead of rejected.
func ValidateSleepMetadata(meta map[string]float64) ValidationResult {
	if meta == nil {
		return invalid("sleep metadata is required")
	}
	total, ok := meta[MetaTotalSleepMinutes]
	if !ok {
		return invalid("sleep metadata must contain TotalSleepMinutes")
	}
	if total < sleepMinutesMin || total > sleepMinutesMax {
		return invalid(fmt.Sprintf("TotalSleepMinutes %.0f outside valid range [0, 1440]", total))
	}
	return ValidationResult{Valid: true, Value: total}
}

// ClampSleepMinutes forces a sleep-minute component into [0, 1440].
func ClampSleepMinutes(v float64) float64 {
	if v < sleepMinutesMin {
		return sleepMinutesMin
	}
	if v > sleepMinutesMax {
		return sleepMinutesMax
	}
	return v
}

// ClampSleepQuality forces a quality score into [0, 100], rounded to 2 decimals.
func ClampSleepQuality(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > sleepQualityMax {
		return sleepQualityMax
	}
	return round2(v)
}

// ---------- ingestion ----------

type TelemetryService struct {
	db *gorm.DB
}

func NewTelemetryService(db *gorm.DB) *TelemetryService {
	return &TelemetryService{db: db}
}

type TelemetryItemRequest struct {
	DeviceID      uint                 `json:"device_id"`
	Timestamp     time.Time            `json:"timestamp"`
	TelemetryType models.TelemetryType `json:"telemetry_type"`
	Value         float64              `json:"value"`
	Metadata      map[string]float64   `json:"metadata,omitempty"`
}

type ItemOutcome struct {
	Index    int    `json:"index"`
	Accepted bool   `json:"accepted"`
	SampleID uint   `json:"sample_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type BatchReport struct {
	BatchID  string        `json:"batch_id"`
	Accepted int           `json:"accepted"`
	Rejected int           `json:"rejected"`
	Items    []ItemOutcome `json:"items"`
}

// deviceForUser loads a device and checks ownership.
func (s *TelemetryService) deviceForUser(ctx context.Context, userID, deviceID uint) (*models.Device, error) {
	var dev models.Device
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND active = ?", deviceID, userID, true).
		First(&dev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// DeviceIDsForUser resolves all active device ids owned by the user. The
// monitors and the statistics aggregator share this lookup.
func DeviceIDsForUser(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&models.Device{}).
		Where("user_id = ? AND active = ?", userID, true).
		Pluck("id", &ids).Error
	return ids, err
}

// Ingest validates and stores a single reading. A validation failure is
// returned in the outcome, not as an error.
func (s *TelemetryService) Ingest(ctx context.Context, userID uint, req TelemetryItemRequest) (ItemOutcome, error) {
	if _, err := s.deviceForUser(ctx, userID, req.DeviceID); err != nil {
		return ItemOutcome{}, err
	}

	res := NormalizeTelemetry(req.TelemetryType, req.Value)
	if !res.Valid {
		return ItemOutcome{Accepted: false, Reason: res.Reason}, nil
	}
	if len(req.Metadata) > 0 {
		if sv := ValidateSleepMetadata(req.Metadata); !sv.Valid {
			return ItemOutcome{Accepted: false, Reason: sv.Reason}, nil
		}
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	sample := models.TelemetrySample{
		DeviceID:   req.DeviceID,
		RecordedAt: ts,
		Type:       req.TelemetryType,
		Value:      res.Value,
		Metadata:   req.Metadata,
	}
	if err := s.db.WithContext(ctx).Create(&sample).Error; err != nil {
		return ItemOutcome{}, err
	}
	return ItemOutcome{Accepted: true, SampleID: sample.ID}, nil
}

// IngestBatch commits items independently and reports a per-item outcome.
// One bad reading never blocks the rest of a bracelet sync.
func (s *TelemetryService) IngestBatch(ctx context.Context, userID uint, items []TelemetryItemRequest) (*BatchReport, error) {
	if len(items) == 0 || len(items) > maxBatchSize {
		return nil, ErrBatchSize
	}

	report := &BatchReport{
		BatchID: uuid.NewString(),
		Items:   make([]ItemOutcome, 0, len(items)),
	}
	for i, it := range items {
		out, err := s.Ingest(ctx, userID, it)
		if err != nil {
			if errors.Is(err, ErrDeviceNotFound) {
				out = ItemOutcome{Accepted: false, Reason: "device not found or not owned by user"}
			} else {
				return nil, err
			}
		}
		out.Index = i
		if out.Accepted {
			report.Accepted++
		} else {
			report.Rejected++
		}
		report.Items = append(report.Items, out)
	}
	return report, nil
}

// ---------- sleep & training ingestion ----------

type SleepRecordRequest struct {
	DeviceID          uint      `json:"device_id"`
	Date              time.Time `json:"date"`
	TotalSleepMinutes float64   `json:"total_sleep_minutes"`
	DeepSleepMinutes  float64   `json:"deep_sleep_minutes"`
	LightSleepMinutes float64   `json:"light_sleep_minutes"`
	AwakeMinutes      float64   `json:"awake_minutes"`
	Quality           *float64  `json:"quality,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
}

// AddSleepRecord validates the mandatory total through the sleep metadata
// path and clamps the component fields.
func (s *TelemetryService) AddSleepRecord(ctx context.Context, userID uint, req SleepRecordRequest) (*models.SleepRecord, ValidationResult, error) {
	if _, err := s.deviceForUser(ctx, userID, req.DeviceID); err != nil {
		return nil, ValidationResult{}, err
	}

	res := ValidateSleepMetadata(map[string]float64{MetaTotalSleepMinutes: req.TotalSleepMinutes})
	if !res.Valid {
		return nil, res, nil
	}

	rec := models.SleepRecord{
		DeviceID:          req.DeviceID,
		Date:              dayStart(req.Date),
		TotalSleepMinutes: res.Value,
		DeepSleepMinutes:  ClampSleepMinutes(req.DeepSleepMinutes),
		LightSleepMinutes: ClampSleepMinutes(req.LightSleepMinutes),
		AwakeMinutes:      ClampSleepMinutes(req.AwakeMinutes),
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
	}
	if req.Quality != nil {
		q := ClampSleepQuality(*req.Quality)
		rec.Quality = &q
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, ValidationResult{}, err
	}
	return &rec, res, nil
}

type TrainingSessionRequest struct {
	DeviceID          uint                     `json:"device_id"`
	StartTime         time.Time                `json:"start_time"`
	EndTime           time.Time                `json:"end_time"`
	Type              string                   `json:"type"`
	Intensity         models.TrainingIntensity `json:"intensity"`
	EstimatedCalories float64                  `json:"estimated_calories"`
}

func (s *TelemetryService) AddTrainingSession(ctx context.Context, userID uint, req TrainingSessionRequest) (*models.TrainingSession, ValidationResult, error) {
	if _, err := s.deviceForUser(ctx, userID, req.DeviceID); err != nil {
		return nil, ValidationResult{}, err
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, invalid("training session end before start"), nil
	}
	if req.Intensity < models.IntensityLow || req.Intensity > models.IntensityMax {
		return nil, invalid(fmt.Sprintf("intensity %d outside range [1, 4]", req.Intensity)), nil
	}
	if req.EstimatedCalories < 0 {
		return nil, invalid("estimated calories must not be negative"), nil
	}

	sess := models.TrainingSession{
		DeviceID:          req.DeviceID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Type:              req.Type,
		Intensity:         req.Intensity,
		DurationMinutes:   req.EndTime.Sub(req.StartTime).Minutes(),
		EstimatedCalories: req.EstimatedCalories,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, ValidationResult{}, err
	}
	return &sess, ValidationResult{Valid: true}, nil
}

package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/dataset"
	"github.com/wonny/horizon/backend/internal/engine"
	"github.com/wonny/horizon/backend/internal/engineconfig"
	"github.com/wonny/horizon/backend/internal/store"
	"github.com/wonny/horizon/backend/pkg/logger"
	"github.com/wonny/horizon/backend/pkg/redis"
)

// ForecastHandler handles forecast API endpoints
// ⭐ SSOT: Forecast API 핸들러는 이 구조체에서만
type ForecastHandler struct {
	engine       *engine.Engine
	strategy     *engineconfig.Config
	configHash   string
	obsRepo      *store.ObservationRepository
	runRepo      *store.RunRepository
	forecastRepo *store.ForecastRepository
	cache        *redis.Cache
	cacheTTL     time.Duration
	logger       *logger.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(
	eng *engine.Engine,
	strategy *engineconfig.Config,
	configHash string,
	obsRepo *store.ObservationRepository,
	runRepo *store.RunRepository,
	forecastRepo *store.ForecastRepository,
	cache *redis.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *ForecastHandler {
	return &ForecastHandler{
		engine:       eng,
		strategy:     strategy,
		configHash:   configHash,
		obsRepo:      obsRepo,
		runRepo:      runRepo,
		forecastRepo: forecastRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       log,
	}
}

// RowInput is one observation row of a predict request. A missing target
// marks the row invalid; the engine handles it, not the API.
type RowInput struct {
	Order  float64           `json:"order"`
	Target *float64          `json:"target,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

func (in RowInput) toRow() contracts.Row {
	row := contracts.Row{Order: in.Order, Labels: in.Labels}
	if in.Target != nil {
		row.Target = *in.Target
		row.Valid = true
	}
	return row
}

// PredictRequest is the POST /forecast body.
type PredictRequest struct {
	Rows []RowInput `json:"rows"`
}

// PredictResponse carries one forecast window per request row, in request
// order.
type PredictResponse struct {
	Success   bool                 `json:"success"`
	Horizon   int                  `json:"horizon"`
	Forecasts []contracts.Forecast `json:"forecasts"`
	Cached    bool                 `json:"cached,omitempty"`
}

// Predict generates forecast windows for the posted rows
// POST /api/v1/forecast
func (h *ForecastHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req PredictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Rows) == 0 {
		respondError(w, http.StatusBadRequest, "rows is required")
		return
	}

	// Cache key over the raw body: identical requests share a window set
	sum := sha256.Sum256(body)
	cacheKey := "forecast:" + hex.EncodeToString(sum[:])

	var cached PredictResponse
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		cached.Cached = true
		respondJSON(w, http.StatusOK, cached)
		return
	}

	rows := make([]contracts.Row, len(req.Rows))
	for i, in := range req.Rows {
		rows[i] = in.toRow()
	}

	forecasts, err := h.engine.Predict(ctx, rows)
	if err != nil {
		h.logger.WithError(err).Error("Forecast failed")
		respondError(w, http.StatusConflict, "engine has no committed fit")
		return
	}

	resp := PredictResponse{
		Success:   true,
		Horizon:   h.engine.Horizon(),
		Forecasts: forecasts,
	}

	if err := h.cache.Set(ctx, cacheKey, resp, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache forecast response")
	}

	respondJSON(w, http.StatusOK, resp)
}

// Fit loads the strategy dataset, splits it, and runs a full fit pass
// POST /api/v1/fit
func (h *ForecastHandler) Fit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	series, err := h.obsRepo.GetSeries(ctx, h.strategy.Data.Dataset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load observations")
		respondError(w, http.StatusInternalServerError, "failed to load observations")
		return
	}
	if len(series) == 0 {
		respondError(w, http.StatusNotFound, "dataset has no observations")
		return
	}

	cfg := h.strategy.EngineConfig()
	splitCfg := dataset.SplitConfig{
		TrainPct: h.strategy.Data.TrainPct,
		DevPct:   h.strategy.Data.DevPct,
		TestPct:  h.strategy.Data.TestPct,
	}

	train, dev, _, err := dataset.Split(series, cfg.GroupBy, splitCfg)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.Fit(ctx, train, dev); err != nil {
		h.logger.WithError(err).Error("Fit failed")
		respondError(w, http.StatusInternalServerError, "fit failed")
		return
	}

	status := h.engine.Status()
	run := &contracts.FitRun{
		StrategyID: h.strategy.Meta.StrategyID,
		ConfigHash: h.configHash,
		Family:     status.Family,
		Trials:     status.Trials,
		GroupCount: status.Groups,
		SkipCount:  status.Skipped,
		Duration:   time.Since(started),
	}

	runID, err := h.runRepo.SaveRun(ctx, run)
	if err != nil {
		h.logger.WithError(err).Error("Failed to save fit run")
		respondError(w, http.StatusInternalServerError, "fit succeeded but run was not recorded")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"run_id":  runID,
		"status":  status,
	})
}

// Status reports the committed engine state
// GET /api/v1/status
func (h *ForecastHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Status())
}

// GetRuns returns recent fit runs
// GET /api/v1/runs?limit=10
func (h *ForecastHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := h.runRepo.GetRecentRuns(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get fit runs")
		respondError(w, http.StatusInternalServerError, "failed to retrieve runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"runs":    runs,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

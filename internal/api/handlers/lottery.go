package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fortuna/backend/internal/contracts"
	"github.com/wonny/fortuna/backend/internal/reconcile"
	"github.com/wonny/fortuna/backend/pkg/logger"
)

// defaultStatsWindow is the trailing day window for /api/stats when the
// query does not specify one.
const defaultStatsWindow = 30

// LotteryHandler serves the read-only status endpoints: draws, ledger rows
// and accuracy aggregates. Nothing here mutates state.
// ⭐ SSOT: 조회 API 핸들러는 이 구조체에서만
type LotteryHandler struct {
	history    contracts.HistoryStore
	ledger     contracts.PredictionLedger
	reconciler *reconcile.Engine
	logger     *logger.Logger
}

// NewLotteryHandler creates the status handler.
func NewLotteryHandler(
	history contracts.HistoryStore,
	ledger contracts.PredictionLedger,
	reconciler *reconcile.Engine,
	log *logger.Logger,
) *LotteryHandler {
	return &LotteryHandler{
		history:    history,
		ledger:     ledger,
		reconciler: reconciler,
		logger:     log,
	}
}

// GetDraws returns recorded draws, most recent first
// GET /api/draws?limit=N
func (h *LotteryHandler) GetDraws(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draws, err := h.history.All(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get draws")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve draws")
		return
	}

	// All() is ascending; present newest first.
	for i, j := 0, len(draws)-1; i < j; i, j = i+1, j-1 {
		draws[i], draws[j] = draws[j], draws[i]
	}

	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(draws) {
		draws = draws[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(draws),
		"draws": draws,
	})
}

// GetLatestDraw returns the most recent recorded draw
// GET /api/draws/latest
func (h *LotteryHandler) GetLatestDraw(w http.ResponseWriter, r *http.Request) {
	draw, err := h.history.Latest(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest draw")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest draw")
		return
	}
	if draw == nil {
		respondError(w, http.StatusNotFound, "No draws recorded yet")
		return
	}

	respondJSON(w, http.StatusOK, draw)
}

// GetPredictions returns live ledger rows, optionally for one date
// GET /api/predictions?date=YYYY-MM-DD
func (h *LotteryHandler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	preds, err := h.ledger.All(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get predictions")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve predictions")
		return
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		filtered := preds[:0]
		for _, p := range preds {
			if p.DrawDate.Equal(contracts.Midnight(date)) {
				filtered = append(filtered, p)
			}
		}
		preds = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(preds),
		"predictions": preds,
	})
}

// GetPrediction returns one live ledger row
// GET /api/predictions/{date}/{strategy}
func (h *LotteryHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	strategy := contracts.StrategyID(vars["strategy"])
	if !strategy.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown strategy")
		return
	}

	pred, err := h.ledger.Get(r.Context(), date, strategy)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Prediction not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get prediction")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve prediction")
		return
	}

	respondJSON(w, http.StatusOK, pred)
}

// GetStats returns the per-strategy accuracy report
// GET /api/stats?window=N (trailing days, 0 = all time)
func (h *LotteryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", defaultStatsWindow)

	report, err := h.reconciler.Accuracy(r.Context(), time.Now(), window)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute accuracy")
		respondError(w, http.StatusInternalServerError, "Failed to compute accuracy")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"window_days":        window,
		"chance_expectation": contracts.ChanceExpectation(),
		"strategies":         report,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
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

/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"ton-faucet-go/internal/faucet"
	"ton-faucet-go/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	faucetRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faucet_requests_total",
		Help: "Total faucet requests processed, labeled by terminal outcome",
	}, []string{"outcome"})

	faucetRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faucet_request_duration_seconds",
		Help:    "Latency distribution of faucet requests",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})
)

// Pipeline is the slice of the faucet core the front-end dispatches to.
type Pipeline interface {
	RequestTokens(ctx context.Context, userId int64, username, rawAddress string) faucet.Result
	Statistics(ctx context.Context, userId int64) (models.StatsReport, error)
}

// Handler is a thin dispatcher: it decodes commands, invokes the pipeline and
// renders the tagged result. All policy lives in the faucet package.
type Handler struct {
	pipeline Pipeline
}

func NewHandler(pipeline Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/faucet/requests", h.RequestTokensHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/faucet/stats", h.StatisticsHandler).Methods(http.MethodGet)
	return r
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenRequest struct {
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
	Address  string `json:"address"`
}

type tokenResponse struct {
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
	Amount    int64  `json:"amount,omitempty"`
	Address   string `json:"address,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	MaxPerDay int    `json:"max_per_day,omitempty"`
}

func (h *Handler) RequestTokensHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(faucetRequestDuration.WithLabelValues("/api/v1/faucet/requests"))
	defer timer.ObserveDuration()

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.UserId == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing user_id")
		return
	}
	if req.Address == "" {
		respondWithError(w, http.StatusBadRequest, msgMissingAddress)
		return
	}

	result := h.pipeline.RequestTokens(r.Context(), req.UserId, req.Username, req.Address)
	faucetRequestsTotal.WithLabelValues(string(result.Outcome)).Inc()

	respondWithJSON(w, statusFor(result.Outcome), tokenResponse{
		Outcome:   string(result.Outcome),
		Message:   messageFor(result),
		Amount:    result.Amount,
		Address:   result.TonAddress,
		TxHash:    result.TxHash,
		Remaining: result.Remaining,
		MaxPerDay: result.MaxPerDay,
	})
}

type statsResponse struct {
	TotalTokensDistributed int64  `json:"total_tokens_distributed"`
	TotalSuccessful        int64  `json:"total_successful"`
	UniqueUsers            int64  `json:"unique_users"`
	UniqueAddresses        int64  `json:"unique_addresses"`
	RequestsToday          int    `json:"requests_today"`
	Remaining              int    `json:"remaining"`
	MaxPerDay              int    `json:"max_per_day"`
	JettonSymbol           string `json:"jetton_symbol"`
	JettonContract         string `json:"jetton_contract"`
}

func (h *Handler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userId == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid user_id")
		return
	}

	report, err := h.pipeline.Statistics(r.Context(), userId)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Statistics are temporarily unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, statsResponse{
		TotalTokensDistributed: report.Global.TotalTokens,
		TotalSuccessful:        report.Global.TotalSuccessful,
		UniqueUsers:            report.Global.UniqueUsers,
		UniqueAddresses:        report.Global.UniqueAddresses,
		RequestsToday:          report.RequestsToday,
		Remaining:              report.Remaining,
		MaxPerDay:              report.MaxPerDay,
		JettonSymbol:           report.Jetton.Symbol,
		JettonContract:         report.Jetton.MasterAddress,
	})
}

func statusFor(outcome faucet.Outcome) int {
	switch outcome {
	case faucet.OutcomeSuccess:
		return http.StatusOK
	case faucet.OutcomeInvalidAddress:
		return http.StatusBadRequest
	case faucet.OutcomeLimitReached, faucet.OutcomeAlreadyFunded:
		return http.StatusForbidden
	case faucet.OutcomeBusy:
		return http.StatusTooManyRequests
	case faucet.OutcomeServiceUnavailable, faucet.OutcomeTransferFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ton-faucet-go/internal/faucet"
	"ton-faucet-go/internal/models"
)

type fakePipeline struct {
	result   faucet.Result
	report   models.StatsReport
	statsErr error

	lastUserId  int64
	lastAddress string
}

func (f *fakePipeline) RequestTokens(_ context.Context, userId int64, _, rawAddress string) faucet.Result {
	f.lastUserId = userId
	f.lastAddress = rawAddress
	return f.result
}

func (f *fakePipeline) Statistics(_ context.Context, _ int64) (models.StatsReport, error) {
	return f.report, f.statsErr
}

func doRequest(t *testing.T, pipeline *fakePipeline, method, path, body string) *httptest.ResponseRecorder {
	router := NewRouter(NewHandler(pipeline))
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestTokensHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		outcome    faucet.Outcome
		wantStatus int
	}{
		{faucet.OutcomeSuccess, http.StatusOK},
		{faucet.OutcomeInvalidAddress, http.StatusBadRequest},
		{faucet.OutcomeLimitReached, http.StatusForbidden},
		{faucet.OutcomeAlreadyFunded, http.StatusForbidden},
		{faucet.OutcomeBusy, http.StatusTooManyRequests},
		{faucet.OutcomeServiceUnavailable, http.StatusBadGateway},
		{faucet.OutcomeTransferFailed, http.StatusBadGateway},
		{faucet.OutcomeStorageError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		pipeline := &fakePipeline{result: faucet.Result{Outcome: tt.outcome}}
		rec := doRequest(t, pipeline, http.MethodPost, "/api/v1/faucet/requests",
			`{"user_id": 42, "username": "alice", "address": "EQabc"}`)

		if rec.Code != tt.wantStatus {
			t.Errorf("Outcome %s: expected status %d, got %d", tt.outcome, tt.wantStatus, rec.Code)
		}

		var resp tokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Outcome %s: invalid JSON response: %v", tt.outcome, err)
		}
		if resp.Outcome != string(tt.outcome) {
			t.Errorf("Expected outcome %s in body, got %s", tt.outcome, resp.Outcome)
		}
		if resp.Message == "" {
			t.Errorf("Outcome %s: expected a user-facing message", tt.outcome)
		}
	}
}

func TestRequestTokensHandler_SuccessBody(t *testing.T) {
	pipeline := &fakePipeline{result: faucet.Result{
		Outcome:    faucet.OutcomeSuccess,
		Amount:     10000,
		TonAddress: "EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2",
		TxHash:     "abc123",
		Remaining:  2,
		MaxPerDay:  3,
	}}
	rec := doRequest(t, pipeline, http.MethodPost, "/api/v1/faucet/requests",
		`{"user_id": 42, "username": "alice", "address": "EQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if pipeline.lastUserId != 42 {
		t.Errorf("Expected user id forwarded, got %d", pipeline.lastUserId)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.TxHash != "abc123" || resp.Amount != 10000 || resp.Remaining != 2 {
		t.Errorf("Unexpected response body: %+v", resp)
	}
	if !strings.Contains(resp.Message, "abc123") {
		t.Errorf("Expected tx hash in message, got %q", resp.Message)
	}
}

func TestRequestTokensHandler_BadInput(t *testing.T) {
	pipeline := &fakePipeline{result: faucet.Result{Outcome: faucet.OutcomeSuccess}}

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing user_id", `{"address": "EQabc"}`},
		{"missing address", `{"user_id": 42}`},
	}
	for _, tc := range cases {
		rec := doRequest(t, pipeline, http.MethodPost, "/api/v1/faucet/requests", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestStatisticsHandler(t *testing.T) {
	pipeline := &fakePipeline{report: models.StatsReport{
		Global: models.GlobalStats{
			TotalSuccessful: 7,
			TotalTokens:     70000,
			UniqueUsers:     3,
			UniqueAddresses: 5,
		},
		RequestsToday: 1,
		Remaining:     2,
		MaxPerDay:     3,
		Jetton:        models.Jetton{Symbol: "CHAMBY", MasterAddress: "EQmaster"},
	}}

	rec := doRequest(t, pipeline, http.MethodGet, "/api/v1/faucet/stats?user_id=42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.TotalTokensDistributed != 70000 || resp.UniqueUsers != 3 || resp.Remaining != 2 {
		t.Errorf("Unexpected stats response: %+v", resp)
	}
	if resp.JettonSymbol != "CHAMBY" {
		t.Errorf("Expected jetton symbol, got %q", resp.JettonSymbol)
	}
}

func TestStatisticsHandler_MissingUser(t *testing.T) {
	rec := doRequest(t, &fakePipeline{}, http.MethodGet, "/api/v1/faucet/stats", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without user_id, got %d", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := doRequest(t, &fakePipeline{}, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from health check, got %d", rec.Code)
	}
}

package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"ton-faucet-go/internal/httpclient"
	"ton-faucet-go/internal/models"

	"go.uber.org/zap"
)

// Client submits jetton transfers through the external signing service, which
// holds the faucet wallet's keys. Success is explicit in the response body: a
// 200 can still carry a logical failure.
type Client struct {
	baseURL       string
	apiKey        string
	senderAddress string
	explorerURL   string
	httpClient    http.Client
}

func NewClient(cfg models.SignerConfig, jetton models.Jetton) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("signing service base URL cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("signing service request timeout must be positive, got %v", cfg.RequestTimeout)
	}

	httpClient, err := httpclient.NewHTTPClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		senderAddress: cfg.SenderAddress,
		explorerURL:   jetton.ExplorerURL,
		httpClient:    httpClient,
	}, nil
}

type sendTokensRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

type sendTokensResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"tx_hash"`
	Error   string `json:"error"`
}

type jettonBalanceResponse struct {
	Success bool   `json:"success"`
	Balance int64  `json:"balance"`
	Error   string `json:"error"`
}

// SendTokens submits one transfer and returns the transaction reference.
func (c *Client) SendTokens(ctx context.Context, recipientAddress string, amount int64) (string, error) {
	zap.L().Info("Submitting transfer to signing service",
		zap.String("recipient", recipientAddress),
		zap.Int64("amount", amount))

	body, err := json.Marshal(sendTokensRequest{Recipient: recipientAddress, Amount: amount})
	if err != nil {
		return "", fmt.Errorf("unable to encode transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/send_tokens", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("unable to build transfer request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signing service returned status %d", resp.StatusCode)
	}

	var payload sendTokensResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("unable to decode signing service response: %w", err)
	}

	if !payload.Success {
		if payload.Error == "" {
			payload.Error = "unknown error"
		}
		return "", fmt.Errorf("signing service rejected transfer: %s", payload.Error)
	}

	txHash := payload.TxHash
	// Some wallet backends return a raw message descriptor instead of a
	// transaction hash. Fall back to the sender's explorer page so the user
	// still gets a working link.
	if strings.Contains(txHash, "@type") {
		txHash = c.explorerURL + "/" + c.senderAddress
	}

	zap.L().Info("Transfer submitted", zap.String("tx_hash", txHash))
	return txHash, nil
}

// JettonBalance reports the faucet wallet's own jetton balance.
func (c *Client) JettonBalance(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/jetton_balance", nil)
	if err != nil {
		return 0, fmt.Errorf("unable to build balance request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("signing service returned status %d", resp.StatusCode)
	}

	var payload jettonBalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("unable to decode balance response: %w", err)
	}
	if !payload.Success {
		if payload.Error == "" {
			payload.Error = "unknown error"
		}
		return 0, fmt.Errorf("signing service balance lookup failed: %s", payload.Error)
	}

	return payload.Balance, nil
}

// classifyTransportError keeps timeouts and connection failures apart in the
// recorded failure reason; both still map to the same outcome for the caller.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("signing service timeout: %w", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("cannot connect to signing service: %w", err)
	}
	return fmt.Errorf("signing service request failed: %w", err)
}

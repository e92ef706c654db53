package toncenter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"ton-faucet-go/internal/httpclient"
	"ton-faucet-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client queries jetton balances through the toncenter API v3.
type Client struct {
	baseURL    string
	apiKey     string
	decimals   int
	httpClient http.Client
}

func NewClient(cfg models.ToncenterConfig, jetton models.Jetton) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("toncenter base URL cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("toncenter request timeout must be positive, got %v", cfg.RequestTimeout)
	}

	httpClient, err := httpclient.NewHTTPClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		decimals:   jetton.Decimals,
		httpClient: httpClient,
	}, nil
}

type jettonWallet struct {
	Balance string `json:"balance"`
}

type jettonWalletsResponse struct {
	JettonWallets []jettonWallet `json:"jetton_wallets"`
}

// GetJettonBalance returns the whole-token jetton balance of ownerAddress.
// An owner with no jetton wallet has a balance of zero, not an error.
func (c *Client) GetJettonBalance(ctx context.Context, ownerAddress, jettonMaster string) (int64, error) {
	params := url.Values{}
	params.Set("owner_address", ownerAddress)
	params.Set("jetton_address", jettonMaster)
	params.Set("limit", "1")
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	endpoint := c.baseURL + "/jetton/wallets?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("unable to build toncenter request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("toncenter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("toncenter returned status %d", resp.StatusCode)
	}

	var payload jettonWalletsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("unable to decode toncenter response: %w", err)
	}

	if len(payload.JettonWallets) == 0 {
		zap.L().Info("Address has no jetton wallet, balance is zero",
			zap.String("owner_address", ownerAddress))
		return 0, nil
	}

	nano, err := decimal.NewFromString(payload.JettonWallets[0].Balance)
	if err != nil {
		return 0, fmt.Errorf("invalid balance %q in toncenter response: %w", payload.JettonWallets[0].Balance, err)
	}

	// Floor to whole tokens: 10^decimals smallest units per token.
	balance := nano.Shift(int32(-c.decimals)).IntPart()

	zap.L().Info("Fetched jetton balance",
		zap.String("owner_address", ownerAddress),
		zap.Int64("balance", balance))
	return balance, nil
}

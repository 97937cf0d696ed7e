/*
This file fetches USD token prices from the external price API. Keys are
normalized to lower-cased addresses here, once, so every downstream lookup is a
plain map access.
*/

package datafetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cubdefi/farmboard/internal/logger"
	"github.com/cubdefi/farmboard/internal/types"
)

var priceLogger = logger.GetForComponent("price_fetcher")

// PriceClient fetches the token price table.
type PriceClient struct {
	baseURL string
	client  *http.Client
}

// NewPriceClient creates a client for the given endpoint.
func NewPriceClient(baseURL string) (*PriceClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("price API base URL cannot be empty")
	}
	return &PriceClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: TIMEOUT_SECONDS * time.Second},
	}, nil
}

type pricePayload struct {
	Prices map[string]string `json:"prices"`
}

// FetchPrices pulls the full price table. Malformed or negative prices fail the
// fetch; the caller keeps its previous table.
func (c *PriceClient) FetchPrices(ctx context.Context) (types.PriceTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("price response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request rejected with status %d", resp.StatusCode)
	}

	var payload pricePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceData, err)
	}
	if len(payload.Prices) == 0 {
		return nil, fmt.Errorf("%w: empty price table", ErrInvalidPriceData)
	}

	table := make(types.PriceTable, len(payload.Prices))
	for address, raw := range payload.Prices {
		key := strings.ToLower(strings.TrimSpace(address))
		if key == "" {
			return nil, fmt.Errorf("%w: empty token address", ErrInvalidPriceData)
		}

		price, err := sdkmath.LegacyNewDecFromStr(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q for %s: %w", ErrInvalidPriceData, raw, key, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price %s for %s", ErrInvalidPriceData, price, key)
		}

		table[key] = price
	}

	priceLogger.Debug().Int("tokenCount", len(table)).Msg("Fetched token price table")
	return table, nil
}

package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ERAPIClient reads quotes from an open.er-api.com compatible endpoint
type ERAPIClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

type erapiResponse struct {
	Result            string             `json:"result"`
	BaseCode          string             `json:"base_code"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	Rates             map[string]float64 `json:"rates"`
	ErrorType         string             `json:"error-type"`
}

// NewERAPIClient initializes a client rooted at url (e.g. https://open.er-api.com/v6)
func NewERAPIClient(url string, timeout time.Duration, log *logrus.Logger) *ERAPIClient {
	return &ERAPIClient{
		url: strings.TrimRight(url, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Rate fetches the latest table for base and picks quote from it
func (c *ERAPIClient) Rate(ctx context.Context, base, quote string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/latest/%s", c.url, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("failed to read response: %v", err)
	}
	c.log.Debugf("FX response: %s", string(body))

	var payload erapiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, unavailable("failed to decode response: %v", err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return nil, unavailable("rate service returned %q (%s)", payload.Result, payload.ErrorType)
	}

	rate, ok := payload.Rates[quote]
	if !ok || rate <= 0 {
		return nil, currencyNotFound(quote)
	}

	return &Quote{
		Base:      base,
		Currency:  quote,
		Rate:      rate,
		UpdatedAt: payload.TimeLastUpdateUTC,
		Source:    "er-api",
	}, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the Swastricare REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QueryActivities(ctx context.Context, start, end time.Time, _ int, source, activityType string) ([]models.Activity, error) {
	params := timeParams(start, end)
	if source != "" {
		params.Set("source", source)
	}
	if activityType != "" {
		params.Set("type", activityType)
	}

	body, err := c.get(ctx, "/api/v1/activities", params)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("httpclient: decode activities: %w", err)
	}
	return activities, nil
}

func (c *HTTPClient) GetActivity(ctx context.Context, id uuid.UUID, _ int) (*models.Activity, error) {
	body, err := c.get(ctx, "/api/v1/activities/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var a models.Activity
	if err := json.Unmarshal(body, &a); err != nil {
		return nil, fmt.Errorf("httpclient: decode activity: %w", err)
	}
	return &a, nil
}

func (c *HTTPClient) QueryDailyTotals(ctx context.Context, _ int, start, end time.Time) ([]models.DailyTotals, error) {
	body, err := c.get(ctx, "/api/v1/totals", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var totals []models.DailyTotals
	if err := json.Unmarshal(body, &totals); err != nil {
		return nil, fmt.Errorf("httpclient: decode totals: %w", err)
	}
	return totals, nil
}

func (c *HTTPClient) GetDailyTotals(ctx context.Context, userID int, day time.Time) (models.DailyTotals, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	totals, err := c.QueryDailyTotals(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return models.DailyTotals{}, err
	}
	if len(totals) == 0 {
		return models.DailyTotals{Date: day}, nil
	}
	return totals[0], nil
}

func (c *HTTPClient) GetGoal(ctx context.Context, _ int) (models.ActivityGoal, error) {
	body, err := c.get(ctx, "/api/v1/goal", nil)
	if err != nil {
		return models.ActivityGoal{}, err
	}

	var g models.ActivityGoal
	if err := json.Unmarshal(body, &g); err != nil {
		return models.ActivityGoal{}, fmt.Errorf("httpclient: decode goal: %w", err)
	}
	return g, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats/data", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode data stats: %w", err)
	}
	return &stats, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	ErrUpstreamTimeout     = errors.New("prediction service timed out")
	ErrUpstreamUnavailable = errors.New("prediction service unavailable")
)

// PredictionRequest mirrors the AI service's single-prediction input.
type PredictionRequest struct {
	PropertyType string  `json:"property_type" validate:"required"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0,lte=10"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=1,lte=10"`
	Area         float64 `json:"area" validate:"gt=0,lte=10000"`
	Furnished    string  `json:"furnished" validate:"required"`
	Location     string  `json:"location" validate:"required,max=200"`
}

type PredictionResponse struct {
	PredictedPrice  float64            `json:"predicted_price"`
	ConfidenceScore float64            `json:"confidence_score"`
	PriceRange      map[string]float64 `json:"price_range"`
	ModelVersion    string             `json:"model_version"`
	FeaturesUsed    []string           `json:"features_used"`
	Currency        string             `json:"currency"`
	Status          string             `json:"status"`
}

// PredictionClient proxies price predictions to the upstream AI service. The
// enabled flag is process-local, like the auto-approve policy, and defaults
// to on.
type PredictionClient struct {
	baseURL string
	client  *http.Client

	mu        sync.RWMutex
	enabled   bool
	updatedAt time.Time
	updatedBy uint
}

func NewPredictionClient(baseURL string, timeout time.Duration) *PredictionClient {
	return &PredictionClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		enabled:   true,
		updatedAt: time.Now(),
	}
}

func (c *PredictionClient) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

func (c *PredictionClient) Status() ToggleStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ToggleStatus{Enabled: c.enabled, UpdatedAt: c.updatedAt, UpdatedBy: c.updatedBy}
}

func (c *PredictionClient) SetEnabled(enabled bool, actorID uint) ToggleStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	c.updatedAt = time.Now()
	c.updatedBy = actorID
	return ToggleStatus{Enabled: c.enabled, UpdatedAt: c.updatedAt, UpdatedBy: c.updatedBy}
}

// PredictPrice forwards one prediction request upstream. A non-responding
// upstream surfaces as ErrUpstreamTimeout and every other transport failure
// as ErrUpstreamUnavailable; callers report these as failed predictions
// rather than request faults.
func (c *PredictionClient) PredictPrice(ctx context.Context, input PredictionRequest) (*PredictionResponse, error) {
	if !c.Enabled() {
		return nil, ErrUpstreamUnavailable
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predict/single", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrUpstreamTimeout
		}
		return nil, ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrUpstreamUnavailable
	}
	var out PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, ErrUpstreamUnavailable
	}
	return &out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
